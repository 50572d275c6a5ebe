// Package catalog defines learning module definitions and their validation.
// Modules are authored externally and read-only to the progress engine.
package catalog

// ExerciseType identifies the kind of drill exercise.
type ExerciseType string

const (
	ExerciseTranslation    ExerciseType = "translation"
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
	ExerciseFillBlank      ExerciseType = "fill_blank"
	ExerciseListening      ExerciseType = "listening"
)

// vocabularyExerciseTypes are the exercise types counted toward vocabulary mastery.
var vocabularyExerciseTypes = map[ExerciseType]bool{
	ExerciseTranslation:    true,
	ExerciseMultipleChoice: true,
}

// IsVocabularyType reports whether an exercise type counts toward vocabulary mastery.
func IsVocabularyType(t ExerciseType) bool {
	return vocabularyExerciseTypes[t]
}

// VocabularyItem is a single term the module teaches.
type VocabularyItem struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
}

// Exercise is a single drill exercise within a module.
type Exercise struct {
	ID            string       `json:"id"`
	Type          ExerciseType `json:"type"`
	Prompt        string       `json:"prompt"`
	CorrectAnswer string       `json:"correct_answer"`
	PointValue    int          `json:"point_value"`
}

// ConversationStage is one step of a scripted role-play scenario.
type ConversationStage struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RolePlay describes a scripted conversational scenario.
type RolePlay struct {
	Situation          string              `json:"situation"`
	StudentRole        string              `json:"student_role"`
	AIRole             string              `json:"ai_role"`
	Setting            string              `json:"setting"`
	Objective          string              `json:"objective"`
	ConversationStages []ConversationStage `json:"conversation_stages"`
}

// ModuleDefinition is a single learning unit. A module is exactly one of two
// variants: Standard (RolePlay nil) or Role-Play (RolePlay present). The
// variant selects the completion scoring strategy.
type ModuleDefinition struct {
	ID                       string           `json:"id"`
	Title                    string           `json:"title"`
	LevelTier                string           `json:"level_tier"`
	EstimatedDurationMinutes int              `json:"estimated_duration_minutes"`
	Vocabulary               []VocabularyItem `json:"vocabulary"`
	GrammarPatterns          []string         `json:"grammar_patterns,omitempty"`
	Exercises                []Exercise       `json:"exercises,omitempty"`
	LearningObjectives       []string         `json:"learning_objectives,omitempty"`
	RolePlay                 *RolePlay        `json:"role_play,omitempty"`
}

// IsRolePlay reports whether the module is the Role-Play variant.
func (m *ModuleDefinition) IsRolePlay() bool {
	return m.RolePlay != nil
}

// ExerciseByID returns the exercise with the given ID, or nil.
func (m *ModuleDefinition) ExerciseByID(id string) *Exercise {
	for i := range m.Exercises {
		if m.Exercises[i].ID == id {
			return &m.Exercises[i]
		}
	}
	return nil
}
