package catalog

import (
	"strings"
	"testing"
)

func standardModule() *ModuleDefinition {
	return &ModuleDefinition{
		ID:                       "greetings-a1",
		Title:                    "Basic Greetings",
		LevelTier:                "A1",
		EstimatedDurationMinutes: 20,
		Vocabulary: []VocabularyItem{
			{Term: "hello", Translation: "hola"},
			{Term: "goodbye", Translation: "adiós"},
		},
		Exercises: []Exercise{
			{ID: "ex1", Type: ExerciseTranslation, Prompt: "Translate 'hello'", CorrectAnswer: "hola", PointValue: 10},
		},
		LearningObjectives: []string{"Greet someone politely"},
	}
}

func rolePlayModule() *ModuleDefinition {
	m := standardModule()
	m.ID = "cafe-b1"
	m.LevelTier = "B1"
	m.RolePlay = &RolePlay{
		Situation:   "Ordering coffee at a busy cafe",
		StudentRole: "customer",
		AIRole:      "barista",
		Setting:     "a cafe in Madrid",
		Objective:   "order a coffee and pastry, then pay the bill",
		ConversationStages: []ConversationStage{
			{Name: "greeting", Description: "greet the barista and ask about the menu"},
			{Name: "ordering", Description: "order your coffee and pastry"},
		},
	}
	return m
}

func TestValidate_Standard(t *testing.T) {
	if err := standardModule().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate_RolePlay(t *testing.T) {
	if err := rolePlayModule().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate_DuplicateVocabulary(t *testing.T) {
	m := standardModule()
	m.Vocabulary = append(m.Vocabulary, VocabularyItem{Term: "Hello"})
	err := m.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate vocabulary") {
		t.Errorf("err = %v, want duplicate vocabulary error", err)
	}
}

func TestValidate_HalfSpecifiedRolePlay(t *testing.T) {
	m := rolePlayModule()
	m.RolePlay.Objective = "  "
	if err := m.Validate(); err == nil {
		t.Error("expected error for role-play with empty objective")
	}
}

func TestValidate_UnknownTier(t *testing.T) {
	m := standardModule()
	m.LevelTier = "X5"
	if err := m.Validate(); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestValidate_NonPositiveDuration(t *testing.T) {
	m := standardModule()
	m.EstimatedDurationMinutes = 0
	if err := m.Validate(); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestParseModule_Valid(t *testing.T) {
	raw := []byte(`{
		"id": "food-a2",
		"title": "Food & Drink",
		"level_tier": "A2",
		"estimated_duration_minutes": 25,
		"vocabulary": [{"term": "bread", "translation": "pan"}],
		"exercises": [{"id": "ex1", "type": "translation", "prompt": "Translate 'bread'", "correct_answer": "pan", "point_value": 5}]
	}`)
	m, err := ParseModule(raw)
	if err != nil {
		t.Fatalf("ParseModule() error = %v", err)
	}
	if m.ID != "food-a2" || m.IsRolePlay() {
		t.Errorf("unexpected module: %+v", m)
	}
}

func TestParseModule_SchemaViolation(t *testing.T) {
	// role_play present but missing required objective
	raw := []byte(`{
		"id": "bad-rp",
		"level_tier": "B1",
		"estimated_duration_minutes": 30,
		"role_play": {"situation": "at the bank", "student_role": "customer", "ai_role": "teller"}
	}`)
	if _, err := ParseModule(raw); err == nil {
		t.Error("expected schema validation error")
	}
}

func TestParseModule_BadJSON(t *testing.T) {
	if _, err := ParseModule([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
