// Package scoring computes module completion verdicts. Two strategies share
// one output shape: Standard modules are scored from stored exercise and
// objective records, Role-Play modules from transcript signals. Both are pure
// functions of their inputs and idempotent.
package scoring

import "time"

// Strategy names the formula that produced a Breakdown.
type Strategy string

const (
	StrategyStandard Strategy = "standard"
	StrategyRolePlay Strategy = "roleplay"
	// StrategyFallback is the exercise-only degradation used when a
	// Role-Play module is scored without a transcript.
	StrategyFallback Strategy = "fallback"
)

// MasteryLevel is the tracked mastery of a learning objective.
type MasteryLevel string

const (
	MasteryNone         MasteryLevel = "none"
	MasteryBasic        MasteryLevel = "basic"
	MasteryIntermediate MasteryLevel = "intermediate"
	MasteryAdvanced     MasteryLevel = "advanced"
)

// AboveBasic reports whether the level clears the objective-mastery bar.
func (l MasteryLevel) AboveBasic() bool {
	return l == MasteryIntermediate || l == MasteryAdvanced
}

// ExerciseAttempt is one recorded attempt at a module exercise.
type ExerciseAttempt struct {
	ExerciseID string
	Score      int
	CreatedAt  time.Time
}

// ObjectiveMastery is the externally tracked mastery of one learning objective.
type ObjectiveMastery struct {
	Objective string
	Level     MasteryLevel
}

// ProgressSnapshot is the stored progress a student has accumulated against a
// module, supplied by the persistence layer.
type ProgressSnapshot struct {
	Attempts     []ExerciseAttempt
	Objectives   []ObjectiveMastery
	SessionCount int
	TotalMinutes float64
	BestStreak   int

	// ActualMinutes is the time invested toward the module, compared against
	// its estimated duration.
	ActualMinutes float64
}

// Breakdown is the output of a scorer run: named per-criterion sub-scores,
// a combined score in [0,100], and the boolean verdict. Sub-scores not used
// by the producing strategy stay zero.
type Breakdown struct {
	Strategy Strategy `json:"strategy"`

	// Standard criteria.
	ExerciseCompletion float64 `json:"exercise_completion"`
	ObjectiveMastery   float64 `json:"objective_mastery"`
	VocabularyMastery  float64 `json:"vocabulary_mastery"`
	Consistency        float64 `json:"consistency"`

	// Role-play criteria.
	StageCoverage      float64 `json:"stage_coverage"`
	VocabularyUse      float64 `json:"vocabulary_use"`
	ObjectiveAchieved  bool    `json:"objective_achieved"`
	InteractionQuality float64 `json:"interaction_quality"`

	// Shared.
	TimeInvestment  float64 `json:"time_investment"`
	CompletionScore float64 `json:"completion_score"`
	IsCompleted     bool    `json:"is_completed"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
