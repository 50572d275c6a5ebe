package scoring

import (
	"github.com/abhisek/lingua/internal/catalog"
	"github.com/abhisek/lingua/internal/transcript"
)

// Role-play strategy weights. They sum to 1.0.
const (
	weightStageCoverage      = 0.30
	weightVocabularyUse      = 0.25
	weightObjectiveAchieved  = 0.25
	weightInteractionQuality = 0.10
	weightRolePlayTime       = 0.10

	// RolePlayThreshold is the completion bar for role-play modules. It is
	// lower than the Standard bar because open-ended conversation is harder
	// to max out on heuristic signals alone.
	RolePlayThreshold = 75.0
)

// Interaction-quality ramp bounds, in student turns.
const (
	interactionFloorTurns = 3
	interactionFullTurns  = 10
)

// ScoreRolePlay scores a Role-Play module from transcript signals.
func ScoreRolePlay(mod *catalog.ModuleDefinition, sig transcript.Signals) Breakdown {
	b := Breakdown{Strategy: StrategyRolePlay}

	b.StageCoverage = sig.StageCoverageRate
	b.VocabularyUse = sig.VocabularyHitRate
	b.ObjectiveAchieved = sig.ObjectiveAchieved
	b.InteractionQuality = interactionQuality(sig.StudentTurnCount)
	b.TimeInvestment = steppedTimeRatio(sig.ElapsedMinutes, mod.EstimatedDurationMinutes)

	objective := 0.0
	if b.ObjectiveAchieved {
		objective = 1.0
	}

	b.CompletionScore = 100 * (weightStageCoverage*b.StageCoverage +
		weightVocabularyUse*b.VocabularyUse +
		weightObjectiveAchieved*objective +
		weightInteractionQuality*b.InteractionQuality +
		weightRolePlayTime*b.TimeInvestment)
	b.IsCompleted = b.CompletionScore >= RolePlayThreshold
	return b
}

// ScoreRolePlayFallback scores a Role-Play module with no transcript at all,
// e.g. a batch consistency check outside a live session. It degrades to the
// exercise-completion-only check against the role-play threshold.
func ScoreRolePlayFallback(mod *catalog.ModuleDefinition, snap ProgressSnapshot) Breakdown {
	b := Breakdown{Strategy: StrategyFallback}
	b.ExerciseCompletion = exerciseCompletionRate(mod, bestScores(snap.Attempts))
	b.CompletionScore = 100 * b.ExerciseCompletion
	b.IsCompleted = b.CompletionScore >= RolePlayThreshold
	return b
}

// interactionQuality ramps linearly from 0 below interactionFloorTurns
// student turns to 1 at interactionFullTurns.
func interactionQuality(studentTurns int) float64 {
	if studentTurns < interactionFloorTurns {
		return 0
	}
	ramp := float64(studentTurns-interactionFloorTurns+1) /
		float64(interactionFullTurns-interactionFloorTurns+1)
	return clamp(ramp, 0, 1)
}

// steppedTimeRatio rewards "enough" time rather than arbitrarily long
// sessions: the capped actual/expected ratio maps onto discount steps at the
// 70/50/30% thresholds.
func steppedTimeRatio(elapsedMinutes float64, estimatedMinutes int) float64 {
	ratio := timeRatio(elapsedMinutes, estimatedMinutes)
	switch {
	case ratio >= 1:
		return 1.0
	case ratio >= 0.7:
		return 0.8
	case ratio >= 0.5:
		return 0.6
	case ratio >= 0.3:
		return 0.4
	default:
		return 0
	}
}

// Score dispatches to the strategy selected by the module variant. A nil sig
// for a Role-Play module triggers the exercise-only fallback.
func Score(mod *catalog.ModuleDefinition, sig *transcript.Signals, snap ProgressSnapshot) Breakdown {
	if !mod.IsRolePlay() {
		return ScoreStandard(mod, snap)
	}
	if sig == nil {
		return ScoreRolePlayFallback(mod, snap)
	}
	return ScoreRolePlay(mod, *sig)
}
