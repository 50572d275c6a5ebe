package scoring

import "github.com/abhisek/lingua/internal/catalog"

// Standard strategy weights. They sum to 1.0; the weighted sum scales to 100.
const (
	weightExerciseCompletion = 0.40
	weightObjectiveMastery   = 0.30
	weightVocabularyMastery  = 0.15
	weightConsistency        = 0.10
	weightTimeInvestment     = 0.05

	// StandardThreshold is the completion bar for drill modules.
	StandardThreshold = 80.0
)

// Pass bars for exercise scoring, as fractions of an exercise's point value.
const (
	exercisePassRatio   = 0.60
	vocabularyPassRatio = 0.70
)

// Consistency sub-criteria thresholds.
const (
	consistencyMinSessions = 2
	consistencyMinMinutes  = 15.0
	consistencyMinStreak   = 2
)

// ScoreStandard scores a Standard (drill) module from stored progress records.
func ScoreStandard(mod *catalog.ModuleDefinition, snap ProgressSnapshot) Breakdown {
	b := Breakdown{Strategy: StrategyStandard}

	best := bestScores(snap.Attempts)

	b.ExerciseCompletion = exerciseCompletionRate(mod, best)
	b.ObjectiveMastery = objectiveMasteryRate(mod, snap.Objectives)
	b.VocabularyMastery = vocabularyMasteryRate(mod, best)
	b.Consistency = consistencyScore(snap)
	b.TimeInvestment = timeRatio(snap.ActualMinutes, mod.EstimatedDurationMinutes)

	b.CompletionScore = 100 * (weightExerciseCompletion*b.ExerciseCompletion +
		weightObjectiveMastery*b.ObjectiveMastery +
		weightVocabularyMastery*b.VocabularyMastery +
		weightConsistency*b.Consistency +
		weightTimeInvestment*b.TimeInvestment)
	b.IsCompleted = b.CompletionScore >= StandardThreshold
	return b
}

// bestScores reduces attempts to the best score per exercise.
func bestScores(attempts []ExerciseAttempt) map[string]int {
	best := make(map[string]int, len(attempts))
	for _, a := range attempts {
		if a.Score > best[a.ExerciseID] {
			best[a.ExerciseID] = a.Score
		}
	}
	return best
}

// exerciseCompletionRate is the fraction of the module's exercises answered
// at or above 60% of their point value. A module with no exercises has
// nothing completed, so the rate is 0.
func exerciseCompletionRate(mod *catalog.ModuleDefinition, best map[string]int) float64 {
	if len(mod.Exercises) == 0 {
		return 0
	}
	passed := 0
	for _, ex := range mod.Exercises {
		if passesRatio(best[ex.ID], ex.PointValue, exercisePassRatio) {
			passed++
		}
	}
	return float64(passed) / float64(len(mod.Exercises))
}

// objectiveMasteryRate is the fraction of learning objectives whose tracked
// mastery level is above basic.
func objectiveMasteryRate(mod *catalog.ModuleDefinition, objectives []ObjectiveMastery) float64 {
	if len(mod.LearningObjectives) == 0 {
		return 0
	}
	levels := make(map[string]MasteryLevel, len(objectives))
	for _, o := range objectives {
		levels[o.Objective] = o.Level
	}
	mastered := 0
	for _, obj := range mod.LearningObjectives {
		if levels[obj].AboveBasic() {
			mastered++
		}
	}
	return float64(mastered) / float64(len(mod.LearningObjectives))
}

// vocabularyMasteryRate is the pass rate of vocabulary-tagged exercises
// (translation and multiple-choice) at 70% of their point value.
func vocabularyMasteryRate(mod *catalog.ModuleDefinition, best map[string]int) float64 {
	total, passed := 0, 0
	for _, ex := range mod.Exercises {
		if !catalog.IsVocabularyType(ex.Type) {
			continue
		}
		total++
		if passesRatio(best[ex.ID], ex.PointValue, vocabularyPassRatio) {
			passed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total)
}

// consistencyScore is a composite of three equally weighted flags:
// enough distinct sessions, enough total time, and a best answer streak.
func consistencyScore(snap ProgressSnapshot) float64 {
	met := 0
	if snap.SessionCount >= consistencyMinSessions {
		met++
	}
	if snap.TotalMinutes >= consistencyMinMinutes {
		met++
	}
	if snap.BestStreak >= consistencyMinStreak {
		met++
	}
	return float64(met) / 3.0
}

// timeRatio is actual over expected duration, capped at 1.
func timeRatio(actualMinutes float64, estimatedMinutes int) float64 {
	if estimatedMinutes <= 0 {
		return 0
	}
	return clamp(actualMinutes/float64(estimatedMinutes), 0, 1)
}

// PassesExercise reports whether an attempt clears the 60% exercise bar.
// The persistence layer uses it to derive answer streaks.
func PassesExercise(score, pointValue int) bool {
	return passesRatio(score, pointValue, exercisePassRatio)
}

func passesRatio(score, pointValue int, ratio float64) bool {
	if pointValue <= 0 {
		return false
	}
	return float64(score) >= ratio*float64(pointValue)
}
