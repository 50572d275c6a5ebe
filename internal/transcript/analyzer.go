package transcript

import (
	"strings"

	"github.com/abhisek/lingua/internal/catalog"
)

// minKeywordLen is the exclusive lower bound on token length for keyword
// extraction: only tokens longer than this count as keywords.
const minKeywordLen = 3

// substantialInteractionTurns is the student-turn count at which the
// role-play objective counts as achieved regardless of keyword matches.
// Keyword matching is an unreliable proxy for intent; a sustained
// conversation is accepted as evidence on its own.
const substantialInteractionTurns = 5

// Signals are the derived facts extracted from a transcript, consumed by the
// completion scorer. All values are deterministic string heuristics: cheap,
// explainable, and reproducible for a teacher reviewing the score.
type Signals struct {
	StudentTurnCount int
	SpokenTurnCount  int
	TypedTurnCount   int

	// ElapsedMinutes is the span between the first and last turn.
	ElapsedMinutes float64

	// VocabularyHitRate is the fraction of module vocabulary terms appearing
	// in the student turns. 1 when the module has no vocabulary.
	VocabularyHitRate float64

	// StageCoverageRate is the fraction of role-play stages whose keywords
	// appear in the student turns. 1 when there are no stages.
	StageCoverageRate float64

	// ObjectiveAchieved is true when at least half of the objective's
	// keywords appear in the full transcript, or the student sustained a
	// substantial interaction.
	ObjectiveAchieved bool
}

// Analyze extracts Signals from a transcript against a module definition.
// A transcript with no student turns yields all signals at their minimum;
// it is a valid, scoreable (failing) input, never an error.
func Analyze(turns []Turn, mod *catalog.ModuleDefinition) Signals {
	var sig Signals

	var studentTexts []string
	var allTexts []string
	for _, turn := range turns {
		allTexts = append(allTexts, turn.Text)
		if turn.Speaker != SpeakerStudent {
			continue
		}
		sig.StudentTurnCount++
		studentTexts = append(studentTexts, turn.Text)
		switch turn.Modality {
		case ModalitySpoken:
			sig.SpokenTurnCount++
		default:
			sig.TypedTurnCount++
		}
	}

	if sig.StudentTurnCount == 0 {
		return sig
	}

	if len(turns) > 1 {
		span := turns[len(turns)-1].Timestamp.Sub(turns[0].Timestamp)
		sig.ElapsedMinutes = span.Minutes()
	}

	studentText := strings.ToLower(strings.Join(studentTexts, " "))
	fullText := strings.ToLower(strings.Join(allTexts, " "))

	sig.VocabularyHitRate = vocabularyHitRate(studentText, mod.Vocabulary)

	if mod.IsRolePlay() {
		sig.StageCoverageRate = stageCoverageRate(studentText, mod.RolePlay.ConversationStages)
		sig.ObjectiveAchieved = objectiveAchieved(fullText, mod.RolePlay.Objective, sig.StudentTurnCount)
	}

	return sig
}

// vocabularyHitRate counts vocabulary terms whose literal lowercase form
// appears as a substring of the student text. No vocabulary means the
// constraint is vacuously satisfied.
func vocabularyHitRate(studentText string, vocab []catalog.VocabularyItem) float64 {
	if len(vocab) == 0 {
		return 1
	}
	hits := 0
	for _, v := range vocab {
		term := strings.ToLower(strings.TrimSpace(v.Term))
		if term != "" && strings.Contains(studentText, term) {
			hits++
		}
	}
	return float64(hits) / float64(len(vocab))
}

// stageCoverageRate counts stages with at least one keyword hit in the
// student text. No stages means full coverage.
func stageCoverageRate(studentText string, stages []catalog.ConversationStage) float64 {
	if len(stages) == 0 {
		return 1
	}
	covered := 0
	for _, stage := range stages {
		keywords := extractKeywords(stage.Name + " " + stage.Description)
		for _, kw := range keywords {
			if strings.Contains(studentText, kw) {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(stages))
}

// objectiveAchieved is true when at least half (rounded up) of the
// objective's keywords appear in the full transcript (both speakers), or
// the student-turn count clears the substantial-interaction fallback.
func objectiveAchieved(fullText, objective string, studentTurns int) bool {
	if studentTurns >= substantialInteractionTurns {
		return true
	}
	keywords := extractKeywords(objective)
	needed := (len(keywords) + 1) / 2
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(fullText, kw) {
			matched++
		}
	}
	return matched >= needed
}

// extractKeywords returns the deduplicated lowercase tokens longer than
// minKeywordLen characters.
func extractKeywords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\'' && !(r > 127)
	})

	seen := make(map[string]bool, len(fields))
	var keywords []string
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) <= minKeywordLen || seen[f] {
			continue
		}
		seen[f] = true
		keywords = append(keywords, f)
	}
	return keywords
}
