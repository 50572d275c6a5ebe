// Package transcript defines conversation turns and the signal analyzer
// that extracts deterministic heuristics from a session transcript.
package transcript

import "time"

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerStudent Speaker = "student"
	SpeakerTutor   Speaker = "tutor"
)

// Modality identifies how the student produced the turn.
type Modality string

const (
	ModalityTyped  Modality = "typed"
	ModalitySpoken Modality = "spoken"
)

// Turn is one message in a transcript. Ordering is chronological and
// significant; turns are immutable once appended.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Modality  Modality  `json:"modality"`
	Timestamp time.Time `json:"timestamp"`
}
