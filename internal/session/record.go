// Package session orchestrates the tutoring session lifecycle: access gating
// at start, rescoring on every turn, and terminal transitions.
package session

import (
	"fmt"
	"time"

	"github.com/abhisek/lingua/internal/scoring"
	"github.com/abhisek/lingua/internal/transcript"
)

// State is a session lifecycle state.
type State string

const (
	// StateActive is the initial state; turns are accepted and rescored.
	StateActive State = "active"

	// StateCompleted is terminal: the scorer's verdict flipped to completed.
	StateCompleted State = "completed"

	// StateManuallyEnded is terminal: the student sent an explicit
	// termination command. ModuleCompleted stays unchanged.
	StateManuallyEnded State = "manually_ended"

	// StateAbandoned is terminal: an external timeout collaborator marked
	// the session stale.
	StateAbandoned State = "abandoned"
)

// Terminal reports whether no further turns are accepted in this state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateManuallyEnded || s == StateAbandoned
}

// EndReason distinguishes the two externally driven terminations.
type EndReason string

const (
	ReasonExplicit EndReason = "explicit"
	ReasonTimeout  EndReason = "timeout"
)

// Record is one tutoring session. Terminal records are never mutated or
// deleted; they are the audit trail a reviewer reads later. A new attempt at
// the same module creates a brand-new Record.
type Record struct {
	ID        string            `json:"id"`
	ModuleID  string            `json:"module_id"`
	StudentID string            `json:"student_id"`
	State     State             `json:"state"`
	Turns     []transcript.Turn `json:"turns"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   *time.Time        `json:"ended_at,omitempty"`

	// Score is the latest scorer snapshot, nil until first evaluation.
	Score *scoring.Breakdown `json:"score,omitempty"`

	// ModuleCompleted is the terminal verdict. Set at most once to true,
	// only while transitioning into StateCompleted; never reverts.
	ModuleCompleted bool `json:"module_completed"`

	// LastActivity is the timestamp of the most recent turn, used by the
	// abandoned-session sweeper.
	LastActivity time.Time `json:"last_activity"`
}

// ElapsedMinutes is the session span: EndedAt-StartedAt once closed,
// otherwise first-to-last turn.
func (r *Record) ElapsedMinutes() float64 {
	if r.EndedAt != nil {
		return r.EndedAt.Sub(r.StartedAt).Minutes()
	}
	if len(r.Turns) > 1 {
		return r.Turns[len(r.Turns)-1].Timestamp.Sub(r.Turns[0].Timestamp).Minutes()
	}
	return 0
}

// InvalidTransitionError indicates an attempt to mutate a terminal record.
// Callers that hit this have an integration bug; the engine logs it loudly
// and rejects the operation.
type InvalidTransitionError struct {
	SessionID string
	State     State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("session %s is %s: no further transitions allowed", e.SessionID, e.State)
}
