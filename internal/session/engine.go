package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingua/internal/access"
	"github.com/abhisek/lingua/internal/catalog"
	"github.com/abhisek/lingua/internal/scoring"
	"github.com/abhisek/lingua/internal/transcript"
)

// EndCommand is the sentinel text a student sends to end a session early.
const EndCommand = "/end"

// ModuleSource reads module definitions.
type ModuleSource interface {
	Module(ctx context.Context, id string) (*catalog.ModuleDefinition, error)
}

// ProfileSource reads a student's proficiency tier.
type ProfileSource interface {
	StudentTier(ctx context.Context, studentID string) (string, error)
}

// RecordWriter persists session records.
type RecordWriter interface {
	SaveSession(ctx context.Context, rec *Record) error
}

// ProgressSource supplies the stored progress consumed by the Standard scorer.
type ProgressSource interface {
	Progress(ctx context.Context, studentID, moduleID string) (scoring.ProgressSnapshot, error)
}

// Engine drives session lifecycles. Mutations on one session are serialized
// behind a per-session lock; distinct sessions proceed independently.
type Engine struct {
	modules  ModuleSource
	profiles ProfileSource
	records  RecordWriter
	progress ProgressSource
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	live map[string]*liveSession
}

// liveSession pairs a record with its module and a lock serializing turns.
type liveSession struct {
	mu  sync.Mutex
	rec *Record
	mod *catalog.ModuleDefinition
}

// NewEngine creates an engine over the given collaborators.
func NewEngine(modules ModuleSource, profiles ProfileSource, records RecordWriter, progress ProgressSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		modules:  modules,
		profiles: profiles,
		records:  records,
		progress: progress,
		logger:   logger,
		now:      time.Now,
		live:     make(map[string]*liveSession),
	}
}

// StartSession admits a student to a module and creates an active record.
// Returns *access.AccessDeniedError when the module tier is above the
// student's tier.
func (e *Engine) StartSession(ctx context.Context, studentID, moduleID string) (*Record, error) {
	tier, err := e.profiles.StudentTier(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("resolve student tier: %w", err)
	}
	mod, err := e.modules.Module(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if err := access.Check(tier, mod.LevelTier); err != nil {
		return nil, err
	}

	now := e.now()
	rec := &Record{
		ID:           uuid.New().String(),
		ModuleID:     moduleID,
		StudentID:    studentID,
		State:        StateActive,
		StartedAt:    now,
		LastActivity: now,
	}
	if err := e.records.SaveSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	e.mu.Lock()
	e.live[rec.ID] = &liveSession{rec: rec, mod: mod}
	e.mu.Unlock()

	e.logger.Info("session started",
		"session", rec.ID, "student", studentID, "module", moduleID, "tier", tier)
	return rec, nil
}

// AppendTurn appends a turn to an active session and re-runs the scorer.
// The current running score is returned. If the verdict flips to completed,
// the session transitions to the completed terminal state. A student turn
// matching EndCommand instead transitions to manually_ended.
func (e *Engine) AppendTurn(ctx context.Context, sessionID string, turn transcript.Turn) (scoring.Breakdown, error) {
	ls, err := e.session(sessionID)
	if err != nil {
		return scoring.Breakdown{}, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	rec := ls.rec
	if rec.State.Terminal() {
		e.logger.Warn("turn rejected on terminal session", "session", rec.ID, "state", rec.State)
		return scoring.Breakdown{}, &InvalidTransitionError{SessionID: rec.ID, State: rec.State}
	}

	rec.Turns = append(rec.Turns, turn)
	rec.LastActivity = turn.Timestamp

	if turn.Speaker == transcript.SpeakerStudent && isEndCommand(turn.Text) {
		return e.endLocked(ctx, ls, StateManuallyEnded, turn.Timestamp)
	}

	breakdown, err := e.scoreLocked(ctx, ls)
	if err != nil {
		return scoring.Breakdown{}, err
	}
	rec.Score = &breakdown

	// One-way transition: the first passing verdict completes the session.
	if breakdown.IsCompleted {
		ended := turn.Timestamp
		rec.State = StateCompleted
		rec.EndedAt = &ended
		rec.ModuleCompleted = true
		e.logger.Info("session completed",
			"session", rec.ID, "score", breakdown.CompletionScore)
	}

	if err := e.records.SaveSession(ctx, rec); err != nil {
		return breakdown, fmt.Errorf("save session: %w", err)
	}
	return breakdown, nil
}

// EndSession terminates a session. An explicit end transitions to
// manually_ended and snapshots a final score without ever setting
// ModuleCompleted; a timeout transitions to abandoned. Ending an already
// terminal session is an InvalidTransitionError, except for timeouts, which
// are idempotent no-ops.
func (e *Engine) EndSession(ctx context.Context, sessionID string, reason EndReason) (*Record, error) {
	ls, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	rec := ls.rec
	if rec.State.Terminal() {
		if reason == ReasonTimeout {
			return rec, nil
		}
		e.logger.Warn("end rejected on terminal session", "session", rec.ID, "state", rec.State)
		return nil, &InvalidTransitionError{SessionID: rec.ID, State: rec.State}
	}

	target := StateManuallyEnded
	if reason == ReasonTimeout {
		target = StateAbandoned
	}
	if _, err := e.endLocked(ctx, ls, target, e.now()); err != nil {
		return nil, err
	}
	return rec, nil
}

// MarkAbandoned is the idempotent entry point for the external timeout
// collaborator.
func (e *Engine) MarkAbandoned(ctx context.Context, sessionID string) error {
	_, err := e.EndSession(ctx, sessionID, ReasonTimeout)
	return err
}

// StaleSessions returns the IDs of active sessions with no activity for at
// least olderThan.
func (e *Engine) StaleSessions(olderThan time.Duration) []string {
	cutoff := e.now().Add(-olderThan)

	e.mu.Lock()
	defer e.mu.Unlock()

	var stale []string
	for id, ls := range e.live {
		ls.mu.Lock()
		if !ls.rec.State.Terminal() && !ls.rec.LastActivity.After(cutoff) {
			stale = append(stale, id)
		}
		ls.mu.Unlock()
	}
	return stale
}

// Session returns the record for a session known to this engine.
func (e *Engine) Session(sessionID string) (*Record, error) {
	ls, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.rec, nil
}

// endLocked performs a terminal transition with ls.mu held. EndedAt is set
// exactly once, here. The scorer runs once more to snapshot the final score,
// but ModuleCompleted is deliberately left unchanged: explicit early
// termination is a non-completion signal the heuristic must not second-guess.
func (e *Engine) endLocked(ctx context.Context, ls *liveSession, target State, endedAt time.Time) (scoring.Breakdown, error) {
	rec := ls.rec
	rec.State = target
	rec.EndedAt = &endedAt

	breakdown, err := e.scoreLocked(ctx, ls)
	if err != nil {
		return scoring.Breakdown{}, err
	}
	rec.Score = &breakdown

	if err := e.records.SaveSession(ctx, rec); err != nil {
		return breakdown, fmt.Errorf("save session: %w", err)
	}
	e.logger.Info("session ended",
		"session", rec.ID, "state", target, "score", breakdown.CompletionScore,
		"completed", rec.ModuleCompleted)
	return breakdown, nil
}

// scoreLocked runs the scorer strategy selected by the module variant.
func (e *Engine) scoreLocked(ctx context.Context, ls *liveSession) (scoring.Breakdown, error) {
	rec, mod := ls.rec, ls.mod

	if mod.IsRolePlay() {
		sig := transcript.Analyze(rec.Turns, mod)
		if rec.EndedAt != nil {
			sig.ElapsedMinutes = rec.ElapsedMinutes()
		}
		return scoring.ScoreRolePlay(mod, sig), nil
	}

	snap, err := e.progress.Progress(ctx, rec.StudentID, rec.ModuleID)
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("load progress: %w", err)
	}
	return scoring.ScoreStandard(mod, snap), nil
}

func (e *Engine) session(sessionID string) (*liveSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ls, ok := e.live[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return ls, nil
}

func isEndCommand(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case EndCommand, "/quit":
		return true
	}
	return false
}
