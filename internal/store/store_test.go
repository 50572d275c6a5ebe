package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/catalog"
	"github.com/abhisek/lingua/internal/scoring"
	"github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/transcript"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lingua-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testModule() *catalog.ModuleDefinition {
	return &catalog.ModuleDefinition{
		ID:                       "greetings-a1",
		Title:                    "Basic Greetings",
		LevelTier:                "A1",
		EstimatedDurationMinutes: 20,
		Vocabulary:               []catalog.VocabularyItem{{Term: "hello", Translation: "hola"}},
		Exercises: []catalog.Exercise{
			{ID: "ex1", Type: catalog.ExerciseTranslation, PointValue: 10},
			{ID: "ex2", Type: catalog.ExerciseMultipleChoice, PointValue: 10},
		},
		LearningObjectives: []string{"greet politely"},
	}
}

func TestStore_ModuleRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveModule(ctx, testModule()))

	got, err := s.Module(ctx, "greetings-a1")
	require.NoError(t, err)
	assert.Equal(t, "Basic Greetings", got.Title)
	assert.Len(t, got.Exercises, 2)
	assert.False(t, got.IsRolePlay())

	all, err := s.ListModules(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_SaveModuleRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	mod := testModule()
	mod.EstimatedDurationMinutes = 0
	assert.Error(t, s.SaveModule(context.Background(), mod))
}

func TestStore_StudentTier(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertStudent(ctx, Student{ID: "alice", Name: "Alice", Tier: "B1"}))

	tier, err := s.StudentTier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "B1", tier)

	_, err = s.StudentTier(ctx, "nobody")
	assert.Error(t, err)
}

func TestStore_SessionRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ended := t0.Add(12 * time.Minute)
	rec := &session.Record{
		ID:        "sess-1",
		ModuleID:  "greetings-a1",
		StudentID: "alice",
		State:     session.StateCompleted,
		Turns: []transcript.Turn{
			{Speaker: transcript.SpeakerStudent, Text: "hello", Modality: transcript.ModalityTyped, Timestamp: t0},
		},
		StartedAt:       t0,
		EndedAt:         &ended,
		Score:           &scoring.Breakdown{Strategy: scoring.StrategyRolePlay, CompletionScore: 82.5, IsCompleted: true},
		ModuleCompleted: true,
		LastActivity:    ended,
	}
	require.NoError(t, s.SaveSession(ctx, rec))

	got, err := s.Session(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.StateCompleted, got.State)
	assert.True(t, got.ModuleCompleted)
	require.NotNil(t, got.EndedAt)
	assert.True(t, got.EndedAt.Equal(ended))
	require.NotNil(t, got.Score)
	assert.Equal(t, 82.5, got.Score.CompletionScore)
	require.Len(t, got.Turns, 1)
	assert.Equal(t, transcript.SpeakerStudent, got.Turns[0].Speaker)
}

func TestStore_SaveSessionUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &session.Record{
		ID: "sess-2", ModuleID: "m", StudentID: "alice",
		State: session.StateActive, StartedAt: t0, LastActivity: t0,
	}
	require.NoError(t, s.SaveSession(ctx, rec))

	rec.State = session.StateManuallyEnded
	ended := t0.Add(time.Minute)
	rec.EndedAt = &ended
	require.NoError(t, s.SaveSession(ctx, rec))

	got, err := s.Session(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, session.StateManuallyEnded, got.State)

	records, err := s.Sessions(ctx, "alice", "m")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_ProgressSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveModule(ctx, testModule()))
	require.NoError(t, s.UpsertStudent(ctx, Student{ID: "alice", Tier: "A1"}))

	// Pass, pass, fail, pass: best streak 2.
	attempts := []struct {
		ex    string
		score int
	}{
		{"ex1", 8}, {"ex2", 7}, {"ex1", 2}, {"ex2", 9},
	}
	for i, a := range attempts {
		require.NoError(t, s.RecordAttempt(ctx, "alice", "greetings-a1", a.ex, a.score,
			t0.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, s.SetObjectiveMastery(ctx, "alice", "greetings-a1", "greet politely",
		scoring.MasteryIntermediate, t0))

	for i, span := range []time.Duration{10 * time.Minute, 8 * time.Minute} {
		start := t0.Add(time.Duration(i) * time.Hour)
		end := start.Add(span)
		require.NoError(t, s.SaveSession(ctx, &session.Record{
			ID: "sess-" + string(rune('a'+i)), ModuleID: "greetings-a1", StudentID: "alice",
			State: session.StateManuallyEnded, StartedAt: start, EndedAt: &end, LastActivity: end,
		}))
	}

	snap, err := s.Progress(ctx, "alice", "greetings-a1")
	require.NoError(t, err)
	assert.Len(t, snap.Attempts, 4)
	assert.Len(t, snap.Objectives, 1)
	assert.Equal(t, 2, snap.SessionCount)
	assert.InDelta(t, 18.0, snap.TotalMinutes, 1e-9)
	assert.Equal(t, 2, snap.BestStreak)

	// The derived snapshot feeds the Standard scorer directly.
	b := scoring.ScoreStandard(testModule(), snap)
	assert.Equal(t, 1.0, b.ExerciseCompletion)
	assert.Equal(t, 1.0, b.ObjectiveMastery)
}

func TestStore_StaleActiveSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	save := func(id string, state session.State, lastActivity time.Time) {
		require.NoError(t, s.SaveSession(ctx, &session.Record{
			ID: id, ModuleID: "m", StudentID: "alice",
			State: state, StartedAt: t0, LastActivity: lastActivity,
		}))
	}
	save("old-active", session.StateActive, t0)
	save("fresh-active", session.StateActive, t0.Add(50*time.Minute))
	save("old-ended", session.StateManuallyEnded, t0)

	stale, err := s.StaleActiveSessions(ctx, t0.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"old-active"}, stale)

	require.NoError(t, s.AbandonSession(ctx, "old-active", t0.Add(time.Hour)))

	got, err := s.Session(ctx, "old-active")
	require.NoError(t, err)
	assert.Equal(t, session.StateAbandoned, got.State)
	require.NotNil(t, got.EndedAt)

	// Guarded on the active state: repeating is a no-op, and a session ended
	// in the meantime keeps its state.
	require.NoError(t, s.AbandonSession(ctx, "old-ended", t0.Add(time.Hour)))
	got, err = s.Session(ctx, "old-ended")
	require.NoError(t, err)
	assert.Equal(t, session.StateManuallyEnded, got.State)
}

func TestStore_StatsByStudent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	save := func(id, student string, state session.State, completed bool, score float64) {
		require.NoError(t, s.SaveSession(ctx, &session.Record{
			ID: id, ModuleID: "m", StudentID: student, State: state,
			StartedAt: t0, LastActivity: t0, ModuleCompleted: completed,
			Score: &scoring.Breakdown{CompletionScore: score, IsCompleted: completed},
		}))
	}
	save("s1", "alice", session.StateCompleted, true, 90)
	save("s2", "alice", session.StateAbandoned, false, 30)
	save("s3", "bob", session.StateManuallyEnded, false, 60)

	stats, err := s.StatsByStudent(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "alice", stats[0].StudentID)
	assert.Equal(t, 2, stats[0].Sessions)
	assert.Equal(t, 1, stats[0].Completed)
	assert.Equal(t, 1, stats[0].Abandoned)
	assert.InDelta(t, 60.0, stats[0].AvgScore, 1e-9)

	assert.Equal(t, "bob", stats[1].StudentID)
	assert.Equal(t, 1, stats[1].Sessions)
}
