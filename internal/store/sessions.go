package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/lingua/internal/scoring"
	"github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/transcript"
)

type sessionRow struct {
	ID           string         `db:"id"`
	ModuleID     string         `db:"module_id"`
	StudentID    string         `db:"student_id"`
	State        string         `db:"state"`
	Turns        string         `db:"turns"`
	Score        sql.NullString `db:"score"`
	Completed    bool           `db:"completed"`
	StartedAt    string         `db:"started_at"`
	EndedAt      sql.NullString `db:"ended_at"`
	LastActivity string         `db:"last_activity"`
}

// SaveSession upserts a session record. Records are only ever rewritten by
// the engine that owns them; terminal records become the immutable audit trail.
func (s *Store) SaveSession(ctx context.Context, rec *session.Record) error {
	turns, err := json.Marshal(rec.Turns)
	if err != nil {
		return fmt.Errorf("marshal turns: %w", err)
	}

	var score sql.NullString
	if rec.Score != nil {
		raw, err := json.Marshal(rec.Score)
		if err != nil {
			return fmt.Errorf("marshal score: %w", err)
		}
		score = sql.NullString{String: string(raw), Valid: true}
	}

	var endedAt sql.NullString
	if rec.EndedAt != nil {
		endedAt = sql.NullString{String: rec.EndedAt.Format(time.RFC3339Nano), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, module_id, student_id, state, turns, score, completed, started_at, ended_at, last_activity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			turns = excluded.turns,
			score = excluded.score,
			completed = excluded.completed,
			ended_at = excluded.ended_at,
			last_activity = excluded.last_activity`,
		rec.ID, rec.ModuleID, rec.StudentID, string(rec.State), string(turns), score,
		rec.ModuleCompleted, rec.StartedAt.Format(time.RFC3339Nano), endedAt,
		rec.LastActivity.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

// Session loads one session record by ID.
func (s *Store) Session(ctx context.Context, id string) (*session.Record, error) {
	var row sessionRow
	if err := s.db.GetContext(ctx, &row, "SELECT * FROM sessions WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return decodeSession(row)
}

// Sessions returns a student's session records for a module, oldest first.
// Multiple attempts at the same module are independent records.
func (s *Store) Sessions(ctx context.Context, studentID, moduleID string) ([]*session.Record, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM sessions WHERE student_id = ? AND module_id = ? ORDER BY started_at`,
		studentID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	records := make([]*session.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeSession(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeSession(row sessionRow) (*session.Record, error) {
	rec := &session.Record{
		ID:              row.ID,
		ModuleID:        row.ModuleID,
		StudentID:       row.StudentID,
		State:           session.State(row.State),
		ModuleCompleted: row.Completed,
	}

	if err := json.Unmarshal([]byte(row.Turns), &rec.Turns); err != nil {
		return nil, fmt.Errorf("decode turns for session %s: %w", row.ID, err)
	}
	if row.Score.Valid {
		var breakdown scoring.Breakdown
		if err := json.Unmarshal([]byte(row.Score.String), &breakdown); err != nil {
			return nil, fmt.Errorf("decode score for session %s: %w", row.ID, err)
		}
		rec.Score = &breakdown
	}

	var err error
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, row.StartedAt); err != nil {
		return nil, fmt.Errorf("parse started_at for session %s: %w", row.ID, err)
	}
	if rec.LastActivity, err = time.Parse(time.RFC3339Nano, row.LastActivity); err != nil {
		return nil, fmt.Errorf("parse last_activity for session %s: %w", row.ID, err)
	}
	if row.EndedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, row.EndedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at for session %s: %w", row.ID, err)
		}
		rec.EndedAt = &t
	}
	if rec.Turns == nil {
		rec.Turns = []transcript.Turn{}
	}
	return rec, nil
}

// StaleActiveSessions returns IDs of active sessions whose last activity is
// strictly before cutoff. Timestamps are parsed rather than compared as text,
// so records written with different UTC offsets still sort correctly.
func (s *Store) StaleActiveSessions(ctx context.Context, cutoff time.Time) ([]string, error) {
	type idActivity struct {
		ID           string `db:"id"`
		LastActivity string `db:"last_activity"`
	}
	var rows []idActivity
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, last_activity FROM sessions WHERE state = ?", string(session.StateActive))
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	var stale []string
	for _, row := range rows {
		last, err := time.Parse(time.RFC3339Nano, row.LastActivity)
		if err != nil {
			return nil, fmt.Errorf("parse last_activity for session %s: %w", row.ID, err)
		}
		if last.Before(cutoff) {
			stale = append(stale, row.ID)
		}
	}
	return stale, nil
}

// AbandonSession marks a stored session abandoned, guarded on the active
// state so a session ended in the meantime is left untouched.
func (s *Store) AbandonSession(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET state = ?, ended_at = ? WHERE id = ? AND state = ?`,
		string(session.StateAbandoned), at.Format(time.RFC3339Nano), id, string(session.StateActive))
	if err != nil {
		return fmt.Errorf("abandon session %s: %w", id, err)
	}
	return nil
}

// StudentStats summarizes a student's session history.
type StudentStats struct {
	StudentID string  `db:"student_id"`
	Sessions  int     `db:"sessions"`
	Completed int     `db:"completed"`
	Abandoned int     `db:"abandoned"`
	AvgScore  float64 `db:"avg_score"`
}

// StatsByStudent aggregates session counts and scores per student.
func (s *Store) StatsByStudent(ctx context.Context) ([]StudentStats, error) {
	var stats []StudentStats
	err := s.db.SelectContext(ctx, &stats, `
		SELECT
			student_id,
			COUNT(*) AS sessions,
			SUM(completed) AS completed,
			SUM(CASE WHEN state = 'abandoned' THEN 1 ELSE 0 END) AS abandoned,
			COALESCE(AVG(json_extract(score, '$.completion_score')), 0) AS avg_score
		FROM sessions
		GROUP BY student_id
		ORDER BY student_id`)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	return stats, nil
}
