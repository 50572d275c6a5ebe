package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lingua/internal/catalog"
	"github.com/abhisek/lingua/internal/scoring"
)

type attemptRow struct {
	ExerciseID string `db:"exercise_id"`
	Score      int    `db:"score"`
	CreatedAt  string `db:"created_at"`
}

type objectiveRow struct {
	Objective string `db:"objective"`
	Level     string `db:"level"`
}

type sessionSpanRow struct {
	StartedAt    string  `db:"started_at"`
	EndedAt      *string `db:"ended_at"`
	LastActivity string  `db:"last_activity"`
}

// RecordAttempt stores one exercise attempt.
func (s *Store) RecordAttempt(ctx context.Context, studentID, moduleID, exerciseID string, score int, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exercise_attempts (student_id, module_id, exercise_id, score, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		studentID, moduleID, exerciseID, score, at.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// SetObjectiveMastery stores the tracked mastery level for one objective.
func (s *Store) SetObjectiveMastery(ctx context.Context, studentID, moduleID, objective string, level scoring.MasteryLevel, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO objective_mastery (student_id, module_id, objective, level, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(student_id, module_id, objective) DO UPDATE SET
			level = excluded.level, updated_at = excluded.updated_at`,
		studentID, moduleID, objective, string(level), at.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set objective mastery: %w", err)
	}
	return nil
}

// Progress derives the scoring snapshot for a student and module: best
// attempts and objectives as stored, session count and total minutes from
// the session history, and the best streak from chronological attempts.
func (s *Store) Progress(ctx context.Context, studentID, moduleID string) (scoring.ProgressSnapshot, error) {
	var snap scoring.ProgressSnapshot

	var attempts []attemptRow
	err := s.db.SelectContext(ctx, &attempts, `
		SELECT exercise_id, score, created_at FROM exercise_attempts
		WHERE student_id = ? AND module_id = ? ORDER BY created_at, id`,
		studentID, moduleID)
	if err != nil {
		return snap, fmt.Errorf("load attempts: %w", err)
	}
	for _, a := range attempts {
		at, err := time.Parse(time.RFC3339Nano, a.CreatedAt)
		if err != nil {
			return snap, fmt.Errorf("parse attempt time: %w", err)
		}
		snap.Attempts = append(snap.Attempts, scoring.ExerciseAttempt{
			ExerciseID: a.ExerciseID,
			Score:      a.Score,
			CreatedAt:  at,
		})
	}

	var objectives []objectiveRow
	err = s.db.SelectContext(ctx, &objectives, `
		SELECT objective, level FROM objective_mastery
		WHERE student_id = ? AND module_id = ? ORDER BY objective`,
		studentID, moduleID)
	if err != nil {
		return snap, fmt.Errorf("load objectives: %w", err)
	}
	for _, o := range objectives {
		snap.Objectives = append(snap.Objectives, scoring.ObjectiveMastery{
			Objective: o.Objective,
			Level:     scoring.MasteryLevel(o.Level),
		})
	}

	var spans []sessionSpanRow
	err = s.db.SelectContext(ctx, &spans, `
		SELECT started_at, ended_at, last_activity FROM sessions
		WHERE student_id = ? AND module_id = ?`,
		studentID, moduleID)
	if err != nil {
		return snap, fmt.Errorf("load session spans: %w", err)
	}
	snap.SessionCount = len(spans)
	for _, span := range spans {
		minutes, err := spanMinutes(span)
		if err != nil {
			return snap, err
		}
		snap.TotalMinutes += minutes
	}
	snap.ActualMinutes = snap.TotalMinutes

	mod, err := s.Module(ctx, moduleID)
	if err == nil {
		snap.BestStreak = bestStreak(mod, snap.Attempts)
	}

	return snap, nil
}

func spanMinutes(span sessionSpanRow) (float64, error) {
	start, err := time.Parse(time.RFC3339Nano, span.StartedAt)
	if err != nil {
		return 0, fmt.Errorf("parse session start: %w", err)
	}
	endStr := span.LastActivity
	if span.EndedAt != nil {
		endStr = *span.EndedAt
	}
	end, err := time.Parse(time.RFC3339Nano, endStr)
	if err != nil {
		return 0, fmt.Errorf("parse session end: %w", err)
	}
	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		return 0, nil
	}
	return minutes, nil
}

// bestStreak is the longest chronological run of passing attempts.
func bestStreak(mod *catalog.ModuleDefinition, attempts []scoring.ExerciseAttempt) int {
	best, current := 0, 0
	for _, a := range attempts {
		ex := mod.ExerciseByID(a.ExerciseID)
		if ex != nil && scoring.PassesExercise(a.Score, ex.PointValue) {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return best
}
