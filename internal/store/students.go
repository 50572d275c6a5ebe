package store

import (
	"context"
	"fmt"
)

// Student is a stored learner profile.
type Student struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Tier string `db:"tier"`
}

// UpsertStudent creates or updates a student profile.
func (s *Store) UpsertStudent(ctx context.Context, st Student) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, name, tier) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, tier = excluded.tier`,
		st.ID, st.Name, st.Tier)
	if err != nil {
		return fmt.Errorf("upsert student %s: %w", st.ID, err)
	}
	return nil
}

// StudentTier returns the proficiency tier code for a student.
func (s *Store) StudentTier(ctx context.Context, studentID string) (string, error) {
	var tier string
	if err := s.db.GetContext(ctx, &tier, "SELECT tier FROM students WHERE id = ?", studentID); err != nil {
		return "", fmt.Errorf("load student %s: %w", studentID, err)
	}
	return tier, nil
}

// ListStudents returns all stored students ordered by ID.
func (s *Store) ListStudents(ctx context.Context) ([]Student, error) {
	var students []Student
	if err := s.db.SelectContext(ctx, &students, "SELECT * FROM students ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}
