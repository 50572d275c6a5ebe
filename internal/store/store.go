// Package store persists modules, students, session records, and progress
// in SQLite, and derives the progress snapshots consumed by the scorer.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides the engine's repositories.
type Store struct {
	db *sqlx.DB
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-writer performance.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	tier TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS modules (
	id         TEXT PRIMARY KEY,
	level_tier TEXT NOT NULL,
	definition TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	module_id     TEXT NOT NULL,
	student_id    TEXT NOT NULL,
	state         TEXT NOT NULL,
	turns         TEXT NOT NULL DEFAULT '[]',
	score         TEXT,
	completed     INTEGER NOT NULL DEFAULT 0,
	started_at    TEXT NOT NULL,
	ended_at      TEXT,
	last_activity TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_student_module ON sessions(student_id, module_id);

CREATE TABLE IF NOT EXISTS exercise_attempts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id  TEXT NOT NULL,
	module_id   TEXT NOT NULL,
	exercise_id TEXT NOT NULL,
	score       INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_student_module ON exercise_attempts(student_id, module_id);

CREATE TABLE IF NOT EXISTS objective_mastery (
	student_id TEXT NOT NULL,
	module_id  TEXT NOT NULL,
	objective  TEXT NOT NULL,
	level      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (student_id, module_id, objective)
);
`

func migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINGUA_DB environment variable
// 2. $XDG_DATA_HOME/lingua/lingua.db
// 3. ~/.local/share/lingua/lingua.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINGUA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lingua", "lingua.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
