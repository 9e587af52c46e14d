// Package history keeps a local record of commands run through the
// bridge. Recording is best-effort: a failed write never fails the
// command that triggered it.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS commands (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    host       TEXT NOT NULL DEFAULT '',
    work_dir   TEXT NOT NULL DEFAULT '',
    command    TEXT NOT NULL,
    exit_code  INTEGER NOT NULL DEFAULT 0,
    timed_out  INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps a SQLite database for persistent command history.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at
// $XDG_STATE_HOME/rdev/history.db.
func Open() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateHome, "rdev")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return OpenPath(filepath.Join(dir, "history.db"))
}

// OpenPath opens the history database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL mode for safe concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry is one recorded command run.
type Entry struct {
	ID       int64
	Host     string
	WorkDir  string
	Command  string
	ExitCode int
	TimedOut bool
	Duration time.Duration
	Created  time.Time
}

// Record stores one command run.
func (s *Store) Record(e Entry) error {
	timedOut := 0
	if e.TimedOut {
		timedOut = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO commands (host, work_dir, command, exit_code, timed_out, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Host, e.WorkDir, e.Command, e.ExitCode, timedOut, e.Duration.Milliseconds())
	return err
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, host, work_dir, command, exit_code, timed_out, duration_ms, created_at
		FROM commands
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var timedOut, durationMs int64
		var created string
		if err := rows.Scan(&e.ID, &e.Host, &e.WorkDir, &e.Command, &e.ExitCode, &timedOut, &durationMs, &created); err != nil {
			return nil, err
		}
		e.TimedOut = timedOut == 1
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.Created, _ = time.Parse("2006-01-02 15:04:05", created)
		result = append(result, e)
	}
	return result, rows.Err()
}
