// Package history persists sent commands and saved layout snapshots in SQLite.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup has no row.
var ErrNotFound = errors.New("history: not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS commands (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	line TEXT NOT NULL,
	sent_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commands_sent_at ON commands(sent_at);

CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	saved_at TEXT NOT NULL
);
`

// Entry is one sent command.
type Entry struct {
	ID     int64
	Name   string
	Line   string
	SentAt time.Time
}

// Store is a SQLite-backed command history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("history: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("history: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("history: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// Record appends a sent command line.
func (s *Store) Record(name, line string) error {
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("history: empty command line")
	}
	_, err := s.db.Exec(`INSERT INTO commands (name, line, sent_at) VALUES (?, ?, ?)`, name, line, s.timestamp())
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Last returns the most recently recorded command.
func (s *Store) Last() (Entry, error) {
	entries, err := s.Recent(1)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNotFound
	}
	return entries[0], nil
}

// Recent returns up to n commands, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT id, name, line, sent_at FROM commands ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var sentAt string
		if err := rows.Scan(&e.ID, &e.Name, &e.Line, &sentAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.SentAt, _ = time.Parse(time.RFC3339Nano, sentAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	return out, nil
}

// SaveSnapshot stores body under name, replacing any previous snapshot.
func (s *Store) SaveSnapshot(name, body string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("history: snapshot name cannot be empty")
	}
	_, err := s.db.Exec(`INSERT INTO snapshots (name, body, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at`,
		name, body, s.timestamp())
	if err != nil {
		return fmt.Errorf("history: save snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the body saved under name.
func (s *Store) Snapshot(name string) (string, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM snapshots WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: snapshot %q", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("history: snapshot: %w", err)
	}
	return body, nil
}
