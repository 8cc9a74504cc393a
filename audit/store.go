// audit/store.go
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sammcj/mcp-time-server/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
    id         TEXT PRIMARY KEY,
    timezone   TEXT NOT NULL,
    success    INTEGER NOT NULL,
    result     TEXT NOT NULL,
    invoked_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS invocations_invoked_at ON invocations (invoked_at);
`

// timestamps are fixed width so they sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Invocation is one recorded get_current_time call
type Invocation struct {
	ID        string
	Timezone  string
	Success   bool
	Result    string
	InvokedAt time.Time
}

// Recorder stores invocations
type Recorder interface {
	Record(ctx context.Context, inv Invocation) error
	Close() error
}

// Store is a sqlite backed Recorder
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the audit database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &types.AuditError{Operation: "open", Message: "failed to open database", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &types.AuditError{Operation: "open", Message: "failed to ping database", Err: err}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &types.AuditError{Operation: "migrate", Message: "failed to create schema", Err: err}
	}

	return &Store{db: db}, nil
}

// Record inserts inv, assigning an ID and timestamp when they are unset
func (s *Store) Record(ctx context.Context, inv Invocation) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.InvokedAt.IsZero() {
		inv.InvokedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, timezone, success, result, invoked_at) VALUES (?, ?, ?, ?, ?)`,
		inv.ID, inv.Timezone, inv.Success, inv.Result, inv.InvokedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return &types.AuditError{Operation: "record", Message: "failed to insert invocation", Err: err}
	}
	return nil
}

// Recent returns up to limit invocations, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timezone, success, result, invoked_at FROM invocations ORDER BY invoked_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, &types.AuditError{Operation: "recent", Message: "failed to query invocations", Err: err}
	}
	defer rows.Close()

	var results []Invocation
	for rows.Next() {
		var inv Invocation
		var invokedAt string
		if err := rows.Scan(&inv.ID, &inv.Timezone, &inv.Success, &inv.Result, &invokedAt); err != nil {
			return nil, &types.AuditError{Operation: "recent", Message: "failed to scan row", Err: err}
		}

		inv.InvokedAt, err = time.Parse(timeLayout, invokedAt)
		if err != nil {
			return nil, &types.AuditError{Operation: "recent", Message: fmt.Sprintf("bad timestamp %q", invokedAt), Err: err}
		}
		results = append(results, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, &types.AuditError{Operation: "recent", Message: "failed to read rows", Err: err}
	}
	return results, nil
}

// Count returns the number of recorded invocations
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invocations`).Scan(&n); err != nil {
		return 0, &types.AuditError{Operation: "count", Message: "failed to count invocations", Err: err}
	}
	return n, nil
}

// Close releases database resources
func (s *Store) Close() error {
	return s.db.Close()
}

// Nop discards every invocation
type Nop struct{}

func (Nop) Record(context.Context, Invocation) error { return nil }
func (Nop) Close() error                             { return nil }
