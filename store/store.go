// Package store persists finished session summaries in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lixenwraith/breakout/session"
	"github.com/lixenwraith/breakout/store/migrations"
)

// ErrNotFound is returned when no record matches
var ErrNotFound = errors.New("record not found")

// Record is one stored session summary
type Record struct {
	ID      string
	Role    string
	Score   float64
	Display int
	Blocks  int
	Started time.Time
	Ended   time.Time
}

// Store keeps session records in a SQLite database
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens or creates the database at path and applies migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordSession stores a session summary; a repeated id and role overwrites the earlier record
func (s *Store) RecordSession(ctx context.Context, sum session.Summary) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(sum.ID)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	ended := sum.Ended
	if ended.IsZero() {
		ended = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, role, score, display, blocks, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id, role) DO UPDATE SET
		   score = excluded.score,
		   display = excluded.display,
		   blocks = excluded.blocks,
		   started_at = excluded.started_at,
		   ended_at = excluded.ended_at`,
		id,
		sum.Role.String(),
		sum.Score,
		sum.Display,
		sum.Blocks,
		toMillis(sum.Started),
		toMillis(ended),
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", id, err)
	}
	return nil
}

// Session returns the record of one session as seen by role
func (s *Store) Session(ctx context.Context, id, role string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, role, score, display, blocks, started_at, ended_at
		 FROM sessions WHERE id = ? AND role = ?`, id, role)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return r, nil
}

// TopScores returns up to limit records by displayed score, earliest finish first on ties
func (s *Store) TopScores(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, score, display, blocks, started_at, ended_at
		 FROM sessions ORDER BY display DESC, ended_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan top scores: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top scores: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r              Record
		started, ended int64
	)
	if err := row.Scan(&r.ID, &r.Role, &r.Score, &r.Display, &r.Blocks, &started, &ended); err != nil {
		return Record{}, err
	}
	r.Started = fromMillis(started)
	r.Ended = fromMillis(ended)
	return r, nil
}
