package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS usage_counters (
	identity     TEXT NOT NULL,
	day          TEXT NOT NULL,
	video_count  INTEGER NOT NULL DEFAULT 0,
	last_used_at TEXT NOT NULL,
	PRIMARY KEY (identity, day)
);

CREATE TABLE IF NOT EXISTS processing_logs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	identity        TEXT NOT NULL,
	day             TEXT NOT NULL,
	processing_type TEXT NOT NULL DEFAULT '',
	file_name       TEXT NOT NULL DEFAULT '',
	file_size       INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL
);
`

// SQLiteStore keeps usage counters in a local SQLite database. Used for
// single-node deployments without Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite usage database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func (s *SQLiteStore) Count(ctx context.Context, key, day string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT video_count FROM usage_counters WHERE identity = ? AND day = ?`,
		key, day,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select usage counter: %w", err)
	}
	return count, nil
}

// IncrementBelow mirrors the Postgres upsert: the DO UPDATE WHERE clause
// drops the write once the counter reaches the ceiling, so the single
// statement both checks and increments.
func (s *SQLiteStore) IncrementBelow(ctx context.Context, key, day string, ceiling int) (bool, int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO usage_counters (identity, day, video_count, last_used_at)
		 VALUES (?1, ?2, 1, ?3)
		 ON CONFLICT (identity, day) DO UPDATE
		 SET video_count = video_count + 1, last_used_at = excluded.last_used_at
		 WHERE ?4 <= 0 OR video_count < ?4
		 RETURNING video_count`,
		key, day, now(), ceiling,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		current, cerr := s.Count(ctx, key, day)
		if cerr != nil {
			return false, 0, cerr
		}
		return false, current, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("increment usage counter: %w", err)
	}
	return true, count, nil
}

func (s *SQLiteStore) LogProcessing(ctx context.Context, day string, e LogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO processing_logs (identity, day, processing_type, file_name, file_size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Identity.key(), day, e.ProcessingType, e.FileName, e.FileSize, now(),
	)
	if err != nil {
		return fmt.Errorf("insert processing log: %w", err)
	}
	return nil
}
