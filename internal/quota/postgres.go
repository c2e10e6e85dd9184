package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS usage_counters (
	identity     TEXT NOT NULL,
	day          TEXT NOT NULL,
	video_count  INTEGER NOT NULL DEFAULT 0,
	last_used_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (identity, day)
);

CREATE TABLE IF NOT EXISTS processing_logs (
	id              BIGSERIAL PRIMARY KEY,
	identity        TEXT NOT NULL,
	day             TEXT NOT NULL,
	processing_type TEXT NOT NULL DEFAULT '',
	file_name       TEXT NOT NULL DEFAULT '',
	file_size       BIGINT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_processing_logs_identity_day
	ON processing_logs (identity, day);
`

// PostgresStore keeps usage counters in Postgres via a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a pgx pool and runs schema migrations.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("usage postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Count(ctx context.Context, key, day string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT video_count FROM usage_counters WHERE identity = $1 AND day = $2`,
		key, day,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select usage counter: %w", err)
	}
	return count, nil
}

// IncrementBelow performs the conditional increment as one upsert. When the
// counter is already at the ceiling the DO UPDATE WHERE clause rejects the
// row, no row is returned, and the attempt is reported as denied.
func (s *PostgresStore) IncrementBelow(ctx context.Context, key, day string, ceiling int) (bool, int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO usage_counters (identity, day, video_count, last_used_at)
		 VALUES ($1, $2, 1, now())
		 ON CONFLICT (identity, day) DO UPDATE
		 SET video_count = usage_counters.video_count + 1, last_used_at = now()
		 WHERE $3 <= 0 OR usage_counters.video_count < $3
		 RETURNING video_count`,
		key, day, ceiling,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (s *PostgresStore) LogProcessing(ctx context.Context, day string, e LogEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO processing_logs (identity, day, processing_type, file_name, file_size)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.Identity.key(), day, e.ProcessingType, e.FileName, e.FileSize,
	)
	if err != nil {
		return fmt.Errorf("insert processing log: %w", err)
	}
	return nil
}
