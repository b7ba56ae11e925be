package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dviselman/pconsole/internal/db"
	"github.com/dviselman/pconsole/internal/dictionary"
)

// Store persists dictionary crawl runs. It satisfies dictionary.RunRecorder.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// RecordRun inserts a crawl run. If run.ID is empty a UUID is generated.
func (s *Store) RecordRun(ctx context.Context, run dictionary.BuildRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	forced := 0
	if run.Forced {
		forced = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawl_runs (
			id, started_at, duration_seconds, total_schemas, total_fields, forced, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.DateTime),
		run.DurationSeconds,
		run.TotalSchemas,
		run.TotalFields,
		forced,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting crawl run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent crawl runs, newest first. A limit of 0
// means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]dictionary.BuildRun, error) {
	query := `
		SELECT id, started_at, duration_seconds, total_schemas, total_fields, forced, error
		FROM crawl_runs ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying crawl runs: %w", err)
	}
	defer rows.Close()

	var runs []dictionary.BuildRun
	for rows.Next() {
		var (
			run    dictionary.BuildRun
			ts     string
			forced int
		)
		if err := rows.Scan(&run.ID, &ts, &run.DurationSeconds, &run.TotalSchemas, &run.TotalFields, &forced, &run.Error); err != nil {
			return nil, err
		}
		if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
			run.StartedAt = t
		}
		run.Forced = forced != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteBefore removes runs older than the given time. Returns the number
// of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM crawl_runs WHERE started_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old crawl runs: %w", err)
	}
	return res.RowsAffected()
}
