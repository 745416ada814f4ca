package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is one completed search run over an instance.
type RunRecord struct {
	ID          uuid.UUID
	Instance    string
	Algorithm   string
	Seed        int64
	Hard        int
	Soft        int
	Evaluations int
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// RecordRun inserts a run result.
func (db *DB) RecordRun(ctx context.Context, run RunRecord) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO solver_run (id, instance, algorithm, seed, hard_violations, soft_total, evaluations, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.Instance, run.Algorithm, run.Seed, run.Hard, run.Soft, run.Evaluations, run.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ListRuns retrieves the recorded runs for an instance, best first.
func (db *DB) ListRuns(ctx context.Context, instance string) ([]RunRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, instance, algorithm, seed, hard_violations, soft_total, evaluations, elapsed_ms, created_at
		FROM solver_run
		WHERE instance = $1
		ORDER BY hard_violations, soft_total
	`, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var elapsedMS int64
		if err := rows.Scan(&r.ID, &r.Instance, &r.Algorithm, &r.Seed, &r.Hard, &r.Soft, &r.Evaluations, &elapsedMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
