package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"TickerBench/internal/bench/domain"
	"TickerBench/pkg/uuidutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS benchmark_runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ,
	iterations  INTEGER NOT NULL,
	timeout_ms  BIGINT NOT NULL,
	cooldown_ms BIGINT NOT NULL,
	parallel    BOOLEAN NOT NULL,
	endpoints   JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS probe_results (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL REFERENCES benchmark_runs(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	target      TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	iteration   INTEGER NOT NULL,
	issued_at   TIMESTAMPTZ NOT NULL,
	success     BOOLEAN NOT NULL,
	latency_ms  DOUBLE PRECISION,
	status_code INTEGER,
	field_count INTEGER,
	error       TEXT
);`

const (
	insertRunQuery = `
		INSERT INTO benchmark_runs (id, started_at, finished_at, iterations, timeout_ms, cooldown_ms, parallel, endpoints)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	insertProbeQuery = `
		INSERT INTO probe_results (id, run_id, seq, target, category, iteration, issued_at, success, latency_ms, status_code, field_count, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
)

type runStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) RunStore {
	return &runStore{db: db}
}

func (s *runStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun writes the run row and every probe row in one transaction.
func (s *runStore) SaveRun(ctx context.Context, run *domain.RunResult) error {
	endpointsJSON, err := json.Marshal(run.Endpoints)
	if err != nil {
		return fmt.Errorf("failed to marshal endpoints: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var finishedAt sql.NullTime
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: run.FinishedAt, Valid: true}
	}

	_, err = tx.ExecContext(ctx, insertRunQuery,
		run.ID,
		run.StartedAt,
		finishedAt,
		run.Settings.Iterations,
		run.Settings.Timeout.Milliseconds(),
		run.Settings.Cooldown.Milliseconds(),
		run.Settings.Parallel,
		endpointsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertProbeQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare probe insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range run.Probes() {
		_, err = stmt.ExecContext(ctx,
			uuidutil.New(),
			run.ID,
			i,
			p.Target,
			string(p.Category),
			p.Iteration,
			p.IssuedAt,
			p.IsSuccess(),
			p.LatencyMS,
			p.StatusCode,
			p.FieldCount,
			sql.NullString{String: p.Error, Valid: p.Error != ""},
		)
		if err != nil {
			return fmt.Errorf("failed to insert probe %d of run %s: %w", i, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}
