package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/44frames/stage-vision/internal/types"
)

// Schema creates the jobs table. The whole job document lives in one
// JSONB column; Save rewrites it wholesale, matching the file store's
// atomic-replace semantics.
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id         TEXT PRIMARY KEY,
    address    TEXT NOT NULL DEFAULT '',
    stage      TEXT NOT NULL,
    units      INT  NOT NULL DEFAULT 0,
    doc        JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS jobs_updated_at_idx ON jobs (updated_at DESC);
`

// PostgresStore persists jobs as JSONB rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the jobs table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Create inserts the initial job document.
func (s *PostgresStore) Create(ctx context.Context, job *types.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, address, stage, units, doc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		job.ID, job.Address, string(job.Stage), len(job.Units), doc, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", job.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
	}
	return nil
}

// Load reads a job document.
func (s *PostgresStore) Load(ctx context.Context, id string) (*types.Job, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM jobs WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load job %s: %w", id, err)
	}

	var job types.Job
	if err := json.Unmarshal(doc, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job %s: %w", id, err)
	}
	return &job, nil
}

// Save replaces the whole job document.
func (s *PostgresStore) Save(ctx context.Context, job *types.Job) error {
	job.UpdatedAt = time.Now().UTC()

	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET stage = $2, units = $3, doc = $4, updated_at = $5 WHERE id = $1`,
		job.ID, string(job.Stage), len(job.Units), doc, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, job.ID)
	}
	return nil
}

// List returns summaries of the most recently updated jobs.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]types.JobSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, address, stage, units, created_at, updated_at
		 FROM jobs ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var summaries []types.JobSummary
	for rows.Next() {
		var s types.JobSummary
		var stage string
		if err := rows.Scan(&s.ID, &s.Address, &stage, &s.Units, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		s.Stage = types.Stage(stage)
		summaries = append(summaries, s)
	}
	return summaries, nil
}
