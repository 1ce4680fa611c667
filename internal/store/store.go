// Package store provides PostgreSQL persistence for resolution run history.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/requirement-resolver/internal/types"
)

// Run status values recorded in the resolution_runs table.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusTransient = "transient_failure"
)

// Run is one recorded resolution run.
type Run struct {
	ID               uuid.UUID  `json:"id"`
	RequirementCount int        `json:"requirement_count"`
	OperationCount   int        `json:"operation_count"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateRun records the start of a resolution run and returns its ID.
func (s *Store) CreateRun(ctx context.Context, requirementCount int) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO resolution_runs (requirement_count, status)
		 VALUES ($1, $2)
		 RETURNING id`,
		requirementCount, StatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun records the terminal status of a run and, for successful
// runs, persists the result payload alongside it.
func (s *Store) CompleteRun(ctx context.Context, runID uuid.UUID, result *types.ResolveResult) error {
	status := StatusForResult(result)

	var payload []byte
	operationCount := 0
	if result != nil {
		var err error
		payload, err = json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		operationCount = len(result.Operations)
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE resolution_runs
		 SET status = $1, operation_count = $2, result = $3, completed_at = NOW()
		 WHERE id = $4`,
		status, operationCount, payload, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// StatusForResult maps a run outcome to its recorded status. A nil result
// means the run aborted on a permanent failure.
func StatusForResult(result *types.ResolveResult) string {
	switch {
	case result == nil:
		return StatusFailed
	case result.TransientFailure:
		return StatusTransient
	default:
		return StatusCompleted
	}
}

// GetRun retrieves a run by ID. Returns nil when the run does not exist.
func (s *Store) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, requirement_count, operation_count, status, created_at, completed_at
		 FROM resolution_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.RequirementCount, &run.OperationCount, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// GetResult retrieves the stored result payload of a run. Returns nil when
// the run has no stored result.
func (s *Store) GetResult(ctx context.Context, runID uuid.UUID) (*types.ResolveResult, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT result FROM resolution_runs WHERE id = $1`,
		runID,
	).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	if len(payload) == 0 {
		return nil, nil
	}

	var result types.ResolveResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to parse stored result: %w", err)
	}
	return &result, nil
}

// RunFilters holds optional filters for listing runs.
type RunFilters struct {
	Status string
	Limit  int
}

// ListRuns retrieves recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, filters RunFilters) ([]Run, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, requirement_count, operation_count, status, created_at, completed_at
		FROM resolution_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.RequirementCount, &run.OperationCount, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
