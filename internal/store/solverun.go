package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// SolveRunStore records the outcome of a search.Solve invocation for later
// inspection; the solver itself never writes, only cmd/solve does.
type SolveRunStore struct {
	db DBTX
}

// NewSolveRunStore creates a new SolveRunStore.
func NewSolveRunStore(db DBTX) *SolveRunStore {
	return &SolveRunStore{db: db}
}

// RunRecord is the persisted shape of one solve_runs row.
type RunRecord struct {
	ProfileID   string
	Success     bool
	FailureMode string
	Termination string
	Report      any
	Stats       any
}

// Record inserts a new solve_runs row.
func (s *SolveRunStore) Record(ctx context.Context, r RunRecord) error {
	reportJSON, err := json.Marshal(r.Report)
	if err != nil {
		return fmt.Errorf("store: encoding report: %w", err)
	}
	statsJSON, err := json.Marshal(r.Stats)
	if err != nil {
		return fmt.Errorf("store: encoding stats: %w", err)
	}

	const query = `
		INSERT INTO solve_runs (profile_id, success, failure_mode, termination, report, stats)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query, r.ProfileID, r.Success, r.FailureMode, r.Termination, reportJSON, statsJSON)
	if err != nil {
		return fmt.Errorf("store: recording solve run for %s: %w", r.ProfileID, err)
	}
	return nil
}
