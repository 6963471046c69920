// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/katalvlaran/cavity/simulation"
)

// StepRecord is a stored time step.
type StepRecord struct {
	RunID      string    `json:"run_id"`
	Index      int       `json:"index"`
	Time       float64   `json:"time"`
	Iterations int       `json:"iterations"`
	Residual   float64   `json:"residual"`
	Change     float64   `json:"change"`
	X          []float64 `json:"-"`
}

// WriteStep stores st under runID. Writing the same index twice replaces
// the earlier row. The run must exist.
func (s *Store) WriteStep(ctx context.Context, runID string, st simulation.Step) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO steps (run_id, idx, time, iterations, residual, change, x)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, idx) DO UPDATE SET
			time = excluded.time,
			iterations = excluded.iterations,
			residual = excluded.residual,
			change = excluded.change,
			x = excluded.x
	`, runID, st.Index, st.Time, st.Iterations, st.Residual, st.Change, encodeVector(st.X))
	if err != nil {
		return fmt.Errorf("store: write step %d of run %s: %w", st.Index, runID, err)
	}

	return nil
}

// LatestStep returns the highest-index step of runID or ErrNotFound.
func (s *Store) LatestStep(ctx context.Context, runID string) (StepRecord, error) {
	var (
		r    = StepRecord{RunID: runID}
		blob []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT idx, time, iterations, residual, change, x
		FROM steps WHERE run_id = ?
		ORDER BY idx DESC LIMIT 1
	`, runID).Scan(&r.Index, &r.Time, &r.Iterations, &r.Residual, &r.Change, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return StepRecord{}, fmt.Errorf("store: steps of run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return StepRecord{}, fmt.Errorf("store: latest step of run %s: %w", runID, err)
	}
	if r.X, err = decodeVector(blob); err != nil {
		return StepRecord{}, err
	}

	return r, nil
}

// CountSteps returns how many steps are stored for runID.
func (s *Store) CountSteps(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM steps WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count steps of run %s: %w", runID, err)
	}

	return n, nil
}
