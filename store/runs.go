// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/cavity/staggered"
)

// RunRecord describes one simulation run.
type RunRecord struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	Params     staggered.Params `json:"params"`
	Backend    string           `json:"backend"`
	Steady     bool             `json:"steady"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// CreateRun inserts a run and returns its id, a UUID v7 so ids sort by
// creation time. ID and CreatedAt of r are ignored.
func (s *Store) CreateRun(ctx context.Context, r RunRecord) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("store: create run: %w", err)
	}
	params, err := json.Marshal(r.Params)
	if err != nil {
		return "", fmt.Errorf("store: create run: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, params, backend)
		VALUES (?, ?, ?, ?)
	`, id.String(), time.Now().UnixMilli(), string(params), r.Backend)
	if err != nil {
		return "", fmt.Errorf("store: create run: %w", err)
	}

	return id.String(), nil
}

// FinishRun marks a run as finished.
func (s *Store) FinishRun(ctx context.Context, id string, steady bool) error {
	return s.closeRun(ctx, id, steady, "")
}

// FailRun marks a run as ended by an error. An empty reason is stored
// as "unknown error" so failed runs stay distinguishable.
func (s *Store) FailRun(ctx context.Context, id string, reason string) error {
	if reason == "" {
		reason = "unknown error"
	}

	return s.closeRun(ctx, id, false, reason)
}

func (s *Store) closeRun(ctx context.Context, id string, steady bool, reason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET steady = ?, finished_at = ?, error = ? WHERE id = ?
	`, steady, time.Now().UnixMilli(), reason, id)
	if err != nil {
		return fmt.Errorf("store: close run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: close run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}

	return nil
}

const runColumns = `id, created_at, params, backend, steady, finished_at, error`

// GetRun returns the run with the given id or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}

	return r, err
}

// LatestRun returns the most recently created run or ErrNotFound.
func (s *Store) LatestRun(ctx context.Context) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("store: latest run: %w", ErrNotFound)
	}

	return r, err
}

// ListRuns returns every run, oldest first. The slice is empty, not nil,
// when the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}

	return runs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		r        RunRecord
		created  int64
		params   string
		finished sql.NullInt64
	)
	if err := sc.Scan(&r.ID, &created, &params, &r.Backend, &r.Steady, &finished, &r.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("store: scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return RunRecord{}, fmt.Errorf("store: run %s params: %w", r.ID, err)
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	if finished.Valid {
		t := time.UnixMilli(finished.Int64).UTC()
		r.FinishedAt = &t
	}

	return r, nil
}
