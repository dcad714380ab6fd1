package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Run statuses.
const (
	RunOK     = "ok"
	RunFailed = "failed"
)

// Run is one row of the import_runs ledger.
type Run struct {
	ID           int64   `json:"id"`
	Source       string  `json:"source"`
	RowsRead     int     `json:"rows_read"`
	RowsImported int     `json:"rows_imported"`
	RowsDropped  int     `json:"rows_dropped"`
	Status       string  `json:"status"`
	Error        *string `json:"error,omitempty"`
	StartedAt    int64   `json:"started_at"`
	FinishedAt   int64   `json:"finished_at"`
}

// RecordRun appends an import run to the ledger.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs
		(source, rows_read, rows_imported, rows_dropped, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Source, run.RowsRead, run.RowsImported, run.RowsDropped,
		run.Status, run.Error, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	run.ID, _ = res.LastInsertId()
	return nil
}

// LastRun returns the most recent import run, or nil when nothing was imported yet.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `SELECT id, source, rows_read, rows_imported, rows_dropped,
		status, error, started_at, finished_at
		FROM import_runs ORDER BY id DESC LIMIT 1`).Scan(
		&run.ID, &run.Source, &run.RowsRead, &run.RowsImported, &run.RowsDropped,
		&run.Status, &run.Error, &run.StartedAt, &run.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	return &run, nil
}
