// Package importer loads the DPR member export into the store: it reads the CSV
// source, cleans every row and replaces the stored members in one go.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/dpr-registry/pkg/member"
	"github.com/hazyhaar/dpr-registry/pkg/store"
)

var (
	// ErrSourceNotFound is returned when the source file or URL does not exist.
	ErrSourceNotFound = errors.New("importer: source not found")
	// ErrNoIdentifier is returned when the source has no member identifier column.
	ErrNoIdentifier = errors.New("importer: no member identifier column")
	// ErrEmptySource is returned when the source has no header row.
	ErrEmptySource = errors.New("importer: empty source")
)

// Store is the storage the importer writes to. *store.Store implements it.
type Store interface {
	ReplaceMembers(ctx context.Context, records []member.Record) (int, error)
	RecordRun(ctx context.Context, run *store.Run) error
}

// Importer runs imports against one store.
type Importer struct {
	store  Store
	format Format
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithFormat sets the encoding and delimiter of the source file.
func WithFormat(f Format) Option {
	return func(im *Importer) { im.format = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// WithClock sets the clock used for ages and run timestamps.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// New returns an Importer writing to st.
func New(st Store, opts ...Option) *Importer {
	im := &Importer{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(im)
	}
	return im
}

// Report summarizes one import.
type Report struct {
	Source       string `json:"source"`
	RowsRead     int    `json:"rows_read"`
	RowsImported int    `json:"rows_imported"`
	Dropped      []Drop `json:"dropped,omitempty"`
}

// Run imports source, a local path or an http(s) URL. The stored members are only
// replaced once the whole source has been read and cleaned, so a missing or
// unreadable source leaves the store as it was. Malformed rows are dropped and
// listed in the report.
func (im *Importer) Run(ctx context.Context, source string) (*Report, error) {
	started := im.now()
	rep := &Report{Source: source}

	err := im.run(ctx, rep)

	run := &store.Run{
		Source:       source,
		RowsRead:     rep.RowsRead,
		RowsImported: rep.RowsImported,
		RowsDropped:  len(rep.Dropped),
		Status:       store.RunOK,
		StartedAt:    started.Unix(),
		FinishedAt:   im.now().Unix(),
	}
	if err != nil {
		msg := err.Error()
		run.Status = store.RunFailed
		run.Error = &msg
	}
	if rerr := im.store.RecordRun(ctx, run); rerr != nil {
		im.logger.Warn("record import run", "error", rerr)
	}
	return rep, err
}

func (im *Importer) run(ctx context.Context, rep *Report) error {
	path, cleanup, err := fetch(ctx, rep.Source)
	if err != nil {
		return err
	}
	defer cleanup()

	table, err := ReadFile(path, im.format)
	if err != nil {
		return err
	}
	rep.RowsRead = len(table.Rows)
	im.logger.Info("source read", "source", rep.Source, "rows", rep.RowsRead, "columns", len(table.Header))

	cleaned, err := Clean(table, im.now())
	if err != nil {
		return fmt.Errorf("clean %s: %w", rep.Source, err)
	}
	rep.Dropped = cleaned.Dropped
	for _, d := range cleaned.Dropped {
		im.logger.Warn("row dropped", "row", d.Row, "value", d.Value, "reason", d.Reason)
	}

	n, err := im.store.ReplaceMembers(ctx, cleaned.Records)
	if err != nil {
		return fmt.Errorf("store members: %w", err)
	}
	rep.RowsImported = n
	im.logger.Info("import done", "source", rep.Source, "imported", n, "dropped", len(rep.Dropped))
	return nil
}

// Ingest is Run for callers that only need to know whether the import succeeded.
// Failures are logged.
func (im *Importer) Ingest(ctx context.Context, source string) bool {
	if _, err := im.Run(ctx, source); err != nil {
		im.logger.Error("import failed", "source", source, "error", err)
		return false
	}
	return true
}
