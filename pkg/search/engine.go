// Package search answers free-text lookups over the stored DPR members and hands
// back fully normalized records.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/dpr-registry/pkg/member"
	"github.com/hazyhaar/dpr-registry/pkg/metrics"
	"github.com/hazyhaar/dpr-registry/pkg/normalize"
	"github.com/hazyhaar/dpr-registry/pkg/store"
)

const (
	// DefaultLimit is used when the caller passes no positive limit.
	DefaultLimit = 25
	// MaxLimit caps the result size of a single search.
	MaxLimit = 100
	// TopN is the length of the faction and party rankings in Stats.
	TopN = 10
)

// ErrStorage wraps every failure of the underlying store.
var ErrStorage = errors.New("search: storage unavailable")

// Store is the storage the engine reads from. *store.Store implements it.
type Store interface {
	SearchMembers(ctx context.Context, query string, limit int) ([]member.Record, error)
	CountMembers(ctx context.Context) (int, error)
	TopValues(ctx context.Context, column string, n int) ([]store.ValueCount, error)
	LastRun(ctx context.Context) (*store.Run, error)
}

// Engine is built once at startup and shared by every request handler.
type Engine struct {
	store        Store
	logger       *slog.Logger
	now          func() time.Time
	metrics      *metrics.Metrics
	defaultLimit int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock used to compute ages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics records every search on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithDefaultLimit overrides DefaultLimit. Values outside 1..MaxLimit are ignored.
func WithDefaultLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 && n <= MaxLimit {
			e.defaultLimit = n
		}
	}
}

// New returns an Engine reading from st.
func New(st Store, opts ...Option) *Engine {
	e := &Engine{
		store:        st,
		logger:       slog.Default(),
		now:          time.Now,
		defaultLimit: DefaultLimit,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Limit resolves the effective result size for a requested limit.
func (e *Engine) Limit(limit int) int {
	if limit <= 0 {
		return e.defaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Find returns the members whose name, faction, party or district contains query,
// ranked name hits first, then faction hits, then the rest. A blank query yields no
// records and no error. Storage failures are returned wrapped in ErrStorage.
func (e *Engine) Find(ctx context.Context, query string, limit int) ([]member.Record, error) {
	start := time.Now()
	query = strings.TrimSpace(query)
	if query == "" {
		e.metrics.ObserveSearch(metrics.OutcomeEmptyQuery, time.Since(start).Seconds(), 0)
		return nil, nil
	}

	records, err := e.store.SearchMembers(ctx, query, e.Limit(limit))
	if err != nil {
		e.metrics.ObserveSearch(metrics.OutcomeStorage, time.Since(start).Seconds(), 0)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	now := e.now()
	for i := range records {
		normalize.Record(&records[i], now)
	}
	e.metrics.ObserveSearch(metrics.OutcomeOK, time.Since(start).Seconds(), len(records))
	return records, nil
}

// Search is Find for callers that only display results: a storage failure is
// logged and reported as an empty result. The returned slice is never nil.
func (e *Engine) Search(ctx context.Context, query string, limit int) []member.Record {
	records, err := e.Find(ctx, query, limit)
	if err != nil {
		e.logger.Error("search failed", "query", query, "error", err)
	}
	if records == nil {
		return []member.Record{}
	}
	return records
}

// Stats summarizes the stored members.
type Stats struct {
	TotalMembers int                `json:"total_members"`
	Factions     []store.ValueCount `json:"factions"`
	Parties      []store.ValueCount `json:"parties"`
}

// Stats returns the member count and the largest factions and parties.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	total, err := e.store.CountMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	factions, err := e.store.TopValues(ctx, member.ColFaction, TopN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	parties, err := e.store.TopValues(ctx, member.ColParty, TopN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return &Stats{
		TotalMembers: total,
		Factions:     labelBlank(nonNil(factions), member.ColFaction),
		Parties:      labelBlank(nonNil(parties), member.ColParty),
	}, nil
}

// labelBlank names the group of members stored without a value the way their
// records show it.
func labelBlank(groups []store.ValueCount, column string) []store.ValueCount {
	for i := range groups {
		if member.IsBlank(groups[i].Name) {
			groups[i].Name = member.Placeholder(column)
		}
	}
	return groups
}

// Health statuses.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// Health is the liveness report of the engine and its store.
type Health struct {
	Status     string     `json:"status"`
	Members    int        `json:"members"`
	LastImport *store.Run `json:"last_import,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Health checks that the store answers. It never fails; an unreachable store is
// reported in the returned status.
func (e *Engine) Health(ctx context.Context) Health {
	n, err := e.store.CountMembers(ctx)
	if err != nil {
		e.logger.Error("health check failed", "error", err)
		return Health{Status: StatusUnavailable, Error: err.Error()}
	}
	h := Health{Status: StatusOK, Members: n}
	run, err := e.store.LastRun(ctx)
	if err != nil {
		e.logger.Warn("read last import run", "error", err)
	}
	h.LastImport = run
	return h
}

func nonNil(v []store.ValueCount) []store.ValueCount {
	if v == nil {
		return []store.ValueCount{}
	}
	return v
}
