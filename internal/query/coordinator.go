// Package query runs searches for the host, keeping at most one of them live.
//
// Every call to Query supersedes the previous one: the old cancellation
// handle is signalled and the new one installed under a single lock, so two
// overlapping callers can never both believe they own the latest query. A
// superseded query returns an empty slice, never a partial one.
package query

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/errors"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/resources"
	"github.com/Aman-CERP/everyfind/internal/result"
	"github.com/Aman-CERP/everyfind/internal/telemetry"
)

// SettingsFunc returns the settings snapshot a query should use.
type SettingsFunc func() *config.Settings

// Coordinator owns the single live cancellation handle.
type Coordinator struct {
	client   provider.Client
	settings SettingsFunc
	catalog  *resources.Catalog
	metrics  *telemetry.QueryMetrics
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCatalog sets the strings used for informational and diagnostic rows.
func WithCatalog(c *resources.Catalog) Option {
	return func(co *Coordinator) {
		co.catalog = c
	}
}

// WithMetrics records every query outcome in m.
func WithMetrics(m *telemetry.QueryMetrics) Option {
	return func(co *Coordinator) {
		co.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(co *Coordinator) {
		co.logger = l
	}
}

// New creates a coordinator searching client. settings is read once per query.
func New(client provider.Client, settings SettingsFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		client:   client,
		settings: settings,
		catalog:  resources.Default(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// supersede cancels the live handle and installs a new one derived from ctx.
func (c *Coordinator) supersede(ctx context.Context) (context.Context, context.CancelFunc) {
	qctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	if c.closed {
		cancel()
	}
	c.cancel = cancel
	return qctx, cancel
}

// Query searches for text and returns the formatted rows. An empty text
// returns no rows without contacting the provider but still abandons the
// query in flight.
func (c *Coordinator) Query(ctx context.Context, text string) []result.Result {
	qctx, cancel := c.supersede(ctx)
	defer cancel()

	if text == "" {
		return []result.Result{}
	}

	start := time.Now()
	queryID := uuid.NewString()[:8]
	logger := c.logger.With(slog.String("query_id", queryID))

	if qctx.Err() != nil {
		return c.superseded(logger, text, start)
	}

	s := c.settings()
	matches, err := c.client.Search(qctx, text, s.MaxSearchCount)
	if qctx.Err() != nil {
		return c.superseded(logger, text, start)
	}

	if err != nil {
		if provider.IsUnavailable(err) {
			logger.Debug("search engine unavailable", slog.String("error", err.Error()))
			c.record(text, telemetry.OutcomeUnavailable, 0, start)
			return []result.Result{result.Unavailable(c.catalog)}
		}
		if stderrors.Is(err, context.Canceled) {
			return c.superseded(logger, text, start)
		}
		logger.Error("query failed", errors.LogAttrs(err)...)
		c.record(text, telemetry.OutcomeFault, 0, start)
		return []result.Result{result.Diagnostic(c.catalog, err)}
	}

	if len(matches) > s.MaxSearchCount {
		matches = matches[:s.MaxSearchCount]
	}

	results := make([]result.Result, 0, len(matches))
	for i, m := range matches {
		if qctx.Err() != nil {
			return c.superseded(logger, text, start)
		}
		results = append(results, result.Format(text, m, i, s))
	}

	outcome := telemetry.OutcomeResults
	if len(results) == 0 {
		outcome = telemetry.OutcomeEmpty
	}
	c.record(text, outcome, len(results), start)
	logger.Debug("query completed",
		slog.Int("result_count", len(results)),
		slog.Duration("latency", time.Since(start)))
	return results
}

func (c *Coordinator) superseded(logger *slog.Logger, text string, start time.Time) []result.Result {
	logger.Debug("query superseded")
	c.record(text, telemetry.OutcomeSuperseded, 0, start)
	return []result.Result{}
}

func (c *Coordinator) record(text string, outcome telemetry.Outcome, n int, start time.Time) {
	c.metrics.Record(telemetry.QueryEvent{
		Query:       text,
		Outcome:     outcome,
		ResultCount: n,
		Latency:     time.Since(start),
	})
}

// Close cancels the live query. Later queries return no rows.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
