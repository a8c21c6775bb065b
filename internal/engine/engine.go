// Package engine coordinates keystroke-driven searches across fast
// providers, slow providers, and the intent adapter. Every query change
// advances a generation; work tied to superseded generations is cancelled
// or discarded, never published.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/runger/pal/internal/intent"
	"github.com/runger/pal/internal/provider"
	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/stats"
)

const (
	defaultSlowDebounce   = 100 * time.Millisecond
	defaultIntentDebounce = 200 * time.Millisecond
	defaultLimit          = 40
	defaultPoolSize       = 8
)

// Publisher receives the current ranked result list. A nil or empty slice
// means the list was cleared.
type Publisher func([]result.SearchResult)

// IntentPublisher receives the current intent context; nil clears it.
type IntentPublisher func(*intent.Context)

// Options configures an Engine. Registry and Publish are required.
type Options struct {
	Registry      *provider.Registry
	Adapter       *intent.Adapter
	Stats         *stats.Store
	Publish       Publisher
	PublishIntent IntentPublisher
	Trace         TraceFunc

	SlowDebounce   time.Duration
	IntentDebounce time.Duration
	Limit          int
	PoolSize       int
	Logger         *slog.Logger
}

// Engine is the search orchestrator. OnQueryChanged is the single entry
// point; all published state is mutated under one mutex so a stale phase
// can never interleave with a newer generation's publication.
type Engine struct {
	registry      *provider.Registry
	adapter       *intent.Adapter
	stats         *stats.Store
	publish       Publisher
	publishIntent IntentPublisher
	traceFn       TraceFunc

	slowDebounce   time.Duration
	intentDebounce time.Duration
	limit          int
	logger         *slog.Logger
	pool           *ants.Pool

	mu          sync.Mutex
	generation  uint64
	query       string
	cancel      context.CancelFunc
	fastBase    []result.SearchResult
	slowLayer   []result.SearchResult
	intentLayer []result.SearchResult
	trace       SearchTrace
}

// New creates an engine over the given providers and sinks.
func New(opts Options) (*Engine, error) {
	if opts.SlowDebounce <= 0 {
		opts.SlowDebounce = defaultSlowDebounce
	}
	if opts.IntentDebounce <= 0 {
		opts.IntentDebounce = defaultIntentDebounce
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Publish == nil {
		opts.Publish = func([]result.SearchResult) {}
	}

	pool, err := ants.NewPool(opts.PoolSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		registry:       opts.Registry,
		adapter:        opts.Adapter,
		stats:          opts.Stats,
		publish:        opts.Publish,
		publishIntent:  opts.PublishIntent,
		traceFn:        opts.Trace,
		slowDebounce:   opts.SlowDebounce,
		intentDebounce: opts.IntentDebounce,
		limit:          opts.Limit,
		logger:         opts.Logger,
		pool:           pool,
	}, nil
}

// Close cancels any in-flight work and releases the worker pool.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()
	e.pool.Release()
}

// Query returns the current query.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// OnQueryChanged advances the engine to a new query. A repeat of the
// current query is a no-op. An empty query clears the published results
// and the intent context. Otherwise the fast phase runs inline and is
// published immediately; the slow and intent phases are scheduled behind
// their debounce delays and layered on top as they complete.
func (e *Engine) OnQueryChanged(raw string) {
	query := normalizeQuery(raw)

	e.mu.Lock()
	defer e.mu.Unlock()

	if query == e.query {
		return
	}

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.generation++
	e.query = query
	e.fastBase = nil
	e.slowLayer = nil
	e.intentLayer = nil

	if query == "" {
		e.trace = SearchTrace{}
		e.publish(nil)
		if e.publishIntent != nil {
			e.publishIntent(nil)
		}
		return
	}

	gen := e.generation
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.trace = SearchTrace{ID: uuid.NewString(), Generation: gen, Query: query}

	start := time.Now()
	fast := e.registry.SearchFast(query)
	e.fastBase = result.Merge(nil, fast, 0)
	e.trace.Fast = PhaseTiming{Duration: time.Since(start), Results: len(e.fastBase), Done: true}
	e.republishLocked()
	e.emitTraceLocked()

	if len(e.registry.Slow()) > 0 {
		e.schedule(ctx, gen, e.slowDebounce, e.runSlowPhase)
	}
	if e.adapter != nil {
		e.schedule(ctx, gen, e.intentDebounce, e.runIntentPhase)
	}
}

// RecordLaunch feeds a launched result back into the usage statistics so
// future scoring reflects it. Safe to call with no stats store.
func (e *Engine) RecordLaunch(ctx context.Context, r result.SearchResult) {
	if e.stats == nil || !r.Valid() {
		return
	}
	if err := e.stats.RecordLaunch(ctx, r.Category, r.Title); err != nil {
		e.logger.Warn("recording launch failed", "title", r.Title, "error", err)
	}
}

// RunOnce executes every phase for the query to completion with no
// debounce and returns the final ranked list and intent context. It does
// not touch the keystroke-driven state, so it is safe alongside
// OnQueryChanged. Used by the one-shot CLI path.
func (e *Engine) RunOnce(ctx context.Context, raw string) ([]result.SearchResult, *intent.Context) {
	query := normalizeQuery(raw)
	if query == "" {
		return nil, nil
	}

	base := result.Merge(nil, e.registry.SearchFast(query), 0)
	merged := result.Merge(base, e.registry.SearchSlow(ctx, query), 0)

	var intentResults []result.SearchResult
	var intentCtx *intent.Context
	if e.adapter != nil {
		intentResults, intentCtx = e.adapter.Process(ctx, query)
	}
	return result.Merge(merged, intentResults, e.limit), intentCtx
}

// normalizeQuery trims the query and drops a leading "=", the explicit
// calculator prefix, so "=2+2" searches as "2+2".
func normalizeQuery(raw string) string {
	query := strings.TrimSpace(raw)
	if strings.HasPrefix(query, "=") {
		query = strings.TrimSpace(query[1:])
	}
	return query
}

// schedule runs phase on the worker pool after the debounce delay, unless
// the generation is cancelled first. Debouncing lives here so a burst of
// keystrokes cancels the sleeping phase before it does any work.
func (e *Engine) schedule(ctx context.Context, gen uint64, delay time.Duration, phase func(context.Context, uint64, string)) {
	query := e.query
	task := func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		phase(ctx, gen, query)
	}
	if err := e.pool.Submit(task); err != nil {
		e.logger.Warn("worker pool rejected phase", "error", err)
		go task()
	}
}

func (e *Engine) runSlowPhase(ctx context.Context, gen uint64, query string) {
	start := time.Now()
	results := e.registry.SearchSlow(ctx, query)
	elapsed := time.Since(start)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return
	}
	e.slowLayer = results
	e.trace.Slow = PhaseTiming{Duration: elapsed, Results: len(results), Done: true}
	e.republishLocked()
	e.emitTraceLocked()
}

func (e *Engine) runIntentPhase(ctx context.Context, gen uint64, query string) {
	start := time.Now()
	results, intentCtx := e.adapter.Process(ctx, query)
	elapsed := time.Since(start)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return
	}
	e.intentLayer = results
	e.trace.Intent = PhaseTiming{Duration: elapsed, Results: len(results), Done: true}
	e.republishLocked()
	if e.publishIntent != nil {
		e.publishIntent(intentCtx)
	}
	e.emitTraceLocked()
}

// republishLocked re-merges from the fast base up and publishes. Caller
// holds e.mu, which is what keeps publications ordered across phases.
func (e *Engine) republishLocked() {
	merged := result.Merge(e.fastBase, e.slowLayer, 0)
	merged = result.Merge(merged, e.intentLayer, e.limit)
	e.publish(merged)
}

func (e *Engine) emitTraceLocked() {
	e.logger.Debug("search phase settled",
		"generation", e.trace.Generation,
		"query", e.trace.Query,
		"fast_ms", e.trace.Fast.Duration.Milliseconds(),
		"slow_done", e.trace.Slow.Done,
		"intent_done", e.trace.Intent.Done)
	if e.traceFn != nil {
		e.traceFn(e.trace)
	}
}
