// Package provider defines the result provider contracts and the built-in
// providers behind the palette: applications, calculator, unit conversion,
// contacts, clipboard history, quicklinks, toggles, shell passthrough,
// process list, and file search.
package provider

import (
	"context"
	"log/slog"

	"github.com/runger/pal/internal/result"
)

// FastProvider returns results synchronously and must not block on I/O.
// It is called inline on the orchestrator's coordinating goroutine.
type FastProvider interface {
	// Name identifies the provider in traces and logs.
	Name() string

	// Search returns zero or more results for the query. Implementations
	// return an empty slice for "no results"; they have no error path.
	Search(query string) []result.SearchResult
}

// SlowProvider may block on I/O. It must observe ctx and return early
// (partial or empty) when cancelled, and is expected to self-enforce a
// bounded wall-clock budget.
type SlowProvider interface {
	// Name identifies the provider in traces and logs.
	Name() string

	// Search returns zero or more results for the query.
	Search(ctx context.Context, query string) ([]result.SearchResult, error)
}

// ShortCircuit is a fast provider that can claim a query outright. When it
// does, all other fast providers are suppressed for that generation and
// only its results are returned.
type ShortCircuit interface {
	FastProvider

	// ClaimsQuery reports whether this provider handles the query
	// exclusively.
	ClaimsQuery(query string) bool
}

// Registry holds the ordered provider lists. Order matters only for
// short-circuit claims (first claimant wins); ranking ties are broken by
// category priority, not registration order.
type Registry struct {
	fast   []FastProvider
	slow   []SlowProvider
	logger *slog.Logger
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(fast []FastProvider, slow []SlowProvider, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{fast: fast, slow: slow, logger: logger}
}

// Fast returns the registered fast providers in order.
func (r *Registry) Fast() []FastProvider { return r.fast }

// Slow returns the registered slow providers in order.
func (r *Registry) Slow() []SlowProvider { return r.slow }

// SearchFast runs the fast phase inline. If a short-circuit provider
// claims the query, only its results are returned.
func (r *Registry) SearchFast(query string) []result.SearchResult {
	for _, p := range r.fast {
		sc, ok := p.(ShortCircuit)
		if ok && sc.ClaimsQuery(query) {
			return sc.Search(query)
		}
	}

	var out []result.SearchResult
	for _, p := range r.fast {
		out = append(out, p.Search(query)...)
	}
	return out
}

// SearchSlow runs every slow provider for the query. A provider error is
// logged and treated as an empty contribution; it never aborts the phase
// for the other providers.
func (r *Registry) SearchSlow(ctx context.Context, query string) []result.SearchResult {
	var out []result.SearchResult
	for _, p := range r.slow {
		if ctx.Err() != nil {
			return out
		}
		res, err := p.Search(ctx, query)
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Warn("slow provider failed", "provider", p.Name(), "error", err)
			}
			continue
		}
		out = append(out, res...)
	}
	return out
}
