package engine

import "time"

// PhaseTiming records how long one phase of a generation took and how many
// results it contributed. A zero Done means the phase has not completed
// (or was never scheduled).
type PhaseTiming struct {
	Duration time.Duration
	Results  int
	Done     bool
}

// SearchTrace is the per-generation diagnostics record. It is reported to
// the trace callback after each phase completes and is never consulted for
// ranking.
type SearchTrace struct {
	ID         string
	Generation uint64
	Query      string

	Fast   PhaseTiming
	Slow   PhaseTiming
	Intent PhaseTiming
}

// TraceFunc receives a snapshot of the generation trace after each phase.
type TraceFunc func(SearchTrace)
