// Package scoring combines match quality, match-type bonus, category
// weight, and a usage-statistics multiplier into one integer score.
package scoring

import (
	"sync"

	"github.com/runger/pal/internal/match"
	"github.com/runger/pal/internal/result"
)

// scale converts the float raw score to a stable integer range.
const scale = 1000

// strongMatchThreshold is the raw score below which a title match is
// considered weak enough to fall back to the subtitle score.
const strongMatchThreshold = 0.8

// subtitlePenalty discounts subtitle-only matches relative to an equally
// strong title match.
const subtitlePenalty = 0.9

// StatsFunc returns a usage multiplier for a result identified by category
// and identifier. 1.0 is the neutral default when statistics are missing.
type StatsFunc func(category result.Category, identifier string) float64

// Weights is the mutable per-category multiplier table. Reads happen at
// scoring time, so changes take effect on the next scoring call.
type Weights struct {
	mu      sync.RWMutex
	byCat   map[result.Category]float64
	neutral float64
}

// NewWeights creates a weight table. A nil or missing entry is neutral (1.0).
func NewWeights(byCategory map[result.Category]float64) *Weights {
	w := &Weights{byCat: make(map[result.Category]float64), neutral: 1.0}
	for c, v := range byCategory {
		w.byCat[c] = v
	}
	return w
}

// Get returns the multiplier for a category, 1.0 if unset or non-positive.
func (w *Weights) Get(c result.Category) float64 {
	if w == nil {
		return 1.0
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.byCat[c]
	if !ok || v <= 0 {
		return w.neutral
	}
	return v
}

// Set updates the multiplier for a category.
func (w *Weights) Set(c result.Category, v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byCat[c] = v
}

// Engine scores candidates. Both the weight table and the statistics
// function may be nil, in which case they contribute a neutral 1.0.
type Engine struct {
	weights *Weights
	stats   StatsFunc
}

// NewEngine creates a scoring engine with the given configuration.
func NewEngine(weights *Weights, stats StatsFunc) *Engine {
	return &Engine{weights: weights, stats: stats}
}

// Score evaluates query against a title/subtitle pair. The title score is
// preferred; when it falls below the strong-match threshold the penalized
// subtitle score may win instead. Returns 0 when nothing matches.
// identifier keys the statistics lookup and defaults to the title.
func (e *Engine) Score(query, title, subtitle string, category result.Category, identifier string) int {
	titleRaw := e.raw(query, title, category, identifier, title)
	if subtitle == "" {
		return int(titleRaw * scale)
	}

	if titleRaw >= strongMatchThreshold {
		return int(titleRaw * scale)
	}

	subtitleRaw := subtitlePenalty * e.raw(query, subtitle, category, identifier, title)
	if subtitleRaw > titleRaw {
		return int(subtitleRaw * scale)
	}
	return int(titleRaw * scale)
}

// raw computes quality × kindBonus × categoryWeight × statsFactor for one
// target string, or 0 for a non-match.
func (e *Engine) raw(query, target string, category result.Category, identifier, fallbackID string) float64 {
	m := match.Analyze(query, target)
	if !m.Matched {
		return 0
	}

	id := identifier
	if id == "" {
		id = fallbackID
	}

	statsFactor := 1.0
	if e.stats != nil {
		if f := e.stats(category, id); f > 0 {
			statsFactor = f
		}
	}

	return m.Quality * m.Kind.Bonus() * e.weights.Get(category) * statsFactor
}
