package provider

import (
	"sync"

	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/scoring"
)

// Toggle is a named boolean setting surfaced as an on/off result.
type Toggle struct {
	Name     string
	Subtitle string
	Active   bool
}

// ToggleProvider exposes host settings as toggleable results. The current
// on/off state is provider-private; flipping goes through the apply
// callback so the result itself stays a plain value.
type ToggleProvider struct {
	scorer *scoring.Engine
	apply  func(name string, value bool) error
	mu     sync.RWMutex
	items  []Toggle
}

// NewToggleProvider creates a toggle provider. apply is invoked when a
// toggle result's action executes; it may be nil in read-only hosts.
func NewToggleProvider(scorer *scoring.Engine, items []Toggle, apply func(string, bool) error) *ToggleProvider {
	p := &ToggleProvider{scorer: scorer, items: items}
	p.apply = func(name string, value bool) error {
		p.setState(name, value)
		if apply != nil {
			return apply(name, value)
		}
		return nil
	}
	return p
}

// Name implements FastProvider.
func (p *ToggleProvider) Name() string { return "toggles" }

func (p *ToggleProvider) setState(name string, value bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].Name == name {
			p.items[i].Active = value
		}
	}
}

// Search implements FastProvider.
func (p *ToggleProvider) Search(query string) []result.SearchResult {
	p.mu.RLock()
	items := make([]Toggle, len(p.items))
	copy(items, p.items)
	p.mu.RUnlock()

	var out []result.SearchResult
	for _, item := range items {
		score := p.scorer.Score(query, item.Name, item.Subtitle, result.CategoryToggle, item.Name)
		if score <= 0 {
			continue
		}
		out = append(out, result.SearchResult{
			Title:    item.Name,
			Subtitle: item.Subtitle,
			Category: result.CategoryToggle,
			Score:    score,
			IsActive: item.Active,
			Action: SetToggle{
				Name:   item.Name,
				Target: !item.Active,
				Apply:  p.apply,
			},
		})
	}
	return out
}
