package provider

import (
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"

	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/scoring"
)

// clipboardHistoryMax bounds the in-memory history ring.
const clipboardHistoryMax = 50

// ClipboardProvider matches the query against recent clipboard contents.
// History lives only in memory; the host records entries as it observes
// clipboard changes, and Seed pulls in the current system clipboard once.
type ClipboardProvider struct {
	scorer  *scoring.Engine
	mu      sync.RWMutex
	entries []string // most recent first
}

// NewClipboardProvider creates an empty clipboard history provider.
func NewClipboardProvider(scorer *scoring.Engine) *ClipboardProvider {
	return &ClipboardProvider{scorer: scorer}
}

// Name implements FastProvider.
func (p *ClipboardProvider) Name() string { return "clipboard" }

// Seed reads the current system clipboard into the history. Errors are
// ignored; a headless environment simply starts empty.
func (p *ClipboardProvider) Seed() {
	text, err := clipboard.ReadAll()
	if err == nil && strings.TrimSpace(text) != "" {
		p.Record(text)
	}
}

// Record adds a clipboard entry at the head of the history, dropping
// duplicates and trimming to the bound.
func (p *ClipboardProvider) Record(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	filtered := make([]string, 0, len(p.entries)+1)
	filtered = append(filtered, text)
	for _, e := range p.entries {
		if e != text {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) > clipboardHistoryMax {
		filtered = filtered[:clipboardHistoryMax]
	}
	p.entries = filtered
}

// Search implements FastProvider.
func (p *ClipboardProvider) Search(query string) []result.SearchResult {
	p.mu.RLock()
	entries := p.entries
	p.mu.RUnlock()

	var out []result.SearchResult
	for _, text := range entries {
		title := clipTitle(text)
		score := p.scorer.Score(query, title, "", result.CategoryClipboard, "")
		if score <= 0 {
			continue
		}
		out = append(out, result.SearchResult{
			Title:    title,
			Subtitle: "clipboard",
			Category: result.CategoryClipboard,
			Score:    score,
			Action:   CopyText{Text: text},
		})
	}
	return out
}

// clipTitle renders a clipboard entry as a one-line label of bounded width.
func clipTitle(text string) string {
	line := strings.SplitN(strings.TrimSpace(text), "\n", 2)[0]
	return runewidth.Truncate(line, 60, "…")
}
