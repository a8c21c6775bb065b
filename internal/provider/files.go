package provider

import (
	"context"
	"path/filepath"
	"time"

	"github.com/runger/pal/internal/index"
	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/scoring"
)

// fileSearchBudget bounds one file-search call. The provider imposes its
// own timeout so a slow index can never stall the phase indefinitely.
const fileSearchBudget = 700 * time.Millisecond

// FileProvider is the slow provider backed by the on-disk file index.
type FileProvider struct {
	scorer *scoring.Engine
	idx    *index.Index
	limit  int
}

// NewFileProvider creates a file search provider over an opened index.
func NewFileProvider(scorer *scoring.Engine, idx *index.Index, limit int) *FileProvider {
	if limit <= 0 {
		limit = index.DefaultLimit
	}
	return &FileProvider{scorer: scorer, idx: idx, limit: limit}
}

// Name implements SlowProvider.
func (p *FileProvider) Name() string { return "files" }

// Search implements SlowProvider.
func (p *FileProvider) Search(ctx context.Context, query string) ([]result.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, fileSearchBudget)
	defer cancel()

	entries, err := p.idx.Search(ctx, query, p.limit)
	if err != nil {
		return nil, err
	}

	out := make([]result.SearchResult, 0, len(entries))
	for _, e := range entries {
		score := p.scorer.Score(query, e.Name, e.Dir, result.CategoryFile, e.Path)
		if score <= 0 {
			// The index matched on a token the analyzer does not see as a
			// match (for example a path component); keep it at a low tier
			// rather than dropping what FTS considered relevant.
			score = 100
		}
		out = append(out, result.SearchResult{
			Title:    e.Name,
			Subtitle: e.Dir,
			Category: result.CategoryFile,
			Score:    score,
			FilePath: e.Path,
			Action:   OpenPath{Path: e.Path},
			Reveal:   OpenPath{Path: filepath.Dir(e.Path)},
		})
	}
	return out, nil
}
