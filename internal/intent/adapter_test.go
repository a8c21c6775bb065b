package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/pal/internal/result"
)

type stubInterpreter struct {
	available bool
	call      *ToolCall
	err       error
	calls     int
}

func (s *stubInterpreter) Name() string    { return "stub" }
func (s *stubInterpreter) Available() bool { return s.available }

func (s *stubInterpreter) Infer(ctx context.Context, query string) (*ToolCall, error) {
	s.calls++
	return s.call, s.err
}

func TestAdapterFallsBackWhenUnavailable(t *testing.T) {
	t.Parallel()

	interp := &stubInterpreter{available: false}
	a := NewAdapter(interp, nil, nil)

	results, intentCtx := a.Process(context.Background(), "100 km to miles")
	require.NotNil(t, intentCtx)
	assert.Zero(t, interp.calls)
	assert.Equal(t, TypeConvertUnits, intentCtx.Type)
	assert.Equal(t, ruleConfidence, intentCtx.Confidence)

	require.Len(t, results, 1)
	assert.Equal(t, result.SourceIntent, results[0].Source)
	assert.Equal(t, result.CategoryConversion, results[0].Category)
	assert.Contains(t, results[0].Title, "62.13")
}

func TestAdapterFallsBackOnError(t *testing.T) {
	t.Parallel()

	interp := &stubInterpreter{available: true, err: errors.New("backend down")}
	a := NewAdapter(interp, nil, nil)

	results, intentCtx := a.Process(context.Background(), "translate hello to spanish")
	require.NotNil(t, intentCtx)
	assert.Equal(t, 1, interp.calls)
	assert.Equal(t, TypeTranslate, intentCtx.Type)
	require.Len(t, results, 1)
	assert.Equal(t, "hello", results[0].Subtitle)
}

func TestAdapterPrefersInterpreter(t *testing.T) {
	t.Parallel()

	interp := &stubInterpreter{
		available: true,
		call: &ToolCall{
			Type:       TypeFindFiles,
			Confidence: 0.9,
			FindFiles:  &FindFilesParams{Pattern: "report"},
		},
	}
	a := NewAdapter(interp, nil, nil)

	results, intentCtx := a.Process(context.Background(), "where is my report")
	require.NotNil(t, intentCtx)
	assert.Equal(t, TypeFindFiles, intentCtx.Type)
	assert.Equal(t, 0.9, intentCtx.Confidence)
	require.Len(t, results, 1)
	assert.Equal(t, result.CategoryFile, results[0].Category)
}

func TestAdapterNoIntent(t *testing.T) {
	t.Parallel()

	a := NewAdapter(nil, nil, nil)
	results, intentCtx := a.Process(context.Background(), "firefox")
	assert.Nil(t, results)
	assert.Nil(t, intentCtx)
}

func TestAdapterConfidenceScalesScore(t *testing.T) {
	t.Parallel()

	mk := func(confidence float64) int {
		interp := &stubInterpreter{
			available: true,
			call: &ToolCall{
				Type:       TypeTranslate,
				Confidence: confidence,
				Translate:  &TranslateParams{Text: "hi", TargetLang: "german"},
			},
		}
		a := NewAdapter(interp, nil, nil)
		results, _ := a.Process(context.Background(), "translate hi to german")
		require.Len(t, results, 1)
		return results[0].Score
	}

	full := mk(1.0)
	low := mk(0.35)
	assert.Equal(t, intentScoreTier, full)
	assert.Less(t, low, full)
	// Score never drops below half the tier regardless of confidence.
	assert.Equal(t, intentScoreTier/2, low)
}

func TestAdapterDeterministic(t *testing.T) {
	t.Parallel()

	a := NewAdapter(nil, nil, nil)
	first, _ := a.Process(context.Background(), "100 km to miles")
	for i := 0; i < 10; i++ {
		again, _ := a.Process(context.Background(), "100 km to miles")
		require.Len(t, again, len(first))
		assert.Equal(t, first[0].Title, again[0].Title)
		assert.Equal(t, first[0].Score, again[0].Score)
	}
}

func TestAdapterFindFilesUsesSearchFunc(t *testing.T) {
	t.Parallel()

	search := func(ctx context.Context, pattern string) ([]result.SearchResult, error) {
		return []result.SearchResult{
			{Title: "report.pdf", Subtitle: "/home/u/report.pdf", Category: result.CategoryFile, Score: 400},
			{Title: "report-v2.pdf", Subtitle: "/home/u/report-v2.pdf", Category: result.CategoryFile, Score: 300},
		}, nil
	}
	a := NewAdapter(nil, search, nil)

	results, _ := a.Process(context.Background(), "find report")
	require.Len(t, results, 2)
	assert.Equal(t, result.SourceIntent, results[0].Source)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Equal(t, "report.pdf", results[0].Title)
}

func TestAdapterFindFilesPreviewOnSearchError(t *testing.T) {
	t.Parallel()

	search := func(ctx context.Context, pattern string) ([]result.SearchResult, error) {
		return nil, errors.New("index offline")
	}
	a := NewAdapter(nil, search, nil)

	results, _ := a.Process(context.Background(), "find report")
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Title, "report")
}

func TestAdapterEventEntities(t *testing.T) {
	t.Parallel()

	a := NewAdapter(nil, nil, nil)
	results, intentCtx := a.Process(context.Background(), "schedule standup Jan 5, 2030 10:00am")
	require.NotNil(t, intentCtx)
	require.Len(t, results, 1)
	assert.Equal(t, result.CategoryCalendar, results[0].Category)

	require.Len(t, intentCtx.Entities, 2)
	assert.Equal(t, "title", intentCtx.Entities[0].Type)
	assert.Equal(t, "schedule standup", intentCtx.Entities[0].Value)
	assert.Equal(t, "start", intentCtx.Entities[1].Type)
	assert.Equal(t, "2030-01-05 10:00", intentCtx.Entities[1].Value)
}

func TestAdapterContextIDsUnique(t *testing.T) {
	t.Parallel()

	a := NewAdapter(nil, nil, nil)
	_, first := a.Process(context.Background(), "100 km to miles")
	_, second := a.Process(context.Background(), "100 km to miles")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEmpty(t, first.ID)
}
