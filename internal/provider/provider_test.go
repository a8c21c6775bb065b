package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/scoring"
)

type stubFast struct {
	name    string
	results []result.SearchResult
	calls   int
}

func (s *stubFast) Name() string { return s.name }

func (s *stubFast) Search(string) []result.SearchResult {
	s.calls++
	return s.results
}

type stubClaimer struct {
	stubFast
	claims bool
}

func (s *stubClaimer) ClaimsQuery(string) bool { return s.claims }

type stubSlow struct {
	name    string
	results []result.SearchResult
	err     error
}

func (s *stubSlow) Name() string { return s.name }

func (s *stubSlow) Search(context.Context, string) ([]result.SearchResult, error) {
	return s.results, s.err
}

func TestRegistry_SearchFast_Concatenates(t *testing.T) {
	t.Parallel()

	a := &stubFast{name: "a", results: []result.SearchResult{{Title: "a1"}}}
	b := &stubFast{name: "b", results: []result.SearchResult{{Title: "b1"}, {Title: "b2"}}}
	r := NewRegistry([]FastProvider{a, b}, nil, nil)

	out := r.SearchFast("x")
	require.Len(t, out, 3)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestRegistry_ShortCircuitSuppressesOthers(t *testing.T) {
	t.Parallel()

	other := &stubFast{name: "other", results: []result.SearchResult{{Title: "other"}}}
	claimer := &stubClaimer{
		stubFast: stubFast{name: "shell", results: []result.SearchResult{{Title: "claimed"}}},
		claims:   true,
	}
	r := NewRegistry([]FastProvider{claimer, other}, nil, nil)

	out := r.SearchFast("ls -la")
	require.Len(t, out, 1)
	assert.Equal(t, "claimed", out[0].Title)
	assert.Equal(t, 0, other.calls, "claimed query must suppress other fast providers")
}

func TestRegistry_SearchSlow_ErrorIsEmptyContribution(t *testing.T) {
	t.Parallel()

	failing := &stubSlow{name: "bad", err: errors.New("index exploded")}
	working := &stubSlow{name: "good", results: []result.SearchResult{{Title: "file"}}}
	r := NewRegistry(nil, []SlowProvider{failing, working}, nil)

	out := r.SearchSlow(context.Background(), "x")
	require.Len(t, out, 1, "one provider failing must not abort the phase")
	assert.Equal(t, "file", out[0].Title)
}

func TestRegistry_SearchSlow_CancelledContext(t *testing.T) {
	t.Parallel()

	working := &stubSlow{name: "good", results: []result.SearchResult{{Title: "file"}}}
	r := NewRegistry(nil, []SlowProvider{working}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, r.SearchSlow(ctx, "x"))
}

func TestAppProvider_SearchesCachedCatalog(t *testing.T) {
	t.Parallel()

	catalog := func(context.Context) ([]Application, error) {
		return []Application{
			{Name: "Calculator", Comment: "Do arithmetic", Exec: "gnome-calculator", ID: "calc"},
			{Name: "Firefox", Comment: "Browse the web", Exec: "firefox %u", ID: "ff"},
		}, nil
	}
	p := NewAppProvider(scoring.NewEngine(nil, nil), catalog)
	require.NoError(t, p.Refresh(context.Background()))

	out := p.Search("cal")
	require.Len(t, out, 1)
	assert.Equal(t, "Calculator", out[0].Title)
	assert.Equal(t, result.CategoryApplication, out[0].Category)
	assert.Greater(t, out[0].Score, 0)

	action, ok := out[0].Action.(ExecCommand)
	require.True(t, ok)
	assert.Equal(t, "gnome-calculator", action.Program)
}

func TestAppProvider_EmptyBeforeRefresh(t *testing.T) {
	t.Parallel()

	p := NewAppProvider(scoring.NewEngine(nil, nil), func(context.Context) ([]Application, error) {
		return []Application{{Name: "App", Exec: "app"}}, nil
	})
	assert.Empty(t, p.Search("app"), "unrefreshed catalog must be empty, not loaded inline")
}

func TestSplitExec_DropsFieldCodes(t *testing.T) {
	t.Parallel()

	program, args := splitExec("firefox --new-window %u")
	assert.Equal(t, "firefox", program)
	assert.Equal(t, []string{"--new-window"}, args)
}

func TestShellProvider_Claims(t *testing.T) {
	t.Parallel()

	p := NewShellProvider()
	p.lookPath = func(name string) (string, error) {
		if name == "git" {
			return "/usr/bin/git", nil
		}
		return "", errors.New("not found")
	}

	assert.True(t, p.ClaimsQuery("> anything at all"))
	assert.True(t, p.ClaimsQuery("git status"))
	assert.False(t, p.ClaimsQuery("git"), "a bare word is an app search, not a command")
	assert.False(t, p.ClaimsQuery("notacommand --flag"))
	assert.False(t, p.ClaimsQuery(">"))
}

func TestShellProvider_Search(t *testing.T) {
	t.Parallel()

	p := NewShellProvider()
	out := p.Search("> git status --short")
	require.Len(t, out, 1)
	assert.Equal(t, "git status --short", out[0].Title)

	action, ok := out[0].Action.(ExecCommand)
	require.True(t, ok)
	assert.Equal(t, "git", action.Program)
	assert.Equal(t, []string{"status", "--short"}, action.Args)
}

func TestProcessProvider_ClaimsDirective(t *testing.T) {
	t.Parallel()

	p := NewProcessProvider()
	assert.True(t, p.ClaimsQuery("ps"))
	assert.True(t, p.ClaimsQuery("ps fire"))
	assert.False(t, p.ClaimsQuery("psych"))
	assert.False(t, p.ClaimsQuery("firefox"))
}

func TestClipboardProvider_RecordAndSearch(t *testing.T) {
	t.Parallel()

	p := NewClipboardProvider(scoring.NewEngine(nil, nil))
	p.Record("export PATH=/usr/local/bin")
	p.Record("meeting notes for tuesday")

	out := p.Search("meeting")
	require.Len(t, out, 1)
	assert.Equal(t, result.CategoryClipboard, out[0].Category)

	// Re-recording an entry deduplicates rather than stacking.
	p.Record("meeting notes for tuesday")
	assert.Len(t, p.Search("meeting"), 1)
}

func TestToggleProvider_FlipTracksState(t *testing.T) {
	t.Parallel()

	var applied []bool
	p := NewToggleProvider(scoring.NewEngine(nil, nil), []Toggle{
		{Name: "Dark Mode", Subtitle: "Appearance", Active: false},
	}, func(_ string, v bool) error {
		applied = append(applied, v)
		return nil
	})

	out := p.Search("dark")
	require.Len(t, out, 1)
	assert.False(t, out[0].IsActive)

	require.NoError(t, out[0].Action.Execute(context.Background()))
	require.Equal(t, []bool{true}, applied)

	out = p.Search("dark")
	require.Len(t, out, 1)
	assert.True(t, out[0].IsActive, "state must reflect the applied toggle")
}

func TestQuicklinkProvider_Search(t *testing.T) {
	t.Parallel()

	p := NewQuicklinkProvider(scoring.NewEngine(nil, nil), []Quicklink{
		{Title: "Team Wiki", URL: "https://wiki.example.com"},
	})

	out := p.Search("wiki")
	require.Len(t, out, 1)
	assert.Equal(t, result.CategoryQuicklink, out[0].Category)
}

func TestContactProvider_MatchesEmail(t *testing.T) {
	t.Parallel()

	p := NewContactProvider(scoring.NewEngine(nil, nil), []Contact{
		{Name: "Ada Lovelace", Email: "ada@example.com"},
	})

	require.Len(t, p.Search("ada"), 1)
	require.Len(t, p.Search("lovelace"), 1)
	assert.Empty(t, p.Search("zzz"))
}
