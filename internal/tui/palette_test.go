package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/pal/internal/engine"
	"github.com/runger/pal/internal/intent"
	"github.com/runger/pal/internal/provider"
	"github.com/runger/pal/internal/result"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	eng, err := engine.New(engine.Options{
		Registry: provider.NewRegistry(nil, nil, nil),
	})
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return New(eng)
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestResultsMsgUpdatesListAndSelection(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	assert.Equal(t, -1, m.selection)

	m = update(m, ResultsMsg{Results: []result.SearchResult{
		{Title: "Calculator", Category: result.CategoryApplication, Score: 1500},
		{Title: "Calendar", Category: result.CategoryApplication, Score: 1200},
	}})
	assert.Equal(t, 0, m.selection)

	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selection)
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selection, "selection stops at the last row")
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.selection)
}

func TestSelectionClampsWhenListShrinks(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = update(m, ResultsMsg{Results: []result.SearchResult{
		{Title: "a", Score: 3}, {Title: "b", Score: 2}, {Title: "c", Score: 1},
	}})
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.selection)

	m = update(m, ResultsMsg{Results: []result.SearchResult{{Title: "a", Score: 3}}})
	assert.Equal(t, 0, m.selection)

	m = update(m, ResultsMsg{Results: nil})
	assert.Equal(t, -1, m.selection)
}

func TestViewShowsResultsAndIntentFooter(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(m, ResultsMsg{Results: []result.SearchResult{
		{Title: "62.14 miles", Subtitle: "100 km =", Category: result.CategoryConversion, Score: 2400},
	}})
	m = update(m, IntentMsg{Context: &intent.Context{
		Type: intent.TypeConvertUnits,
		Entities: []intent.Entity{
			{Type: "value", Value: "100"},
			{Type: "from_unit", Value: "km"},
		},
	}})

	view := m.View()
	assert.Contains(t, view, "62.14 miles")
	assert.Contains(t, view, "conversion")
	assert.Contains(t, view, "convert_units")
	assert.Contains(t, view, "from_unit=km")

	m = update(m, IntentMsg{Context: nil})
	assert.NotContains(t, m.View(), "convert_units")
}

func TestTypingForwardsQueryToEngine(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cal")})
	assert.Equal(t, "cal", m.input.Value())

	// The engine saw the keystroke: its current query matches the input.
	assert.Equal(t, "cal", m.engine.Query())
}

func TestEnterWithoutSelectionIsNoOp(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, -1, next.(Model).selection)
}

func TestViewEmptyQueryHasNoPlaceholderRow(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	view := m.View()
	assert.False(t, strings.Contains(view, "no results"))
}
