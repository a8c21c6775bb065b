// Package tui renders the interactive palette: a text input over a live
// ranked result list fed by engine publications.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/runger/pal/internal/engine"
	"github.com/runger/pal/internal/intent"
	"github.com/runger/pal/internal/result"
)

// ResultsMsg carries a fresh publication from the engine.
type ResultsMsg struct {
	Results []result.SearchResult
}

// IntentMsg carries the current intent context; nil clears the footer.
type IntentMsg struct {
	Context *intent.Context
}

// actionDoneMsg is sent after a result action finishes.
type actionDoneMsg struct {
	err error
}

// Model is the Bubble Tea model for the palette.
type Model struct {
	engine    *engine.Engine
	input     textinput.Model
	results   []result.SearchResult
	selection int // Index into results; -1 when empty
	intentCtx *intent.Context
	actionErr error

	width  int
	height int
}

// New creates the palette model over a running engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Placeholder = "Search…"
	ti.Prompt = "› "
	ti.Focus()
	return Model{engine: eng, input: ti, selection: -1}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case ResultsMsg:
		m.results = msg.Results
		m.clampSelection()
		return m, nil

	case IntentMsg:
		m.intentCtx = msg.Context
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.actionErr = msg.err
			return m, nil
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyUp:
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case tea.KeyDown:
		if m.selection < len(m.results)-1 {
			m.selection++
		}
		return m, nil

	case tea.KeyEnter:
		return m, m.executeSelection()

	case tea.KeyCtrlR:
		return m, m.revealSelection()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.actionErr = nil
		m.engine.OnQueryChanged(m.input.Value())
	}
	return m, cmd
}

// executeSelection runs the selected result's action off the UI loop and
// records the launch for usage statistics.
func (m Model) executeSelection() tea.Cmd {
	if m.selection < 0 || m.selection >= len(m.results) {
		return nil
	}
	r := m.results[m.selection]
	eng := m.engine
	return func() tea.Msg {
		ctx := context.Background()
		eng.RecordLaunch(ctx, r)
		if r.Action == nil {
			return actionDoneMsg{}
		}
		return actionDoneMsg{err: r.Action.Execute(ctx)}
	}
}

func (m Model) revealSelection() tea.Cmd {
	if m.selection < 0 || m.selection >= len(m.results) {
		return nil
	}
	r := m.results[m.selection]
	if r.Reveal == nil {
		return nil
	}
	return func() tea.Msg {
		return actionDoneMsg{err: r.Reveal.Reveal(context.Background())}
	}
}

func (m *Model) clampSelection() {
	if len(m.results) == 0 {
		m.selection = -1
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.results) {
		m.selection = len(m.results) - 1
	}
}

// listHeight returns the visible result rows (height minus input, footer,
// and status chrome).
func (m Model) listHeight() int {
	const chrome = 3
	h := m.height - chrome
	if h < 1 {
		h = 15
	}
	return h
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	intentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	rows := m.listHeight()
	for i, r := range m.results {
		if i >= rows {
			break
		}
		b.WriteString(m.renderRow(i, r))
		b.WriteByte('\n')
	}
	if len(m.results) == 0 && m.input.Value() != "" {
		b.WriteString(dimStyle.Render("  no results"))
		b.WriteByte('\n')
	}

	if m.actionErr != nil {
		b.WriteString(errorStyle.Render("error: " + m.actionErr.Error()))
		b.WriteByte('\n')
	}
	if footer := m.renderIntentFooter(); footer != "" {
		b.WriteString(footer)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderRow(i int, r result.SearchResult) string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	line := r.Title
	if r.Subtitle != "" {
		line = r.Title + "  " + subtitleStyle.Render(r.Subtitle)
	}
	tag := categoryStyle.Render("[" + r.Category.String() + "]")
	line = runewidth.Truncate(line, width-lipgloss.Width(tag)-4, "…")

	if i == m.selection {
		return selectedStyle.Render("▸ "+line) + " " + tag
	}
	return normalStyle.Render("  "+line) + " " + tag
}

// renderIntentFooter shows the current intent and its extracted entities.
func (m Model) renderIntentFooter() string {
	if m.intentCtx == nil {
		return ""
	}
	parts := make([]string, 0, len(m.intentCtx.Entities)+1)
	parts = append(parts, m.intentCtx.Type.String())
	for _, e := range m.intentCtx.Entities {
		parts = append(parts, fmt.Sprintf("%s=%s", e.Type, e.Value))
	}
	return intentStyle.Render(strings.Join(parts, "  "))
}
