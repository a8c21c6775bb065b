package cmd

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runger/pal/internal/engine"
	"github.com/runger/pal/internal/intent"
	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "pal",
	Short: "keystroke-driven command palette",
	Long: `pal - a command palette for the terminal
  - type to search applications, files, and more
  - natural-language queries become actions (events, conversions, ...)`,
	RunE: runPalette,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statsCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	// The engine publishes from worker goroutines before the program
	// pointer exists, so it is read through an atomic.
	var program atomic.Pointer[tea.Program]

	a, err := buildApp(engine.Options{
		Publish: func(results []result.SearchResult) {
			if p := program.Load(); p != nil {
				p.Send(tui.ResultsMsg{Results: results})
			}
		},
		PublishIntent: func(ctx *intent.Context) {
			if p := program.Load(); p != nil {
				p.Send(tui.IntentMsg{Context: ctx})
			}
		},
	})
	if err != nil {
		return err
	}
	defer a.close()

	p := tea.NewProgram(tui.New(a.engine), tea.WithAltScreen())
	program.Store(p)

	_, err = p.Run()
	return err
}
