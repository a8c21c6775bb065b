package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runger/pal/internal/engine"
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "run one search to completion and print the ranked results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := buildApp(engine.Options{})
	if err != nil {
		return err
	}
	defer a.close()

	query := strings.Join(args, " ")
	results, intentCtx := a.engine.RunOnce(cmd.Context(), query)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tCATEGORY\tTITLE\tSUBTITLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Score, r.Category, r.Title, r.Subtitle)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if intentCtx != nil {
		fmt.Printf("\nintent: %s (confidence %.2f)\n", intentCtx.Type, intentCtx.Confidence)
		for _, e := range intentCtx.Entities {
			fmt.Printf("  %s = %s\n", e.Type, e.Value)
		}
	}
	return nil
}
