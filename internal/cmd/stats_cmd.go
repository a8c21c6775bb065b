package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/pal/internal/config"
	"github.com/runger/pal/internal/stats"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show the most-launched results",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "n", 20, "max rows to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := stats.Open(cfg.Stats.DBPath, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Top(cmd.Context(), statsLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no launches recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LAUNCHES\tCATEGORY\tIDENTIFIER\tLAST USED")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Launches, r.Category, r.Identifier, r.LastUsed.Format(time.DateTime))
	}
	return w.Flush()
}
