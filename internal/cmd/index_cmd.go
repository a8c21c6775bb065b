package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/pal/internal/config"
	"github.com/runger/pal/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index [root...]",
	Short: "rebuild the file-name index for the given trees",
	Long: `Walks each root and indexes file names for the file search provider.
With no arguments the configured roots (or the home directory) are used.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = cfg.Index.Roots
	}
	if len(roots) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		roots = []string{home}
	}

	idx, err := index.Open(cfg.Index.DBPath, newLogger(cfg))
	if err != nil {
		return err
	}
	defer idx.Close()

	if !idx.FTSAvailable() {
		fmt.Fprintln(os.Stderr, "note: FTS5 unavailable, using substring search")
	}

	total := 0
	for _, root := range roots {
		n, err := idx.IndexTree(cmd.Context(), root)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", root, err)
		}
		fmt.Printf("%s: %d files\n", root, n)
		total += n
	}
	fmt.Printf("indexed %d files\n", total)
	return nil
}
