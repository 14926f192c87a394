package main

import (
	"fmt"
	"os"

	"github.com/cco-tools/cco/internal/config"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/search"
	"github.com/cco-tools/cco/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func listCmd() *cobra.Command {
	var category, language, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse organized code blocks, newest first",
		Long:  `Opens a TUI panel showing all recorded blocks sorted by creation time (newest first). Type to full-text search block content. Emits TSV when piped.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := registry.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := search.Options{
				Category: category,
				Language: language,
				Since:    since,
				Limit:    limit,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, cfg.OutputRoot, "", opts)
			}

			results, err := search.ListAll(db, opts)
			if err != nil {
				return err
			}
			printResults(results)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category (e.g. services, uncategorized/ruby)")
	cmd.Flags().StringVar(&language, "language", "", "Filter by language tag (e.g. python)")
	cmd.Flags().StringVar(&since, "since", "", "Filter blocks created since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}

// printResults emits one TSV row per block: relPath, category, language,
// createdAt, snippet.
func printResults(results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No blocks found.")
		return
	}
	for _, r := range results {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
			r.RelPath,
			r.Category,
			r.Language,
			r.CreatedAt,
			flatten(r.Snippet),
		)
	}
}
