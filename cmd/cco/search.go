package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cco-tools/cco/internal/config"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/search"
	"github.com/cco-tools/cco/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

// flatten collapses a snippet to a single TSV-safe line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func searchCmd() *cobra.Command {
	var category, language, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across organized code blocks",
		Long: `Search recorded block content using FTS5. Interactive TUI on a terminal;
TSV for pipes (fzf-friendly):
  relPath, category, language, createdAt, snippet

Example shell function:
  ccof() {
    cco search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=2.. \
      --preview 'cco show {1} --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(cco open {1})'
  }`,
		Args: cobra.ExactArgs(1),
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

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, cfg.OutputRoot, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				// first field (relPath) stays plain for fzf {1}
				fmt.Printf("%s\t%s%s%s\t%s\t%s%s%s\t%s\n",
					r.RelPath,
					sColorBlue, r.Category, sColorReset,
					r.Language,
					sColorDim, r.CreatedAt, sColorReset,
					colorizeSnippet(flatten(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category (e.g. services, uncategorized/ruby)")
	cmd.Flags().StringVar(&language, "language", "", "Filter by language tag (e.g. python)")
	cmd.Flags().StringVar(&since, "since", "", "Filter blocks created since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
