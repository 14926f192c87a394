package main

import (
	"fmt"
	"os"

	"github.com/cco-tools/cco/internal/classify"
	"github.com/cco-tools/cco/internal/config"
	"github.com/cco-tools/cco/internal/organize"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/store"
	"github.com/spf13/cobra"
)

func organizeCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "organize <transcript>",
		Short: "Extract fenced code blocks from a transcript and file them by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if out != "" {
				cfg.OutputRoot = out
			}

			db, err := registry.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open registry: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Organizing %s\n", args[0])
			fmt.Fprintf(os.Stderr, "  Output: %s\n", cfg.OutputRoot)

			st := store.New(cfg.OutputRoot)
			cls := classify.New(classify.DefaultRules())

			stats, err := organize.Run(db, st, cls, args[0])
			if err != nil {
				return fmt.Errorf("organize: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output root directory (overrides config, default \"organized_code\")")

	return cmd
}
