package main

import (
	"fmt"

	"github.com/cco-tools/cco/internal/config"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/render"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	var query string
	var width int

	cmd := &cobra.Command{
		Use:   "show <relPath>",
		Short: "Print a recorded block with metadata and line numbers",
		Args:  cobra.ExactArgs(1),
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

			out, err := render.RenderBlock(db, args[0], render.Options{
				Width: width,
				Query: query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")

	return cmd
}
