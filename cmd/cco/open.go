package main

import (
	"github.com/cco-tools/cco/internal/config"
	"github.com/cco-tools/cco/internal/open"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <relPath>",
		Short: "Open a materialized block file in $EDITOR",
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

			return open.OpenBlock(db, cfg.OutputRoot, args[0])
		},
	}
}
