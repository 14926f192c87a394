package main

import (
	"fmt"
	"os"

	"github.com/cco-tools/cco/internal/config"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/store"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify output root, registry, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			// check output root
			fmt.Println("=== Output Root ===")
			checkDir("Root", cfg.OutputRoot)

			// on-disk census
			fmt.Println("\n=== Files On Disk ===")
			census, err := store.Census(cfg.OutputRoot)
			if err != nil {
				fmt.Printf("  census error: %v\n", err)
			} else if len(census) == 0 {
				fmt.Println("  (no files yet)")
			} else {
				total := 0
				for _, c := range census {
					fmt.Printf("  %-28s %d\n", c.Category, c.Files)
					total += c.Files
				}
				fmt.Printf("  Total: %d\n", total)
			}

			// check registry
			fmt.Println("\n=== Registry ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'cco organize' first)")
				return nil
			}

			db, err := registry.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open registry: %w", err)
			}
			defer db.Close()

			blockCount, err := db.BlockCount()
			if err != nil {
				return fmt.Errorf("count blocks: %w", err)
			}

			categoryCount, err := db.CategoryCount()
			if err != nil {
				return fmt.Errorf("count categories: %w", err)
			}

			fmt.Printf("  Blocks:     %d\n", blockCount)
			fmt.Printf("  Categories: %d\n", categoryCount)

			// check FTS5
			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM blocks_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == blockCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (blocks=%d, fts=%d)\n", blockCount, ftsCount)
				}
			}

			// check DB file size
			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
