package store

import (
	"os"
	"path/filepath"
	"sort"
)

type CategoryCount struct {
	Category string
	Files    int
}

// Census walks the output root and counts materialized files per category
// directory. Unreadable entries are skipped. Returns counts sorted by
// category name; a missing root yields an empty census, not an error.
func Census(root string) ([]CategoryCount, error) {
	counts := make(map[string]int)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		category := filepath.ToSlash(filepath.Dir(rel))
		if category == "." {
			category = ""
		}
		counts[category]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		result = append(result, CategoryCount{Category: cat, Files: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}
