package organize

import (
	"fmt"
	"os"

	"github.com/cco-tools/cco/internal/classify"
	"github.com/cco-tools/cco/internal/extract"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/store"
)

type Stats struct {
	Blocks     int // fenced regions found in the transcript
	Written    int // files materialized on disk
	Duplicates int // blocks whose content hash was already in the registry
	Categories int // distinct categories touched by this run
	Warnings   int // non-fatal bookkeeping failures
}

func (s Stats) String() string {
	return fmt.Sprintf("blocks=%d written=%d duplicates=%d categories=%d warnings=%d",
		s.Blocks, s.Written, s.Duplicates, s.Categories, s.Warnings)
}

// Run processes one transcript file end to end: extract every fenced code
// block, classify it, materialize it under the store's output root, and
// record it in the registry. Blocks are handled in document order; a write
// failure aborts the run, files already written stay on disk. Registry
// failures only warn — the file on disk is the source of truth.
func Run(db *registry.DB, st *store.Store, cls *classify.Classifier, transcriptPath string) (Stats, error) {
	var stats Stats

	raw, err := os.ReadFile(transcriptPath)
	if err != nil {
		return stats, fmt.Errorf("read transcript: %w", err)
	}

	blocks := extract.Blocks(string(raw))
	stats.Blocks = len(blocks)

	categories := make(map[string]struct{})
	for _, b := range blocks {
		category := cls.Categorize(b)

		// Duplicates are counted, never suppressed: a block seen before
		// is still written under a fresh name.
		seen, err := db.HashSeen(b.Hash)
		if err == nil && seen {
			stats.Duplicates++
		}

		relPath, err := st.Write(category, b)
		if err != nil {
			return stats, err
		}
		stats.Written++
		categories[category] = struct{}{}

		if err := db.Record(registry.Block{
			RelPath:    relPath,
			Category:   category,
			Language:   b.Language,
			Hash:       b.Hash,
			Keywords:   b.Keywords,
			Transcript: transcriptPath,
			Content:    b.Content,
		}); err != nil {
			stats.Warnings++
			fmt.Fprintf(os.Stderr, "  WARN: record %s: %v\n", relPath, err)
		}
	}

	stats.Categories = len(categories)
	return stats, nil
}
