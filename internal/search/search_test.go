package search

import (
	"path/filepath"
	"testing"

	"github.com/cco-tools/cco/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *registry.DB {
	t.Helper()
	db, err := registry.Open(filepath.Join(t.TempDir(), "cco.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *registry.DB) {
	t.Helper()
	blocks := []registry.Block{
		{
			RelPath:   "services/api_client.py",
			Category:  "services",
			Language:  "python",
			Hash:      "a1",
			Content:   "def fetch users from the billing api",
			CreatedAt: "2026-01-01T00:00:00Z",
		},
		{
			RelPath:   "tests/spec_runner.py",
			Category:  "tests",
			Language:  "python",
			Hash:      "b1",
			Content:   "assert runner handles retries",
			CreatedAt: "2026-02-01T00:00:00Z",
		},
		{
			RelPath:   "uncategorized/ruby/code.ruby",
			Category:  "uncategorized/ruby",
			Language:  "ruby",
			Hash:      "c1",
			Content:   "billing helpers in ruby",
			CreatedAt: "2026-03-01T00:00:00Z",
		},
	}
	for _, b := range blocks {
		require.NoError(t, db.Record(b))
	}
}

func TestSearchFTS(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	results, err := Search(db, Options{Query: "billing"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Snippet, ">>>billing<<<")
}

func TestSearchCategoryFilter(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	results, err := Search(db, Options{Query: "billing", Category: "services"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "services/api_client.py", results[0].RelPath)
}

func TestSearchLanguageFilter(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	results, err := Search(db, Options{Query: "billing", Language: "ruby"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "uncategorized/ruby/code.ruby", results[0].RelPath)
}

func TestSearchNoResults(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	results, err := Search(db, Options{Query: "nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListAllNewestFirst(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	results, err := ListAll(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "uncategorized/ruby/code.ruby", results[0].RelPath)
	assert.Equal(t, "services/api_client.py", results[2].RelPath)
	assert.Equal(t, "billing helpers in ruby", results[0].Snippet)
}

func TestMakeSnippet(t *testing.T) {
	got := makeSnippet("the quick brown fox jumps over the lazy dog", "fox", 6)
	assert.Equal(t, "...brown >>>fox<<< jumps...", got)

	// no match returns the head
	got = makeSnippet("short text", "zzz", 30)
	assert.Equal(t, "short text", got)
}
