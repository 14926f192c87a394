package organize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cco-tools/cco/internal/classify"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db   *registry.DB
	st   *store.Store
	cls  *classify.Classifier
	root string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := registry.Open(filepath.Join(dir, "cco.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	root := filepath.Join(dir, "organized_code")
	return fixture{
		db:   db,
		st:   store.New(root),
		cls:  classify.New(classify.DefaultRules()),
		root: root,
	}
}

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat_history.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMaterializesBlocks(t *testing.T) {
	f := newFixture(t)
	transcript := writeTranscript(t,
		"Here you go:\n```python\n# config\ndef f(): pass\n```\nand another:\n```python\n# config\ndef g(): pass\n```\n")

	stats, err := Run(f.db, f.st, f.cls, transcript)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Blocks)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, 1, stats.Categories)
	assert.Equal(t, 0, stats.Warnings)

	// both blocks carry the config keyword, so both land in config/ and the
	// second gets a collision suffix
	first := filepath.Join(f.root, "config", "config_def_pass.py")
	second := filepath.Join(f.root, "config", "config_def_pass_1.py")

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "# config\ndef f(): pass", string(data))

	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "# config\ndef g(): pass", string(data))
}

func TestRunRecordsRegistry(t *testing.T) {
	f := newFixture(t)
	transcript := writeTranscript(t, "```javascript\napi client call\n```\n")

	stats, err := Run(f.db, f.st, f.cls, transcript)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Written)

	b, err := f.db.BlockByPath("services/api_client_call.js")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "services", b.Category)
	assert.Equal(t, "javascript", b.Language)
	assert.Equal(t, "api client call", b.Content)
	assert.Equal(t, transcript, b.Transcript)
}

func TestRunCountsDuplicates(t *testing.T) {
	f := newFixture(t)
	transcript := writeTranscript(t, "```ruby\nputs gets.reverse\n```\n")

	stats, err := Run(f.db, f.st, f.cls, transcript)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Duplicates)

	// identical content again: still written, but flagged as a duplicate
	stats, err = Run(f.db, f.st, f.cls, transcript)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Written)

	_, err = os.Stat(filepath.Join(f.root, "uncategorized", "ruby", "puts_gets_reverse_1.ruby"))
	assert.NoError(t, err)
}

func TestRunNoBlocks(t *testing.T) {
	f := newFixture(t)
	transcript := writeTranscript(t, "just prose, no fences here\n")

	stats, err := Run(f.db, f.st, f.cls, transcript)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Blocks)

	_, err = os.Stat(f.root)
	assert.True(t, os.IsNotExist(err), "no output root created for an empty run")
}

func TestRunUnreadableTranscript(t *testing.T) {
	f := newFixture(t)

	_, err := Run(f.db, f.st, f.cls, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestStatsString(t *testing.T) {
	s := Stats{Blocks: 3, Written: 3, Duplicates: 1, Categories: 2}
	assert.Equal(t, "blocks=3 written=3 duplicates=1 categories=2 warnings=0", s.String())
}
