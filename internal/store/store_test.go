package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cco-tools/cco/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseName(t *testing.T) {
	assert.Equal(t, "code", BaseName(nil))
	assert.Equal(t, "alpha", BaseName([]string{"alpha"}))
	assert.Equal(t, "alpha_bravo_charlie", BaseName([]string{"alpha", "bravo", "charlie", "delta"}))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".py", ExtensionFor("python"))
	assert.Equal(t, ".cs", ExtensionFor("csharp"))
	assert.Equal(t, ".txt", ExtensionFor("txt"))
	assert.Equal(t, ".ruby", ExtensionFor("ruby"), "unknown tags synthesize an extension")
}

func TestUniqueName(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "main.py", UniqueName(dir, "main", ".py"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("x"), 0o644))
	assert.Equal(t, "main_1.py", UniqueName(dir, "main", ".py"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main_1.py"), []byte("x"), 0o644))
	assert.Equal(t, "main_2.py", UniqueName(dir, "main", ".py"))
}

func TestWriteRoundTrip(t *testing.T) {
	root := t.TempDir()
	st := New(root)

	b := extract.Block{
		Language: "python",
		Content:  "def handler():\n    return 42",
		Keywords: []string{"def", "handler", "return"},
	}

	rel, err := st.Write("services", b)
	require.NoError(t, err)
	assert.Equal(t, "services/def_handler_return.py", rel)

	data, err := os.ReadFile(filepath.Join(root, "services", "def_handler_return.py"))
	require.NoError(t, err)
	assert.Equal(t, b.Content, string(data), "written bytes equal block content exactly")
}

func TestWriteCollisionSuffix(t *testing.T) {
	root := t.TempDir()
	st := New(root)

	b := extract.Block{Language: "python", Content: "pass", Keywords: []string{"alpha", "bravo"}}

	first, err := st.Write("tests", b)
	require.NoError(t, err)
	second, err := st.Write("tests", b)
	require.NoError(t, err)

	assert.Equal(t, "tests/alpha_bravo.py", first)
	assert.Equal(t, "tests/alpha_bravo_1.py", second)
}

func TestWriteNestedCategory(t *testing.T) {
	root := t.TempDir()
	st := New(root)

	b := extract.Block{Language: "ruby", Content: "puts 1"}
	rel, err := st.Write("uncategorized/ruby", b)
	require.NoError(t, err)
	assert.Equal(t, "uncategorized/ruby/code.ruby", rel)

	_, err = os.Stat(filepath.Join(root, "uncategorized", "ruby", "code.ruby"))
	assert.NoError(t, err)
}

func TestCensus(t *testing.T) {
	root := t.TempDir()
	st := New(root)

	st.Write("services", extract.Block{Language: "python", Content: "a", Keywords: []string{"one"}})
	st.Write("services", extract.Block{Language: "python", Content: "b", Keywords: []string{"two"}})
	st.Write("uncategorized/ruby", extract.Block{Language: "ruby", Content: "c"})

	census, err := Census(root)
	require.NoError(t, err)
	require.Len(t, census, 2)
	assert.Equal(t, CategoryCount{Category: "services", Files: 2}, census[0])
	assert.Equal(t, CategoryCount{Category: "uncategorized/ruby", Files: 1}, census[1])
}

func TestCensusMissingRoot(t *testing.T) {
	census, err := Census(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, census)
}
