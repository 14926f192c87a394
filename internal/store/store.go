package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cco-tools/cco/internal/extract"
)

// extensions maps fence language tags to file extensions. Tags not listed
// here get "." + tag.
var extensions = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"typescript": ".ts",
	"java":       ".java",
	"csharp":     ".cs",
	"txt":        ".txt",
}

// ExtensionFor returns the file extension for a normalized language tag.
func ExtensionFor(lang string) string {
	if ext, ok := extensions[lang]; ok {
		return ext
	}
	return "." + lang
}

// BaseName derives a filename stem from a block's keywords: the first three
// joined with underscores, or "code" when there are none.
func BaseName(keywords []string) string {
	if len(keywords) == 0 {
		return "code"
	}
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	return strings.Join(keywords, "_")
}

// UniqueName returns base+ext, with _1, _2, ... inserted before the
// extension until the name does not collide with an existing entry in dir.
func UniqueName(dir, base, ext string) string {
	name := base + ext
	for n := 1; pathExists(filepath.Join(dir, name)); n++ {
		name = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
	return name
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Store materializes organized blocks beneath a single output root.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string { return s.root }

// Write files one block under root/category, creating the category directory
// as needed, and returns the slash-separated path of the written file
// relative to the root. The file body is exactly the block's trimmed content.
func (s *Store) Write(category string, b extract.Block) (string, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create category dir %s: %w", dir, err)
	}

	name := UniqueName(dir, BaseName(b.Keywords), ExtensionFor(b.Language))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.Content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel), nil
}
