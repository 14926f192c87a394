package classify

import (
	"testing"

	"github.com/cco-tools/cco/internal/extract"
	"github.com/stretchr/testify/assert"
)

func categorize(t *testing.T, transcript string) string {
	t.Helper()
	blocks := extract.Blocks(transcript)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	return New(DefaultRules()).Categorize(blocks[0])
}

func TestHintBeatsKeywordPattern(t *testing.T) {
	// keywords match the models pattern, but the explicit hint wins
	got := categorize(t, "```python\n#tests\nclass UserModel: pass\n```")
	assert.Equal(t, "tests", got)
}

func TestHintReturnedVerbatim(t *testing.T) {
	// matching is case-insensitive, the returned category is as written
	got := categorize(t, "```python\n#Tests/unit\nx = 1\n```")
	assert.Equal(t, "Tests/unit", got)
}

func TestHintTokenStopsAtSecondMarker(t *testing.T) {
	got := categorize(t, "```python\nx = 1  # see #tests\n```")
	assert.Equal(t, "see", got)
}

func TestHintFirstMatchingLineWins(t *testing.T) {
	got := categorize(t, "```python\n#models\n#tests\n```")
	assert.Equal(t, "models", got)
}

func TestEmptyHintFallsThrough(t *testing.T) {
	// "##tests" matches the marker but the token after the first '#' is
	// empty, so classification falls through to keyword matching
	got := categorize(t, "```python\n##tests\nschema = load()\n```")
	assert.Equal(t, "models", got)
}

func TestKeywordPatternTableOrder(t *testing.T) {
	// matches both utils and config patterns; utils comes first
	got := categorize(t, "```python\nhelper = settings\n```")
	assert.Equal(t, "utils", got)
}

func TestKeywordMatchServices(t *testing.T) {
	got := categorize(t, "```javascript\napi client call\n```")
	assert.Equal(t, "services", got)
}

func TestFallbackUncategorized(t *testing.T) {
	got := categorize(t, "```ruby\nputs gets.reverse\n```")
	assert.Equal(t, "uncategorized/ruby", got)
}

func TestFallbackUsesNormalizedLanguage(t *testing.T) {
	got := categorize(t, "```\nplain prose here\n```")
	assert.Equal(t, "uncategorized/txt", got)
}

func TestCustomRules(t *testing.T) {
	rules := []Rule{
		{"scripts", DefaultRules()[0].Pattern},
	}
	cls := New(rules)
	got := cls.Categorize(extract.Block{
		Language: "sh",
		Content:  "helper stuff",
		Keywords: []string{"helper", "stuff"},
	})
	assert.Equal(t, "scripts", got)
}
