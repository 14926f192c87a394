package classify

import (
	"regexp"
	"strings"

	"github.com/cco-tools/cco/internal/extract"
)

// Rule pairs a category name with the keyword pattern that routes blocks
// into it. Rule order is priority order: the first matching rule wins.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in category table in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{"utils", regexp.MustCompile(`(?i)\b(utils?|helpers?|common)\b`)},
		{"models", regexp.MustCompile(`(?i)\b(models?|schemas?|entities?)\b`)},
		{"services", regexp.MustCompile(`(?i)\b(service|api|client|adapter)\b`)},
		{"tests", regexp.MustCompile(`(?i)\b(test|spec)\b`)},
		{"config", regexp.MustCompile(`(?i)\b(config|settings?)\b`)},
	}
}

// Classifier maps extracted blocks to category paths.
type Classifier struct {
	rules []Rule
}

func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Categorize returns the destination category for a block as a relative
// directory path. An explicit "#<category>" marker in the code wins over
// keyword matching; blocks nothing matches land in "uncategorized/<lang>".
func (c *Classifier) Categorize(b extract.Block) string {
	if hint, ok := c.hint(b.Content); ok {
		return hint
	}
	joined := strings.Join(b.Keywords, " ")
	for _, r := range c.rules {
		if r.Pattern.MatchString(joined) {
			return r.Name
		}
	}
	return "uncategorized/" + b.Language
}

// hint scans the code line by line for a marker like "#tests". Matching is
// case-insensitive, but the returned category is the text after the line's
// first '#' (up to any second '#'), trimmed, verbatim as written. A marker
// whose token trims to empty is skipped and scanning continues.
func (c *Classifier) hint(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		for _, r := range c.rules {
			if !strings.Contains(lower, "#"+r.Name) {
				continue
			}
			after := line[strings.Index(line, "#")+1:]
			if i := strings.Index(after, "#"); i >= 0 {
				after = after[:i]
			}
			cat := strings.TrimSpace(after)
			if cat == "" {
				break
			}
			return cat, true
		}
	}
	return "", false
}
