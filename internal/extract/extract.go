package extract

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

// Block is one fenced code region pulled out of a transcript.
type Block struct {
	Language string   // lowercased fence tag, "txt" when absent
	Content  string   // fence body, surrounding whitespace trimmed
	Hash     string   // md5 of Content, hex-encoded
	Keywords []string // lowercased identifier-like tokens, first-occurrence order
}

var (
	fenceRe   = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")
	keywordRe = regexp.MustCompile(`\b[A-Za-z_]{3,}\b`)
)

// Blocks scans transcript text and returns one Block per fenced code region,
// in document order. An opening fence with no matching close yields nothing.
func Blocks(text string) []Block {
	matches := fenceRe.FindAllStringSubmatch(text, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		lang := strings.ToLower(m[1])
		if lang == "" {
			lang = "txt"
		}
		code := strings.TrimSpace(m[2])
		sum := md5.Sum([]byte(code))
		blocks = append(blocks, Block{
			Language: lang,
			Content:  code,
			Hash:     hex.EncodeToString(sum[:]),
			Keywords: Keywords(code),
		})
	}
	return blocks
}

// Keywords returns the distinct identifier-like tokens of code, lowercased,
// in order of first occurrence. Tokens that are entirely uppercase in the
// source (constant/macro style) are dropped as uninformative. This is a pure
// lexical scan: tokens inside strings and comments count too.
func Keywords(code string) []string {
	seen := make(map[string]bool)
	var kws []string
	for _, tok := range keywordRe.FindAllString(code, -1) {
		if isAllUpper(tok) {
			continue
		}
		lower := strings.ToLower(tok)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		kws = append(kws, lower)
	}
	return kws
}

// isAllUpper reports whether s has at least one cased rune and none lowercase.
func isAllUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}
