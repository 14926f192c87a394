package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cco-tools/cco/internal/registry"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorHeader  = "\033[1;34m" // bold blue
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	Width int    // wrap width (0 = no wrap)
	Query string // search query for keyword highlighting
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	terms := strings.Fields(query)
	var filtered []string
	for _, t := range terms {
		if !fts5Operators[t] {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return text
	}
	for _, term := range filtered {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// RenderBlock renders a recorded block: a dim metadata header followed by the
// line-numbered file body, with query terms highlighted.
func RenderBlock(db *registry.DB, relPath string, opts Options) (string, error) {
	block, err := db.BlockByPath(relPath)
	if err != nil {
		return "", fmt.Errorf("get block: %w", err)
	}
	if block == nil {
		return "", fmt.Errorf("block not found: %s", relPath)
	}

	var b strings.Builder
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	writeLine(fmt.Sprintf("%s%s%s %s[%s]%s", colorHeader, block.RelPath, colorReset, colorDim, block.Language, colorReset))
	writeLine(fmt.Sprintf("%scategory: %s  hash: %s  created: %s%s",
		colorDim, block.Category, block.Hash, block.CreatedAt, colorReset))
	if len(block.Keywords) > 0 {
		keywords := block.Keywords
		if len(keywords) > 12 {
			keywords = keywords[:12]
		}
		writeLine(fmt.Sprintf("%skeywords: %s%s", colorDim, strings.Join(keywords, " "), colorReset))
	}
	writeLine("")

	for i, line := range strings.Split(block.Content, "\n") {
		text := highlightKeywords(line, opts.Query)
		writeLine(fmt.Sprintf("%s%4d |%s %s", colorDim, i+1, colorReset, text))
	}

	return b.String(), nil
}
