package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/cco-tools/cco/internal/registry"
)

type Result struct {
	RelPath   string
	Category  string
	Language  string
	CreatedAt string
	Snippet   string
	Rank      float64
}

type Options struct {
	Query    string
	Category string // "" = all
	Language string // "" = all
	Since    string // "" = no filter, e.g. "2026-01-01"
	Limit    int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// Search runs a full-text query over recorded block content. FTS5 handles
// most queries; CJK queries fall back to LIKE substring matching, which the
// unicode61 tokenizer does not serve well.
func Search(db *registry.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if containsCJK(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

func searchFTS(db *registry.DB, opts Options) ([]Result, error) {
	conditions := []string{"blocks_fts MATCH ?"}
	args := []interface{}{opts.Query}

	conditions, args = appendFilters(conditions, args, opts)
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			b.rel_path,
			b.category,
			b.language,
			b.created_at,
			snippet(blocks_fts, 0, '>>>', '<<<', '...', 40) as snip,
			bm25(blocks_fts, 1.0) as rank
		FROM blocks_fts
		JOIN blocks b ON blocks_fts.rowid = b.id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *registry.DB, opts Options) ([]Result, error) {
	conditions := []string{"b.content LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	conditions, args = appendFilters(conditions, args, opts)
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			b.rel_path,
			b.category,
			b.language,
			b.created_at,
			b.content
		FROM blocks b
		WHERE %s
		ORDER BY b.created_at DESC
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(&r.RelPath, &r.Category, &r.Language, &r.CreatedAt, &fullText); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func appendFilters(conditions []string, args []interface{}, opts Options) ([]string, []interface{}) {
	if opts.Category != "" {
		conditions = append(conditions, "b.category = ?")
		args = append(args, opts.Category)
	}
	if opts.Language != "" {
		conditions = append(conditions, "b.language = ?")
		args = append(args, opts.Language)
	}
	if opts.Since != "" {
		conditions = append(conditions, "b.created_at >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.RelPath, &r.Category, &r.Language,
			&r.CreatedAt, &r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns recorded blocks newest first, with the head of the content
// as the snippet. Used by the list command and the TUI's unfiltered view.
func ListAll(db *registry.DB, opts Options) ([]Result, error) {
	blocks, err := db.List(registry.ListOptions{
		Category: opts.Category,
		Language: opts.Language,
		Since:    opts.Since,
		Limit:    opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(blocks))
	for _, b := range blocks {
		head := b.Content
		if len([]rune(head)) > 80 {
			head = string([]rune(head)[:80]) + "..."
		}
		head = strings.ReplaceAll(head, "\n", " ")
		results = append(results, Result{
			RelPath:   b.RelPath,
			Category:  b.Category,
			Language:  b.Language,
			CreatedAt: b.CreatedAt,
			Snippet:   head,
		})
	}
	return results, nil
}
