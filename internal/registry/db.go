package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS blocks (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    rel_path    TEXT NOT NULL UNIQUE,
    category    TEXT NOT NULL,
    language    TEXT NOT NULL,
    hash        TEXT NOT NULL,
    keywords    TEXT NOT NULL DEFAULT '',
    transcript  TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL,
    size        INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS blocks_hash_idx ON blocks(hash);

CREATE VIRTUAL TABLE IF NOT EXISTS blocks_fts USING fts5(
    content,
    content=blocks,
    content_rowid=id,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS blocks_ai AFTER INSERT ON blocks BEGIN
    INSERT INTO blocks_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TRIGGER IF NOT EXISTS blocks_ad AFTER DELETE ON blocks BEGIN
    INSERT INTO blocks_fts(blocks_fts, rowid, content) VALUES('delete', old.id, old.content);
END;

CREATE TRIGGER IF NOT EXISTS blocks_au AFTER UPDATE ON blocks BEGIN
    INSERT INTO blocks_fts(blocks_fts, rowid, content) VALUES('delete', old.id, old.content);
    INSERT INTO blocks_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// schemaVersion should be bumped whenever the blocks schema changes. The
// registry is append-only, so a mismatch only rebuilds the FTS index.
const schemaVersion = "1"

type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	d.migrateSchemaVersion()
	return d, nil
}

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		d.db.Exec("INSERT INTO blocks_fts(blocks_fts) VALUES('rebuild')")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// Block is one materialized code block as recorded in the registry.
type Block struct {
	ID         int64
	RelPath    string // slash-separated path relative to the output root
	Category   string
	Language   string
	Hash       string
	Keywords   []string
	Transcript string // transcript file the block came from
	Content    string
	Size       int64
	CreatedAt  string
}

const timeFormat = "2006-01-02T15:04:05Z"

// Record inserts one materialized block. The registry is the bookkeeping
// layer only; the file on disk is the source of truth.
func (d *DB) Record(b Block) error {
	createdAt := b.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(timeFormat)
	}
	_, err := d.db.Exec(
		`INSERT INTO blocks (rel_path, category, language, hash, keywords, transcript, content, size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.RelPath,
		b.Category,
		b.Language,
		b.Hash,
		strings.Join(b.Keywords, " "),
		b.Transcript,
		b.Content,
		int64(len(b.Content)),
		createdAt,
	)
	return err
}

// HashSeen reports whether a block with this content hash was recorded before.
func (d *DB) HashSeen(hash string) (bool, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM blocks WHERE hash = ?", hash).Scan(&n)
	return n > 0, err
}

func (d *DB) BlockByPath(relPath string) (*Block, error) {
	row := d.db.QueryRow(
		`SELECT id, rel_path, category, language, hash, keywords, transcript, content, size, created_at
		 FROM blocks WHERE rel_path = ?`,
		relPath,
	)
	b, err := scanBlock(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListOptions filters List results. Zero values mean no filter.
type ListOptions struct {
	Category string
	Language string
	Since    string // e.g. "2026-01-01"
	Limit    int    // 0 = no limit
}

// List returns recorded blocks newest first.
func (d *DB) List(opts ListOptions) ([]Block, error) {
	var conditions []string
	var args []interface{}

	if opts.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Language != "" {
		conditions = append(conditions, "language = ?")
		args = append(args, opts.Language)
	}
	if opts.Since != "" {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, opts.Since)
	}

	query := `SELECT id, rel_path, category, language, hash, keywords, transcript, content, size, created_at
	          FROM blocks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

func (d *DB) BlockCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM blocks").Scan(&n)
	return n, err
}

func (d *DB) CategoryCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(DISTINCT category) FROM blocks").Scan(&n)
	return n, err
}

func (d *DB) Categories() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT category FROM blocks ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(r rowScanner) (*Block, error) {
	var b Block
	var keywords string
	err := r.Scan(
		&b.ID, &b.RelPath, &b.Category, &b.Language, &b.Hash,
		&keywords, &b.Transcript, &b.Content, &b.Size, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if keywords != "" {
		b.Keywords = strings.Fields(keywords)
	}
	return &b, nil
}
