// Package catalog provides the SQLite-backed content registry: every Markdown
// file under the content root is parsed and indexed as a ContentItem, kept in
// sync with the file system at startup and by the watcher.
package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/parser"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	slug        TEXT PRIMARY KEY,
	kind        TEXT NOT NULL DEFAULT 'article',
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	level       TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	ord         INTEGER NOT NULL DEFAULT 0,
	checksum    TEXT NOT NULL DEFAULT '',
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SlugFromPath converts a content file path to its catalog slug.
func SlugFromPath(path string) string {
	return strings.TrimSuffix(path, ".md")
}

// itemFromResult maps a parse result onto a catalog item. Checksum and
// UpdatedAt are filled by the caller.
func itemFromResult(slug string, res *parser.Result) models.ContentItem {
	tags := res.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.ContentItem{
		Slug:        slug,
		Kind:        res.Kind,
		Title:       res.Title,
		Description: res.Description,
		Category:    res.Category,
		Level:       res.Level,
		Tags:        tags,
		Order:       res.Order,
	}
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
