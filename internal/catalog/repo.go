package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
)

// Registry is the read interface consumers depend on instead of the concrete
// *DB type, to facilitate testing with fakes.
type Registry interface {
	GetItem(slug string) (*models.ContentItem, error)
	ListItems(kind models.ContentKind, tag string, limit, offset int, sort string) ([]models.ContentItem, int, error)
	CountByKind(kind models.ContentKind) (int, error)
	Snapshot() ([]models.ContentItem, error)
}

// Verify *DB satisfies Registry at compile time.
var _ Registry = (*DB)(nil)

// UpsertItem inserts or replaces a catalog item.
func (db *DB) UpsertItem(item models.ContentItem) error {
	tagsJSON, _ := json.Marshal(item.Tags)

	_, err := db.conn.Exec(`
		INSERT INTO items (slug, kind, title, description, category, level, tags, ord, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			kind        = excluded.kind,
			title       = excluded.title,
			description = excluded.description,
			category    = excluded.category,
			level       = excluded.level,
			tags        = excluded.tags,
			ord         = excluded.ord,
			checksum    = excluded.checksum,
			updated_at  = excluded.updated_at
	`, item.Slug, string(item.Kind), item.Title, item.Description, item.Category,
		item.Level, string(tagsJSON), item.Order, item.Checksum, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert item: %w", err)
	}
	return nil
}

// DeleteItem removes a catalog item.
func (db *DB) DeleteItem(slug string) error {
	if _, err := db.conn.Exec(`DELETE FROM items WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("catalog: delete item: %w", err)
	}
	return nil
}

// GetItem returns the item with the given slug, or apperr.ErrNotFound.
func (db *DB) GetItem(slug string) (*models.ContentItem, error) {
	row := db.conn.QueryRow(`
		SELECT slug, kind, title, description, category, level, tags, ord, checksum, updated_at
		FROM items WHERE slug = ?
	`, slug)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get item: %w", err)
	}
	return item, nil
}

// ListItems returns items filtered by kind (empty for all) and tag (empty for
// all), ordered and paginated. sort is one of "order" (default), "title",
// "updated_at". The second return value is the total before pagination.
func (db *DB) ListItems(kind models.ContentKind, tag string, limit, offset int, sort string) ([]models.ContentItem, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := "1=1"
	var args []any
	if kind != "" {
		where += " AND kind = ?"
		args = append(args, string(kind))
	}
	if tag != "" {
		// Tags are stored as a JSON string array; match the quoted element.
		where += " AND tags LIKE ?"
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count items: %w", err)
	}

	orderBy := "ord, slug"
	switch sort {
	case "title":
		orderBy = "title, slug"
	case "updated_at":
		orderBy = "updated_at DESC, slug"
	}

	query := fmt.Sprintf(`
		SELECT slug, kind, title, description, category, level, tags, ord, checksum, updated_at
		FROM items WHERE %s ORDER BY %s LIMIT ? OFFSET ?
	`, where, orderBy)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list items: %w", err)
	}
	defer rows.Close()

	var out []models.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *item)
	}
	return out, total, rows.Err()
}

// CountByKind returns the number of items of the given kind.
func (db *DB) CountByKind(kind models.ContentKind) (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items WHERE kind = ?`, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count by kind: %w", err)
	}
	return n, nil
}

// Snapshot returns every item in catalog order. The search index is built
// from this dump.
func (db *DB) Snapshot() ([]models.ContentItem, error) {
	rows, err := db.conn.Query(`
		SELECT slug, kind, title, description, category, level, tags, ord, checksum, updated_at
		FROM items ORDER BY ord, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: snapshot: %w", err)
	}
	defer rows.Close()

	var out []models.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

// AllChecksums returns a slug → checksum map of every indexed item.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT slug, checksum FROM items`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var slug, cs string
		if err := rows.Scan(&slug, &cs); err != nil {
			return nil, err
		}
		out[slug] = cs
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*models.ContentItem, error) {
	var (
		item     models.ContentItem
		kind     string
		tagsJSON string
	)
	if err := row.Scan(&item.Slug, &kind, &item.Title, &item.Description,
		&item.Category, &item.Level, &tagsJSON, &item.Order, &item.Checksum, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Kind = models.ContentKind(kind)
	_ = json.Unmarshal([]byte(tagsJSON), &item.Tags)
	return &item, nil
}
