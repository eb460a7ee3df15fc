package catalog

import (
	"log/slog"
	"time"

	"github.com/starford/sowilo/internal/parser"
	"github.com/starford/sowilo/internal/storage"
)

// Sync walks the content root and brings the catalog up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the catalog
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		slug := SlugFromPath(m.Path)
		disk[slug] = struct{}{}

		if checksums[slug] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("slug", slug))
		}
	}

	// Remove stale entries.
	for slug := range checksums {
		if _, ok := disk[slug]; !ok {
			if err := db.DeleteItem(slug); err != nil {
				logger.Warn("sync: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("slug", slug))
			}
		}
	}

	return nil
}

// indexFile parses raw content and upserts the resulting item.
func indexFile(db *DB, path string, data []byte) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}
	item := itemFromResult(SlugFromPath(path), res)
	item.Checksum = checksum(data)
	item.UpdatedAt = time.Now()
	return db.UpsertItem(item)
}
