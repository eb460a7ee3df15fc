package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/sowilo/internal/storage"
)

// EventCallback is called after a watcher-driven catalog change.
// kind is one of "created", "updated", "deleted"; slug is the catalog slug.
type EventCallback func(kind string, slug string)

// Watch starts an fsnotify watcher on the content root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after
// each successful catalog mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a reconciliation pass that removes stale
// catalog entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, contentRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, contentRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", contentRoot))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcileAfterRename(db, store, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to watcher and index their contents.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					indexNewDir(db, store, contentRoot, absPath, logger, cb)
					continue
				}
			}

			// Only process .md files from here on.
			if !strings.HasSuffix(absPath, ".md") {
				continue
			}

			rel, relErr := filepath.Rel(contentRoot, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			slug := SlugFromPath(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(rel)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				if idxErr := indexFile(db, rel, data); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("slug", slug), slog.String("op", kind))
				if cb != nil {
					cb(kind, slug)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteItem(slug); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("slug", slug), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("slug", slug))
				if cb != nil {
					cb("deleted", slug)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new path
				// arrives as a separate Create event (if it stays within a
				// watched dir). Delete the old entry immediately and schedule
				// a short reconciliation pass to catch any stragglers.
				if delErr := db.DeleteItem(slug); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("slug", slug), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("slug", slug))
					if cb != nil {
						cb("deleted", slug)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcileAfterRename does a lightweight sync using batch lookups:
// removes catalog entries without a corresponding file on disk and indexes
// on-disk files that are missing or stale.
func reconcileAfterRename(db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	paths := make(map[string]string, len(metas))
	for _, m := range metas {
		slug := SlugFromPath(m.Path)
		disk[slug] = m.Checksum
		paths[slug] = m.Path
	}

	for slug := range checksums {
		if _, ok := disk[slug]; !ok {
			if delErr := db.DeleteItem(slug); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("slug", slug))
				if cb != nil {
					cb("deleted", slug)
				}
			}
		}
	}

	for slug, cs := range disk {
		if checksums[slug] == cs {
			continue
		}
		data, readErr := store.Read(paths[slug])
		if readErr != nil {
			continue
		}
		if idxErr := indexFile(db, paths[slug], data); idxErr == nil {
			logger.Debug("reconcile: indexed new", slog.String("slug", slug))
			if cb != nil {
				cb("created", slug)
			}
		}
	}
}

// indexNewDir indexes any .md files found in a newly created directory.
func indexNewDir(db *DB, store storage.Provider, contentRoot, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(contentRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		data, readErr := store.Read(rel)
		if readErr != nil {
			return nil
		}
		if idxErr := indexFile(db, rel, data); idxErr == nil {
			slug := SlugFromPath(rel)
			logger.Debug("watcher: indexed from new dir", slog.String("slug", slug))
			if cb != nil {
				cb("created", slug)
			}
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
