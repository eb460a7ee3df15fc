package search

import (
	"strings"
	"sync"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/statestore"
)

// MaxRecent caps the recent-searches list.
const MaxRecent = 5

// Recent is the capped, de-duplicated, most-recent-first list of query
// strings the user selected a result for. Persisted after every addition.
type Recent struct {
	mu     sync.Mutex
	store  *statestore.Store
	loaded bool
	items  []string
}

// NewRecent creates the list backed by the given state store.
func NewRecent(store *statestore.Store) *Recent {
	return &Recent{store: store}
}

// Load reads the persisted list. Absent or corrupt data yields an empty list.
func (r *Recent) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []string
	if _, err := r.store.Load(statestore.DocRecentSearches, &items); err != nil {
		return err
	}
	if len(items) > MaxRecent {
		items = items[:MaxRecent]
	}
	r.items = items
	r.loaded = true
	return nil
}

// Add records a selected query at the front, de-duplicating and trimming to
// MaxRecent. Empty queries are ignored.
func (r *Recent) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		return apperr.ErrNotLoaded
	}

	items := make([]string, 0, len(r.items)+1)
	items = append(items, query)
	for _, v := range r.items {
		if v == query {
			continue
		}
		items = append(items, v)
	}
	if len(items) > MaxRecent {
		items = items[:MaxRecent]
	}
	r.items = items
	return r.store.Save(statestore.DocRecentSearches, r.items)
}

// List returns the queries, most recent first.
func (r *Recent) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.items...)
}
