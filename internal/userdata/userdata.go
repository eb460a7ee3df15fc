// Package userdata manages the user-owned completion set, favorites list,
// and display preferences, persisting each after every mutation.
package userdata

import (
	"sort"
	"sync"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/statestore"
)

// NotifyFunc receives change notifications after successful mutations.
type NotifyFunc func(event string, data any)

// Favorites sort orders.
const (
	SortInsertion = ""           // default display order
	SortAddedAsc  = "added_asc"  // oldest first
	SortAddedDesc = "added_desc" // newest first
)

// Service owns the three user-data documents. Construct once at app start
// and call Load before any mutation.
type Service struct {
	mu     sync.Mutex
	store  *statestore.Store
	now    func() time.Time
	notify NotifyFunc

	loaded      bool
	completions []string // insertion order, persisted as-is
	completed   map[string]struct{}
	favorites   []models.Favorite
	prefs       models.Preferences
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used for favorite timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotify installs the change-notification callback.
func WithNotify(fn NotifyFunc) Option {
	return func(s *Service) { s.notify = fn }
}

// New creates a Service backed by the given state store.
func New(store *statestore.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		now:       time.Now,
		completed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads all three documents. Absent or corrupt documents yield empty
// defaults. Mutations before Load are rejected with ErrNotLoaded.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completions []string
	if _, err := s.store.Load(statestore.DocCompletions, &completions); err != nil {
		return err
	}
	s.completions = s.completions[:0]
	s.completed = make(map[string]struct{}, len(completions))
	for _, slug := range completions {
		if _, dup := s.completed[slug]; dup {
			continue
		}
		s.completed[slug] = struct{}{}
		s.completions = append(s.completions, slug)
	}

	var favorites []models.Favorite
	if _, err := s.store.Load(statestore.DocFavorites, &favorites); err != nil {
		return err
	}
	s.favorites = favorites

	var prefs models.Preferences
	if _, err := s.store.Load(statestore.DocPreferences, &prefs); err != nil {
		return err
	}
	s.prefs = prefs

	s.loaded = true
	return nil
}

// Loaded reports whether Load has completed.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// MarkCompleted adds a concept slug to the completion set. Marking an
// already-completed slug is a no-op and reports false.
func (s *Service) MarkCompleted(slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, apperr.ErrNotLoaded
	}
	if _, ok := s.completed[slug]; ok {
		return false, nil
	}
	s.completed[slug] = struct{}{}
	s.completions = append(s.completions, slug)
	if err := s.store.Save(statestore.DocCompletions, s.completions); err != nil {
		return false, err
	}
	s.emit("completions.updated", append([]string(nil), s.completions...))
	return true, nil
}

// MarkIncomplete removes a concept slug from the completion set.
func (s *Service) MarkIncomplete(slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, apperr.ErrNotLoaded
	}
	if _, ok := s.completed[slug]; !ok {
		return false, nil
	}
	delete(s.completed, slug)
	for i, v := range s.completions {
		if v == slug {
			s.completions = append(s.completions[:i], s.completions[i+1:]...)
			break
		}
	}
	if err := s.store.Save(statestore.DocCompletions, s.completions); err != nil {
		return false, err
	}
	s.emit("completions.updated", append([]string(nil), s.completions...))
	return true, nil
}

// IsCompleted reports completion-set membership.
func (s *Service) IsCompleted(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completed[slug]
	return ok
}

// Completions returns the completed slugs in insertion order.
func (s *Service) Completions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.completions...)
}

// AddFavorite bookmarks a slug. Adding an already-favorited slug is a no-op
// regardless of type, keeping at most one entry per slug.
func (s *Service) AddFavorite(slug string, typ models.FavoriteType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, apperr.ErrNotLoaded
	}
	for _, f := range s.favorites {
		if f.Slug == slug {
			return false, nil
		}
	}
	s.favorites = append(s.favorites, models.Favorite{
		Slug:    slug,
		Type:    typ,
		AddedAt: s.now(),
	})
	if err := s.store.Save(statestore.DocFavorites, s.favorites); err != nil {
		return false, err
	}
	s.emit("favorites.updated", append([]models.Favorite(nil), s.favorites...))
	return true, nil
}

// RemoveFavorite removes the bookmark for a slug.
func (s *Service) RemoveFavorite(slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, apperr.ErrNotLoaded
	}
	for i, f := range s.favorites {
		if f.Slug == slug {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			if err := s.store.Save(statestore.DocFavorites, s.favorites); err != nil {
				return false, err
			}
			s.emit("favorites.updated", append([]models.Favorite(nil), s.favorites...))
			return true, nil
		}
	}
	return false, nil
}

// Favorites returns the list in the requested order: insertion order by
// default, or by AddedAt ascending/descending.
func (s *Service) Favorites(order string) []models.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]models.Favorite(nil), s.favorites...)
	switch order {
	case SortAddedAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	case SortAddedDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	}
	return out
}

// Preferences returns the persisted display preferences.
func (s *Service) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetPreferences overwrites and persists the display preferences.
func (s *Service) SetPreferences(p models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return apperr.ErrNotLoaded
	}
	s.prefs = p
	return s.store.Save(statestore.DocPreferences, p)
}

func (s *Service) emit(event string, data any) {
	if s.notify != nil {
		s.notify(event, data)
	}
}
