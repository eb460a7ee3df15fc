package userdata

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/statestore"
)

func newStore(t *testing.T) *statestore.Store {
	t.Helper()
	s, err := statestore.New(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("statestore.New: %v", err)
	}
	return s
}

func newService(t *testing.T, store *statestore.Store, opts ...Option) *Service {
	t.Helper()
	s := New(store, opts...)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestMutationsBeforeLoadRejected(t *testing.T) {
	s := New(newStore(t))
	if _, err := s.MarkCompleted("concepts/a"); !errors.Is(err, apperr.ErrNotLoaded) {
		t.Errorf("MarkCompleted err = %v, want ErrNotLoaded", err)
	}
	if _, err := s.AddFavorite("posts/a", models.FavoritePost); !errors.Is(err, apperr.ErrNotLoaded) {
		t.Errorf("AddFavorite err = %v, want ErrNotLoaded", err)
	}
	if err := s.SetPreferences(models.Preferences{}); !errors.Is(err, apperr.ErrNotLoaded) {
		t.Errorf("SetPreferences err = %v, want ErrNotLoaded", err)
	}
}

func TestMarkCompleted_IdempotentAndOrdered(t *testing.T) {
	s := newService(t, newStore(t))

	for _, slug := range []string{"c/a", "c/b", "c/a"} {
		if _, err := s.MarkCompleted(slug); err != nil {
			t.Fatalf("MarkCompleted(%s): %v", slug, err)
		}
	}

	got := s.Completions()
	if len(got) != 2 || got[0] != "c/a" || got[1] != "c/b" {
		t.Errorf("completions = %v, want [c/a c/b]", got)
	}
	if !s.IsCompleted("c/a") || s.IsCompleted("c/z") {
		t.Error("IsCompleted membership wrong")
	}
}

func TestMarkIncomplete_RemovesAndPersists(t *testing.T) {
	store := newStore(t)
	s := newService(t, store)
	_, _ = s.MarkCompleted("c/a")
	_, _ = s.MarkCompleted("c/b")

	changed, err := s.MarkIncomplete("c/a")
	if err != nil || !changed {
		t.Fatalf("MarkIncomplete = %v, %v", changed, err)
	}
	if changed, _ := s.MarkIncomplete("c/a"); changed {
		t.Error("second MarkIncomplete reported a change")
	}

	s2 := newService(t, store)
	got := s2.Completions()
	if len(got) != 1 || got[0] != "c/b" {
		t.Errorf("completions after reload = %v, want [c/b]", got)
	}
}

func TestAddFavorite_UniquePerSlug(t *testing.T) {
	s := newService(t, newStore(t))

	added, err := s.AddFavorite("posts/a", models.FavoritePost)
	if err != nil || !added {
		t.Fatalf("AddFavorite = %v, %v", added, err)
	}
	// Same slug, different type: still a no-op.
	added, err = s.AddFavorite("posts/a", models.FavoriteConcept)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("duplicate favorite reported as added")
	}
	if favs := s.Favorites(SortInsertion); len(favs) != 1 {
		t.Errorf("favorites = %v, want 1 entry", favs)
	}
}

func TestFavorites_SortOrders(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newService(t, newStore(t), WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))

	_, _ = s.AddFavorite("a", models.FavoritePost)
	_, _ = s.AddFavorite("b", models.FavoritePost)
	_, _ = s.AddFavorite("c", models.FavoriteConcept)

	asc := s.Favorites(SortAddedAsc)
	if asc[0].Slug != "a" || asc[2].Slug != "c" {
		t.Errorf("asc = %v", asc)
	}
	desc := s.Favorites(SortAddedDesc)
	if desc[0].Slug != "c" || desc[2].Slug != "a" {
		t.Errorf("desc = %v", desc)
	}
}

func TestRemoveFavorite(t *testing.T) {
	s := newService(t, newStore(t))
	_, _ = s.AddFavorite("a", models.FavoritePost)

	if changed, _ := s.RemoveFavorite("a"); !changed {
		t.Error("RemoveFavorite reported no change")
	}
	if changed, _ := s.RemoveFavorite("a"); changed {
		t.Error("second RemoveFavorite reported a change")
	}
}

func TestPreferences_RoundTrip(t *testing.T) {
	store := newStore(t)
	s := newService(t, store)

	want := models.Preferences{FontScale: "large", Contrast: "high", Platform: "linux"}
	if err := s.SetPreferences(want); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}

	s2 := newService(t, store)
	if got := s2.Preferences(); got != want {
		t.Errorf("preferences = %+v, want %+v", got, want)
	}
}

func TestLoad_DedupsPersistedCompletions(t *testing.T) {
	store := newStore(t)
	if err := store.Save(statestore.DocCompletions, []string{"a", "b", "a"}); err != nil {
		t.Fatal(err)
	}

	s := newService(t, store)
	got := s.Completions()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("completions = %v, want deduped [a b]", got)
	}
}
