package learnservice

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/gamify"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/statestore"
	"github.com/starford/sowilo/internal/userdata"
)

// fakeRegistry is an in-memory catalog.Registry.
type fakeRegistry struct {
	items map[string]models.ContentItem
}

func (f *fakeRegistry) GetItem(slug string) (*models.ContentItem, error) {
	item, ok := f.items[slug]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &item, nil
}

func (f *fakeRegistry) ListItems(kind models.ContentKind, _ string, _, _ int, _ string) ([]models.ContentItem, int, error) {
	var out []models.ContentItem
	for _, item := range f.items {
		if kind == "" || item.Kind == kind {
			out = append(out, item)
		}
	}
	return out, len(out), nil
}

func (f *fakeRegistry) CountByKind(kind models.ContentKind) (int, error) {
	n := 0
	for _, item := range f.items {
		if item.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (f *fakeRegistry) Snapshot() ([]models.ContentItem, error) {
	return nil, nil
}

func testService(t *testing.T, paths []models.LearningPath) *Service {
	t.Helper()

	store, err := statestore.New(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatal(err)
	}

	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	engine := gamify.NewEngine(store, gamify.WithClock(func() time.Time { return noon }))
	if err := engine.Load(); err != nil {
		t.Fatal(err)
	}
	user := userdata.New(store)
	if err := user.Load(); err != nil {
		t.Fatal(err)
	}

	reg := &fakeRegistry{items: map[string]models.ContentItem{
		"posts/intro":         {Slug: "posts/intro", Kind: models.KindArticle, Title: "Intro"},
		"posts/advanced":      {Slug: "posts/advanced", Kind: models.KindArticle, Title: "Advanced"},
		"concepts/goroutines": {Slug: "concepts/goroutines", Kind: models.KindConcept, Title: "Goroutines"},
		"concepts/channels":   {Slug: "concepts/channels", Kind: models.KindConcept, Title: "Channels"},
	}}

	return New(reg, engine, user, paths)
}

func TestRecordArticleRead_KindChecked(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	if err := svc.RecordArticleRead(ctx, "concepts/goroutines"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("recording a concept as article: err = %v, want ErrNotFound", err)
	}
	if err := svc.RecordArticleRead(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown slug: err = %v, want ErrNotFound", err)
	}
	if err := svc.RecordArticleRead(ctx, "posts/intro"); err != nil {
		t.Fatalf("RecordArticleRead: %v", err)
	}
	if s := svc.Stats(ctx); s.ArticlesRead != 1 {
		t.Errorf("ArticlesRead = %d, want 1", s.ArticlesRead)
	}
}

func TestRecordConceptMastered_SuppliesTotal(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	if err := svc.RecordConceptMastered(ctx, "concepts/goroutines"); err != nil {
		t.Fatalf("RecordConceptMastered: %v", err)
	}
	s := svc.Stats(ctx)
	if s.ConceptsMastered != 1 {
		t.Errorf("ConceptsMastered = %d, want 1", s.ConceptsMastered)
	}
	if s.TotalConcepts != 2 {
		t.Errorf("TotalConcepts = %d, want 2 from the catalog", s.TotalConcepts)
	}
}

func TestMarkCompleted_RecordsMastery(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	if err := svc.MarkCompleted(ctx, "concepts/goroutines"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	// Idempotent across both the completion set and the ledger.
	if err := svc.MarkCompleted(ctx, "concepts/goroutines"); err != nil {
		t.Fatalf("second MarkCompleted: %v", err)
	}

	got := svc.Completions(ctx)
	if len(got) != 1 || got[0] != "concepts/goroutines" {
		t.Errorf("completions = %v", got)
	}
	if s := svc.Stats(ctx); s.ConceptsMastered != 1 {
		t.Errorf("ConceptsMastered = %d, want 1", s.ConceptsMastered)
	}

	// Articles cannot be marked completed.
	if err := svc.MarkCompleted(ctx, "posts/intro"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("MarkCompleted(article): err = %v, want ErrNotFound", err)
	}
}

func TestMarkIncomplete_LedgerStaysMonotonic(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	_ = svc.MarkCompleted(ctx, "concepts/goroutines")
	before := svc.Stats(ctx)

	if err := svc.MarkIncomplete(ctx, "concepts/goroutines"); err != nil {
		t.Fatalf("MarkIncomplete: %v", err)
	}
	if got := svc.Completions(ctx); len(got) != 0 {
		t.Errorf("completions = %v, want empty", got)
	}
	after := svc.Stats(ctx)
	if after.ConceptsMastered != before.ConceptsMastered || after.TotalXP != before.TotalXP {
		t.Error("gamification ledger changed on MarkIncomplete")
	}
}

func TestPathCompletion_AutoRecorded(t *testing.T) {
	paths := []models.LearningPath{{
		ID:    "go-basics",
		Title: "Go Basics",
		Steps: []models.PathStep{
			{Type: models.KindArticle, Slug: "posts/intro"},
			{Type: models.KindConcept, Slug: "concepts/goroutines"},
		},
	}}
	svc := testService(t, paths)
	ctx := context.Background()

	if err := svc.RecordArticleRead(ctx, "posts/intro"); err != nil {
		t.Fatal(err)
	}
	if s := svc.Stats(ctx); s.PathsCompleted != 0 {
		t.Fatalf("path completed too early")
	}

	if err := svc.MarkCompleted(ctx, "concepts/goroutines"); err != nil {
		t.Fatal(err)
	}
	if s := svc.Stats(ctx); s.PathsCompleted != 1 {
		t.Errorf("PathsCompleted = %d, want 1 after final step", s.PathsCompleted)
	}

	res, err := svc.PathProgress(ctx, "go-basics")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsComplete || res.Percentage != 100 {
		t.Errorf("progress = %+v, want complete", res)
	}
}

func TestPathNextStep(t *testing.T) {
	paths := []models.LearningPath{{
		ID:    "p",
		Title: "P",
		Steps: []models.PathStep{
			{Type: models.KindArticle, Slug: "posts/intro"},
			{Type: models.KindConcept, Slug: "concepts/channels"},
		},
	}}
	svc := testService(t, paths)
	ctx := context.Background()

	step, err := svc.PathNextStep(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if step == nil || step.Slug != "posts/intro" {
		t.Fatalf("next = %v, want posts/intro", step)
	}

	_ = svc.RecordArticleRead(ctx, "posts/intro")
	step, err = svc.PathNextStep(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if step == nil || step.Slug != "concepts/channels" {
		t.Errorf("next = %v, want concepts/channels", step)
	}

	if _, err := svc.PathNextStep(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown path: err = %v, want ErrNotFound", err)
	}
}

func TestAddFavorite_Validated(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	if err := svc.AddFavorite(ctx, "missing", models.FavoritePost); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown slug: err = %v, want ErrNotFound", err)
	}
	if err := svc.AddFavorite(ctx, "posts/intro", "bookmark"); err == nil {
		t.Error("invalid favorite type accepted")
	}
	if err := svc.AddFavorite(ctx, "posts/intro", models.FavoritePost); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if favs := svc.Favorites(ctx, ""); len(favs) != 1 || favs[0].Slug != "posts/intro" {
		t.Errorf("favorites = %v", favs)
	}
}

func TestRecordPathCompleted_UnknownID(t *testing.T) {
	svc := testService(t, nil)
	if err := svc.RecordPathCompleted(context.Background(), "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
