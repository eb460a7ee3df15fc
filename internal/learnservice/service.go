// Package learnservice coordinates the catalog, gamification engine, user
// data, and path progress behind one service the API and MCP layers call.
package learnservice

import (
	"context"
	"fmt"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/catalog"
	"github.com/starford/sowilo/internal/gamify"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/progress"
	"github.com/starford/sowilo/internal/userdata"
)

// Service is the application-facing learning surface.
type Service struct {
	registry catalog.Registry
	engine   *gamify.Engine
	user     *userdata.Service
	paths    map[string]models.LearningPath
	pathList []models.LearningPath // definition order for listing
}

// New creates the service. Path definitions are immutable for the process
// lifetime.
func New(registry catalog.Registry, engine *gamify.Engine, user *userdata.Service, paths []models.LearningPath) *Service {
	byID := make(map[string]models.LearningPath, len(paths))
	for _, p := range paths {
		byID[p.ID] = p
	}
	return &Service{
		registry: registry,
		engine:   engine,
		user:     user,
		paths:    byID,
		pathList: paths,
	}
}

// --- content ---

// GetContent returns one catalog item.
func (s *Service) GetContent(_ context.Context, slug string) (*models.ContentItem, error) {
	return s.registry.GetItem(slug)
}

// ListContent returns catalog items with optional kind/tag filters.
func (s *Service) ListContent(_ context.Context, kind models.ContentKind, tag string, limit, offset int, sort string) ([]models.ContentItem, int, error) {
	return s.registry.ListItems(kind, tag, limit, offset, sort)
}

// --- activity recording ---

// RecordArticleRead records an article-read activity for a known article slug.
func (s *Service) RecordArticleRead(_ context.Context, slug string) error {
	if err := s.requireKind(slug, models.KindArticle); err != nil {
		return err
	}
	if err := s.engine.Record(gamify.Activity{Kind: gamify.ArticleRead, Slug: slug}); err != nil {
		return err
	}
	return s.checkPathCompletions()
}

// RecordConceptMastered records a concept-mastered activity, supplying the
// catalog's current concept count as TotalConcepts.
func (s *Service) RecordConceptMastered(_ context.Context, slug string) error {
	if err := s.requireKind(slug, models.KindConcept); err != nil {
		return err
	}
	total, err := s.registry.CountByKind(models.KindConcept)
	if err != nil {
		return err
	}
	if err := s.engine.Record(gamify.Activity{Kind: gamify.ConceptMastered, Slug: slug, TotalConcepts: total}); err != nil {
		return err
	}
	return s.checkPathCompletions()
}

// RecordPathCompleted records a path completion for a known path id.
func (s *Service) RecordPathCompleted(_ context.Context, id string) error {
	if _, ok := s.paths[id]; !ok {
		return apperr.ErrNotFound
	}
	return s.engine.Record(gamify.Activity{Kind: gamify.PathCompleted, Slug: id})
}

// --- completions ---

// MarkCompleted marks a concept as mastered: it enters the completion set
// and the mastery activity is recorded (idempotently) in the same call.
func (s *Service) MarkCompleted(ctx context.Context, slug string) error {
	if err := s.requireKind(slug, models.KindConcept); err != nil {
		return err
	}
	if _, err := s.user.MarkCompleted(slug); err != nil {
		return err
	}
	return s.RecordConceptMastered(ctx, slug)
}

// MarkIncomplete removes a concept from the completion set. The gamification
// ledger is monotonic and stays untouched.
func (s *Service) MarkIncomplete(_ context.Context, slug string) error {
	_, err := s.user.MarkIncomplete(slug)
	return err
}

// Completions returns the completed concept slugs in insertion order.
func (s *Service) Completions(_ context.Context) []string {
	return s.user.Completions()
}

// --- favorites & preferences ---

// AddFavorite bookmarks a known slug.
func (s *Service) AddFavorite(_ context.Context, slug string, typ models.FavoriteType) error {
	if !typ.Valid() {
		return fmt.Errorf("learnservice: invalid favorite type %q", typ)
	}
	if _, err := s.registry.GetItem(slug); err != nil {
		return err
	}
	_, err := s.user.AddFavorite(slug, typ)
	return err
}

// RemoveFavorite removes a bookmark.
func (s *Service) RemoveFavorite(_ context.Context, slug string) error {
	_, err := s.user.RemoveFavorite(slug)
	return err
}

// Favorites lists bookmarks in the requested order.
func (s *Service) Favorites(_ context.Context, order string) []models.Favorite {
	return s.user.Favorites(order)
}

// Preferences returns the persisted display preferences.
func (s *Service) Preferences(_ context.Context) models.Preferences {
	return s.user.Preferences()
}

// SetPreferences overwrites the display preferences.
func (s *Service) SetPreferences(_ context.Context, p models.Preferences) error {
	return s.user.SetPreferences(p)
}

// --- gamification reads ---

// Stats returns a copy of the current ledger.
func (s *Service) Stats(_ context.Context) gamify.Stats {
	return s.engine.Stats()
}

// LevelProgress derives the level state from current XP.
func (s *Service) LevelProgress(_ context.Context) gamify.Progress {
	return s.engine.LevelProgress()
}

// Badges returns unlocked badges in unlock order.
func (s *Service) Badges(_ context.Context) []gamify.Badge {
	return s.engine.UnlockedBadges()
}

// TakeNewBadges drains the newly-unlocked badge queue.
func (s *Service) TakeNewBadges(_ context.Context) []gamify.Badge {
	return s.engine.TakeNewBadges()
}

// --- learning paths ---

// Paths lists every path definition.
func (s *Service) Paths(_ context.Context) []models.LearningPath {
	return s.pathList
}

// Path returns one path definition.
func (s *Service) Path(_ context.Context, id string) (models.LearningPath, error) {
	p, ok := s.paths[id]
	if !ok {
		return models.LearningPath{}, apperr.ErrNotFound
	}
	return p, nil
}

// PathProgress derives the completion state of one path.
func (s *Service) PathProgress(_ context.Context, id string) (progress.Result, error) {
	p, ok := s.paths[id]
	if !ok {
		return progress.Result{}, apperr.ErrNotFound
	}
	concepts, articles := s.progressSets()
	return progress.Calculate(p, concepts, articles), nil
}

// PathNextStep returns the first unsatisfied step, or nil when the path is
// complete.
func (s *Service) PathNextStep(_ context.Context, id string) (*models.PathStep, error) {
	p, ok := s.paths[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	concepts, articles := s.progressSets()
	return progress.NextStep(p, concepts, articles), nil
}

// PathPrerequisitesMet reports whether every prerequisite path is complete.
func (s *Service) PathPrerequisitesMet(_ context.Context, id string) (bool, error) {
	if _, ok := s.paths[id]; !ok {
		return false, apperr.ErrNotFound
	}
	concepts, articles := s.progressSets()
	return progress.PrerequisitesMet(id, s.paths, concepts, articles), nil
}

// checkPathCompletions records a path-completed activity for every path that
// just reached 100%. The engine's idempotent recording guarantees at most
// one completion per path id no matter how often this runs.
func (s *Service) checkPathCompletions() error {
	stats := s.engine.Stats()
	concepts, articles := s.progressSets()

	for _, p := range s.pathList {
		if stats.HasRecorded(gamify.PathCompleted, p.ID) {
			continue
		}
		if !progress.Calculate(p, concepts, articles).IsComplete {
			continue
		}
		if err := s.engine.Record(gamify.Activity{Kind: gamify.PathCompleted, Slug: p.ID}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) progressSets() (concepts, articles progress.Set) {
	stats := s.engine.Stats()
	return progress.NewSet(s.user.Completions()...), progress.NewSet(stats.ArticlesReadSlugs...)
}

func (s *Service) requireKind(slug string, kind models.ContentKind) error {
	item, err := s.registry.GetItem(slug)
	if err != nil {
		return err
	}
	if item.Kind != kind {
		return apperr.ErrNotFound
	}
	return nil
}
