package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/sowilo/internal/focus"
	"github.com/starford/sowilo/internal/learnservice"
	"github.com/starford/sowilo/internal/search"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *learnservice.Service, index *search.Index, recent *search.Recent, timer *focus.Timer, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, index, recent, timer)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Content catalog (read-only).
	r.Get("/content", h.ListContent)
	r.Get("/content/*", h.GetContent)

	// Search.
	r.Get("/search", h.Search)
	r.Post("/search/select", h.SelectSearch)
	r.Get("/search/recent", h.RecentSearches)

	// Gamification.
	r.Get("/stats", h.Stats)
	r.Get("/level", h.Level)
	r.Get("/badges", h.Badges)
	r.Post("/activities/article", h.RecordArticle)
	r.Post("/activities/concept", h.RecordConcept)
	r.Post("/activities/path", h.RecordPath)

	// Learning paths.
	r.Get("/paths", h.ListPaths)
	r.Get("/paths/{id}", h.GetPath)
	r.Get("/paths/{id}/progress", h.PathProgress)
	r.Get("/paths/{id}/next", h.PathNext)

	// Completions.
	r.Get("/completions", h.Completions)
	r.Put("/completions/*", h.MarkCompleted)
	r.Delete("/completions/*", h.MarkIncomplete)

	// Favorites & preferences.
	r.Get("/favorites", h.ListFavorites)
	r.Post("/favorites", h.AddFavorite)
	r.Delete("/favorites/*", h.RemoveFavorite)
	r.Get("/preferences", h.GetPreferences)
	r.Put("/preferences", h.PutPreferences)

	// Focus timer.
	r.Get("/timer", h.GetTimer)
	r.Post("/timer/{action}", h.TimerAction)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
