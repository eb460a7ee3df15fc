package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/sowilo/internal/focus"
	"github.com/starford/sowilo/internal/gamify"
	"github.com/starford/sowilo/internal/learnservice"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/search"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *learnservice.Service
	index  *search.Index
	recent *search.Recent
	timer  *focus.Timer
}

// NewHandler creates a new Handler.
func NewHandler(svc *learnservice.Service, index *search.Index, recent *search.Recent, timer *focus.Timer) *Handler {
	return &Handler{svc: svc, index: index, recent: recent, timer: timer}
}

// wildSlug extracts the content slug from the URL wildcard.
// Supports encoded slashes from OpenAPI clients (e.g. concepts%2Fgoroutines).
func wildSlug(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListContent handles GET /api/content.
//
//	@Summary		List catalog items with optional filtering and pagination
//	@Tags			content
//	@Produce		json
//	@Param			kind	query		string	false	"Filter by kind"	Enums(article, concept)
//	@Param			tag		query		string	false	"Filter by tag"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			sort	query		string	false	"Sort field"	Enums(order, title, updated_at)
//	@Success		200		{object}	ContentListResponse
//	@Security		BearerAuth
//	@Router			/content [get]
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := models.ContentKind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid kind"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListContent(r.Context(), kind, q.Get("tag"), limit, offset, q.Get("sort"))
	if err != nil {
		writeError(w, "list content", err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, ContentListResponse{Items: items, Total: total})
}

// GetContent handles GET /api/content/*.
//
//	@Summary		Get a single catalog item by slug
//	@Tags			content
//	@Produce		json
//	@Param			slug	path		string	true	"Content slug"
//	@Success		200		{object}	models.ContentItem
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/content/{slug} [get]
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	slug := wildSlug(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	item, err := h.svc.GetContent(r.Context(), slug)
	if err != nil {
		writeError(w, "get content", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Search handles GET /api/search.
//
//	@Summary		Fuzzy search across catalog content
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	false	"Search query (empty returns no results)"
//	@Param			kind	query		string	false	"Filter by kind"	Enums(article, concept)
//	@Param			level	query		string	false	"Filter concepts by level"
//	@Param			category	query	string	false	"Filter articles by category"
//	@Success		200		{object}	SearchResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := models.ContentKind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid kind"))
		return
	}
	results := h.index.Query(q.Get("q"), search.Filters{
		Kind:     kind,
		Level:    q.Get("level"),
		Category: q.Get("category"),
	})
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// SelectSearch handles POST /api/search/select. Recording a selection pushes
// the query onto the recent-searches list.
//
//	@Summary		Record that a search result was selected
//	@Tags			search
//	@Accept			json
//	@Param			body	body	SelectSearchRequest	true	"Selected query"
//	@Success		204		"Recorded"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search/select [post]
func (h *Handler) SelectSearch(w http.ResponseWriter, r *http.Request) {
	var req SelectSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query is required"))
		return
	}
	if err := h.recent.Add(req.Query); err != nil {
		writeError(w, "record search selection", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecentSearches handles GET /api/search/recent.
//
//	@Summary		List recent search queries, most recent first
//	@Tags			search
//	@Produce		json
//	@Success		200	{object}	RecentSearchesResponse
//	@Security		BearerAuth
//	@Router			/search/recent [get]
func (h *Handler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	queries := h.recent.List()
	if queries == nil {
		queries = []string{}
	}
	writeJSON(w, http.StatusOK, RecentSearchesResponse{Queries: queries})
}

// Stats handles GET /api/stats.
//
//	@Summary		Get the gamification ledger
//	@Tags			gamification
//	@Produce		json
//	@Success		200	{object}	gamify.Stats
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

// Level handles GET /api/level.
//
//	@Summary		Get level progress derived from total XP
//	@Tags			gamification
//	@Produce		json
//	@Success		200	{object}	gamify.Progress
//	@Security		BearerAuth
//	@Router			/level [get]
func (h *Handler) Level(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.LevelProgress(r.Context()))
}

// Badges handles GET /api/badges. With ?new=true it drains and returns only
// the badges unlocked since the last drain.
//
//	@Summary		List unlocked badges
//	@Tags			gamification
//	@Produce		json
//	@Param			new	query		bool	false	"Return and consume only newly unlocked badges"
//	@Success		200	{object}	BadgesResponse
//	@Security		BearerAuth
//	@Router			/badges [get]
func (h *Handler) Badges(w http.ResponseWriter, r *http.Request) {
	out := h.svc.Badges(r.Context())
	if r.URL.Query().Get("new") == "true" {
		out = h.svc.TakeNewBadges(r.Context())
	}
	if out == nil {
		out = []gamify.Badge{}
	}
	writeJSON(w, http.StatusOK, BadgesResponse{Badges: out})
}

// RecordArticle handles POST /api/activities/article.
//
//	@Summary		Record an article read
//	@Tags			activities
//	@Accept			json
//	@Param			body	body	RecordActivityRequest	true	"Article slug"
//	@Success		204		"Recorded"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activities/article [post]
func (h *Handler) RecordArticle(w http.ResponseWriter, r *http.Request) {
	slug, ok := decodeSlug(w, r)
	if !ok {
		return
	}
	if err := h.svc.RecordArticleRead(r.Context(), slug); err != nil {
		writeError(w, "record article read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordConcept handles POST /api/activities/concept.
//
//	@Summary		Record a concept mastered
//	@Tags			activities
//	@Accept			json
//	@Param			body	body	RecordActivityRequest	true	"Concept slug"
//	@Success		204		"Recorded"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activities/concept [post]
func (h *Handler) RecordConcept(w http.ResponseWriter, r *http.Request) {
	slug, ok := decodeSlug(w, r)
	if !ok {
		return
	}
	if err := h.svc.RecordConceptMastered(r.Context(), slug); err != nil {
		writeError(w, "record concept mastered", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordPath handles POST /api/activities/path.
//
//	@Summary		Record a learning path completion
//	@Tags			activities
//	@Accept			json
//	@Param			body	body	RecordActivityRequest	true	"Path id"
//	@Success		204		"Recorded"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activities/path [post]
func (h *Handler) RecordPath(w http.ResponseWriter, r *http.Request) {
	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.PathID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path_id is required"))
		return
	}
	if err := h.svc.RecordPathCompleted(r.Context(), req.PathID); err != nil {
		writeError(w, "record path completed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPaths handles GET /api/paths.
//
//	@Summary		List learning path definitions
//	@Tags			paths
//	@Produce		json
//	@Success		200	{object}	PathListResponse
//	@Security		BearerAuth
//	@Router			/paths [get]
func (h *Handler) ListPaths(w http.ResponseWriter, r *http.Request) {
	paths := h.svc.Paths(r.Context())
	if paths == nil {
		paths = []models.LearningPath{}
	}
	writeJSON(w, http.StatusOK, PathListResponse{Paths: paths})
}

// GetPath handles GET /api/paths/{id}.
//
//	@Summary		Get one learning path definition
//	@Tags			paths
//	@Produce		json
//	@Param			id	path		string	true	"Path id"
//	@Success		200	{object}	models.LearningPath
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/paths/{id} [get]
func (h *Handler) GetPath(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Path(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get path", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PathProgress handles GET /api/paths/{id}/progress.
//
//	@Summary		Get derived progress for a learning path
//	@Tags			paths
//	@Produce		json
//	@Param			id	path		string	true	"Path id"
//	@Success		200	{object}	PathProgressResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/paths/{id}/progress [get]
func (h *Handler) PathProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.svc.PathProgress(r.Context(), id)
	if err != nil {
		writeError(w, "path progress", err)
		return
	}
	met, err := h.svc.PathPrerequisitesMet(r.Context(), id)
	if err != nil {
		writeError(w, "path prerequisites", err)
		return
	}
	writeJSON(w, http.StatusOK, PathProgressResponse{
		Completed:        res.Completed,
		Total:            res.Total,
		Percentage:       res.Percentage,
		IsComplete:       res.IsComplete,
		PrerequisitesMet: met,
	})
}

// PathNext handles GET /api/paths/{id}/next.
//
//	@Summary		Get the next unsatisfied step of a learning path
//	@Tags			paths
//	@Produce		json
//	@Param			id	path		string	true	"Path id"
//	@Success		200	{object}	models.PathStep
//	@Success		204	"Path complete"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/paths/{id}/next [get]
func (h *Handler) PathNext(w http.ResponseWriter, r *http.Request) {
	step, err := h.svc.PathNextStep(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "path next step", err)
		return
	}
	if step == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

// Completions handles GET /api/completions.
//
//	@Summary		List completed concept slugs in insertion order
//	@Tags			completions
//	@Produce		json
//	@Success		200	{object}	CompletionsResponse
//	@Security		BearerAuth
//	@Router			/completions [get]
func (h *Handler) Completions(w http.ResponseWriter, r *http.Request) {
	slugs := h.svc.Completions(r.Context())
	if slugs == nil {
		slugs = []string{}
	}
	writeJSON(w, http.StatusOK, CompletionsResponse{Slugs: slugs})
}

// MarkCompleted handles PUT /api/completions/*.
//
//	@Summary		Mark a concept completed (idempotent)
//	@Tags			completions
//	@Param			slug	path	string	true	"Concept slug"
//	@Success		204		"Completed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/completions/{slug} [put]
func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	slug := wildSlug(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	if err := h.svc.MarkCompleted(r.Context(), slug); err != nil {
		writeError(w, "mark completed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkIncomplete handles DELETE /api/completions/*.
//
//	@Summary		Remove a concept from the completion set (idempotent)
//	@Tags			completions
//	@Param			slug	path	string	true	"Concept slug"
//	@Success		204		"Removed"
//	@Security		BearerAuth
//	@Router			/completions/{slug} [delete]
func (h *Handler) MarkIncomplete(w http.ResponseWriter, r *http.Request) {
	slug := wildSlug(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	if err := h.svc.MarkIncomplete(r.Context(), slug); err != nil {
		writeError(w, "mark incomplete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFavorites handles GET /api/favorites.
//
//	@Summary		List bookmarks
//	@Tags			favorites
//	@Produce		json
//	@Param			sort	query		string	false	"Sort order"	Enums(added_asc, added_desc)
//	@Success		200		{object}	FavoritesResponse
//	@Security		BearerAuth
//	@Router			/favorites [get]
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs := h.svc.Favorites(r.Context(), r.URL.Query().Get("sort"))
	if favs == nil {
		favs = []models.Favorite{}
	}
	writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: favs})
}

// AddFavorite handles POST /api/favorites.
//
//	@Summary		Bookmark a content item
//	@Tags			favorites
//	@Accept			json
//	@Param			body	body	AddFavoriteRequest	true	"Bookmark to add"
//	@Success		204		"Added"
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/favorites [post]
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	typ := models.FavoriteType(req.Type)
	if !typ.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid type"))
		return
	}
	if err := h.svc.AddFavorite(r.Context(), req.Slug, typ); err != nil {
		writeError(w, "add favorite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/favorites/*.
//
//	@Summary		Remove a bookmark
//	@Tags			favorites
//	@Param			slug	path	string	true	"Content slug"
//	@Success		204		"Removed"
//	@Security		BearerAuth
//	@Router			/favorites/{slug} [delete]
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	slug := wildSlug(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	if err := h.svc.RemoveFavorite(r.Context(), slug); err != nil {
		writeError(w, "remove favorite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPreferences handles GET /api/preferences.
//
//	@Summary		Get display preferences
//	@Tags			preferences
//	@Produce		json
//	@Success		200	{object}	models.Preferences
//	@Security		BearerAuth
//	@Router			/preferences [get]
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Preferences(r.Context()))
}

// PutPreferences handles PUT /api/preferences.
//
//	@Summary		Replace display preferences
//	@Tags			preferences
//	@Accept			json
//	@Param			body	body	models.Preferences	true	"Preferences"
//	@Success		204		"Saved"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preferences [put]
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SetPreferences(r.Context(), prefs); err != nil {
		writeError(w, "set preferences", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTimer handles GET /api/timer.
//
//	@Summary		Get the focus timer state
//	@Tags			timer
//	@Produce		json
//	@Success		200	{object}	TimerResponse
//	@Security		BearerAuth
//	@Router			/timer [get]
func (h *Handler) GetTimer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, timerResponse(h.timer.State()))
}

// TimerAction handles POST /api/timer/{start|pause|resume|skip}.
//
//	@Summary		Control the focus timer
//	@Tags			timer
//	@Produce		json
//	@Param			action	path		string	true	"Action"	Enums(start, pause, resume, skip)
//	@Success		200		{object}	TimerResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/timer/{action} [post]
func (h *Handler) TimerAction(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "start":
		h.timer.Start()
	case "pause":
		h.timer.Pause()
	case "resume":
		h.timer.Resume()
	case "skip":
		h.timer.Skip()
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown timer action"))
		return
	}
	writeJSON(w, http.StatusOK, timerResponse(h.timer.State()))
}

func timerResponse(s focus.Snapshot) TimerResponse {
	return TimerResponse{
		Phase:            string(s.Phase),
		RemainingSeconds: int(s.Remaining.Seconds()),
		Running:          s.Running,
		Sessions:         s.Sessions,
	}
}

// decodeSlug reads a {slug} JSON body, writing a 400 on failure.
func decodeSlug(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return "", false
	}
	if req.Slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return "", false
	}
	return req.Slug, true
}
