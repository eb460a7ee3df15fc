package api

import (
	"github.com/starford/sowilo/internal/gamify"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/search"
)

// RecordActivityRequest is the request body for the activity endpoints.
type RecordActivityRequest struct {
	Slug   string `json:"slug" example:"concepts/goroutines"`
	PathID string `json:"path_id" example:"go-basics"`
}

// SelectSearchRequest is the request body recording a selected search query.
type SelectSearchRequest struct {
	Query string `json:"query" example:"goroutines" validate:"required"`
}

// AddFavoriteRequest is the request body for adding a bookmark.
type AddFavoriteRequest struct {
	Slug string `json:"slug" example:"posts/intro" validate:"required"`
	Type string `json:"type" example:"post" validate:"required"`
}

// ContentListResponse wraps paginated catalog listings.
type ContentListResponse struct {
	Items []models.ContentItem `json:"items" validate:"required"`
	Total int                  `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Results []search.Result `json:"results" validate:"required"`
}

// RecentSearchesResponse wraps the recent-search queries.
type RecentSearchesResponse struct {
	Queries []string `json:"queries" validate:"required"`
}

// BadgesResponse wraps unlocked badges.
type BadgesResponse struct {
	Badges []gamify.Badge `json:"badges" validate:"required"`
}

// PathListResponse wraps learning-path definitions.
type PathListResponse struct {
	Paths []models.LearningPath `json:"paths" validate:"required"`
}

// PathProgressResponse is the derived progress of one path.
type PathProgressResponse struct {
	Completed        int  `json:"completed" example:"2"`
	Total            int  `json:"total" example:"3"`
	Percentage       int  `json:"percentage" example:"67"`
	IsComplete       bool `json:"is_complete"`
	PrerequisitesMet bool `json:"prerequisites_met"`
}

// CompletionsResponse wraps the completed concept slugs.
type CompletionsResponse struct {
	Slugs []string `json:"slugs" validate:"required"`
}

// FavoritesResponse wraps bookmarks.
type FavoritesResponse struct {
	Favorites []models.Favorite `json:"favorites" validate:"required"`
}

// TimerResponse is the focus timer snapshot with remaining time in seconds.
type TimerResponse struct {
	Phase            string `json:"phase" example:"work"`
	RemainingSeconds int    `json:"remaining_seconds" example:"1500"`
	Running          bool   `json:"running"`
	Sessions         int    `json:"sessions" example:"3"`
}
