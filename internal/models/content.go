// Package models defines the domain types for Sowilo.
package models

import "time"

// ContentKind distinguishes the two catalog item types.
type ContentKind string

// Content kinds.
const (
	KindArticle ContentKind = "article"
	KindConcept ContentKind = "concept"
)

// Valid reports whether k is a known content kind.
func (k ContentKind) Valid() bool {
	return k == KindArticle || k == KindConcept
}

// ContentItem represents one catalog entry parsed from a Markdown content file.
// Items are owned by the content pipeline and read-only at runtime.
type ContentItem struct {
	Slug        string      `json:"slug"`
	Kind        ContentKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	Level       string      `json:"level,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Order       int         `json:"order"`
	Checksum    string      `json:"checksum"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PathStep is one ordered step of a learning path. Step order is load-bearing:
// NextStep returns the first unsatisfied step in definition order.
type PathStep struct {
	Type  ContentKind `yaml:"type" json:"type"`
	Slug  string      `yaml:"slug" json:"slug"`
	Title string      `yaml:"title" json:"title"`
}

// LearningPath is an immutable path definition loaded from YAML.
type LearningPath struct {
	ID            string     `yaml:"id" json:"id"`
	Title         string     `yaml:"title" json:"title"`
	Level         string     `yaml:"level" json:"level,omitempty"`
	EstimatedTime string     `yaml:"estimated_time" json:"estimated_time,omitempty"`
	Steps         []PathStep `yaml:"steps" json:"steps"`
	Prerequisites []string   `yaml:"prerequisites" json:"prerequisites,omitempty"`
}

// FavoriteType distinguishes favorited posts from favorited concepts.
type FavoriteType string

// Favorite types.
const (
	FavoritePost    FavoriteType = "post"
	FavoriteConcept FavoriteType = "concept"
)

// Valid reports whether t is a known favorite type.
func (t FavoriteType) Valid() bool {
	return t == FavoritePost || t == FavoriteConcept
}

// Favorite is one bookmarked content item. At most one entry exists per slug.
type Favorite struct {
	Slug    string       `json:"slug"`
	Type    FavoriteType `json:"type"`
	AddedAt time.Time    `json:"added_at"`
}

// Preferences holds persisted display preferences. No derived logic reads
// these; they never affect gamification semantics.
type Preferences struct {
	FontScale string `json:"font_scale,omitempty"`
	Contrast  string `json:"contrast,omitempty"`
	Platform  string `json:"platform,omitempty"`
}
