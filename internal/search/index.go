// Package search provides the in-memory weighted fuzzy index over catalog
// content, plus the recent-searches list and a bounded result cursor.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/starford/sowilo/internal/models"
)

// PageSize is the fixed maximum number of results per query.
const PageSize = 10

// Field weights. Title matches dominate so a title hit always outranks a
// description hit of comparable quality.
const (
	weightTitle = 3.0
	weightMeta  = 2.0 // tags for articles, level for concepts
	weightDesc  = 1.5
)

// Result is one ranked search hit. Score is ascending-better: lower means a
// stronger match.
type Result struct {
	Slug        string             `json:"slug"`
	Kind        models.ContentKind `json:"kind"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Score       float64            `json:"score"`
}

// Filters narrow a query. Zero values mean "no filter". Level applies to
// concepts, Category to articles; both are applied after matching, not baked
// into the index.
type Filters struct {
	Kind     models.ContentKind
	Level    string
	Category string
}

type doc struct {
	item  models.ContentItem
	title string
	meta  string
	desc  string
}

// Index holds one weighted fuzzy sub-index per content kind. Building is
// pure over a catalog snapshot; Rebuild swaps the snapshot when the watcher
// reports content changes.
type Index struct {
	mu       sync.RWMutex
	articles []doc
	concepts []doc
}

// NewIndex builds an index from a catalog snapshot (catalog order preserved
// as the ranking tie-break).
func NewIndex(items []models.ContentItem) *Index {
	ix := &Index{}
	ix.Rebuild(items)
	return ix
}

// Rebuild replaces the indexed snapshot.
func (ix *Index) Rebuild(items []models.ContentItem) {
	var articles, concepts []doc
	for _, item := range items {
		d := doc{
			item:  item,
			title: item.Title,
			desc:  item.Description,
		}
		switch item.Kind {
		case models.KindArticle:
			d.meta = strings.Join(item.Tags, " ")
			articles = append(articles, d)
		case models.KindConcept:
			d.meta = item.Level
			concepts = append(concepts, d)
		}
	}

	ix.mu.Lock()
	ix.articles = articles
	ix.concepts = concepts
	ix.mu.Unlock()
}

// Query returns up to PageSize hits ranked ascending by score. An empty (or
// whitespace-only) query returns no results — callers special-case it for a
// distinct UI state, so it must not be conflated with "no matches".
func (ix *Index) Query(q string, f Filters) []Result {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []Result
	if f.Kind == "" || f.Kind == models.KindArticle {
		out = append(out, matchDocs(q, ix.articles, func(item models.ContentItem) bool {
			return f.Category == "" || item.Category == f.Category
		})...)
	}
	if f.Kind == "" || f.Kind == models.KindConcept {
		out = append(out, matchDocs(q, ix.concepts, func(item models.ContentItem) bool {
			return f.Level == "" || item.Level == f.Level
		})...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	if len(out) > PageSize {
		out = out[:PageSize]
	}
	return out
}

// matchDocs fuzzy-matches the query against every weighted field of every
// doc and keeps the best weighted score per doc. keep filters hits after
// matching.
func matchDocs(q string, docs []doc, keep func(models.ContentItem) bool) []Result {
	best := make(map[int]float64)

	accumulate := func(values []string, weight float64) {
		for _, m := range fuzzy.Find(q, values) {
			score := float64(m.Score) * weight
			if cur, ok := best[m.Index]; !ok || score > cur {
				best[m.Index] = score
			}
		}
	}

	accumulate(field(docs, func(d doc) string { return d.title }), weightTitle)
	accumulate(field(docs, func(d doc) string { return d.meta }), weightMeta)
	accumulate(field(docs, func(d doc) string { return d.desc }), weightDesc)

	var out []Result
	for i, d := range docs { // doc order keeps ties in catalog order
		score, ok := best[i]
		if !ok || !keep(d.item) {
			continue
		}
		out = append(out, Result{
			Slug:        d.item.Slug,
			Kind:        d.item.Kind,
			Title:       d.item.Title,
			Description: d.item.Description,
			// The matcher scores higher-is-better; negate so lower is better.
			Score: -score,
		})
	}
	return out
}

func field(docs []doc, get func(doc) string) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = get(d)
	}
	return out
}
