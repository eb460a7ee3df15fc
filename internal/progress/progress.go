// Package progress derives learning-path completion state. Everything here
// is a pure function of (path definition, completed-concept set, read-article
// set) — no owned state, no side effects.
package progress

import (
	"math"

	"github.com/starford/sowilo/internal/models"
)

// Set is a string membership set.
type Set map[string]struct{}

// NewSet builds a Set from the given items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, v := range items {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Result is the derived completion state of one path.
type Result struct {
	Completed  int  `json:"completed"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	IsComplete bool `json:"is_complete"`
}

// Calculate counts satisfied steps. A step referencing an unknown slug simply
// never satisfies its condition; it is never an error. An empty path is 0%.
func Calculate(path models.LearningPath, concepts, articles Set) Result {
	r := Result{Total: len(path.Steps)}
	for _, step := range path.Steps {
		if stepDone(step, concepts, articles) {
			r.Completed++
		}
	}
	if r.Total > 0 {
		r.Percentage = int(math.Round(float64(r.Completed) / float64(r.Total) * 100))
	}
	r.IsComplete = r.Total > 0 && r.Percentage == 100
	return r
}

// NextStep returns the first unsatisfied step in definition order, or nil
// when every step is done. Step order is the canonical "next action" the UI
// surfaces.
func NextStep(path models.LearningPath, concepts, articles Set) *models.PathStep {
	for i := range path.Steps {
		if !stepDone(path.Steps[i], concepts, articles) {
			step := path.Steps[i]
			return &step
		}
	}
	return nil
}

// PrerequisitesMet reports whether every direct prerequisite path of pathID
// is at 100%. Prerequisite lists are a DAG by convention; the check is
// deliberately non-recursive, so no cycle guard is needed. An unknown path
// id, or an unknown prerequisite id, is unmet.
func PrerequisitesMet(pathID string, paths map[string]models.LearningPath, concepts, articles Set) bool {
	path, ok := paths[pathID]
	if !ok {
		return false
	}
	for _, pre := range path.Prerequisites {
		prePath, ok := paths[pre]
		if !ok {
			return false
		}
		if !Calculate(prePath, concepts, articles).IsComplete {
			return false
		}
	}
	return true
}

func stepDone(step models.PathStep, concepts, articles Set) bool {
	switch step.Type {
	case models.KindConcept:
		return concepts.Has(step.Slug)
	case models.KindArticle:
		return articles.Has(step.Slug)
	}
	return false
}
