package progress

import (
	"testing"

	"github.com/starford/sowilo/internal/models"
)

func path(id string, prereqs []string, steps ...models.PathStep) models.LearningPath {
	return models.LearningPath{ID: id, Title: id, Steps: steps, Prerequisites: prereqs}
}

func concept(slug string) models.PathStep {
	return models.PathStep{Type: models.KindConcept, Slug: slug}
}

func article(slug string) models.PathStep {
	return models.PathStep{Type: models.KindArticle, Slug: slug}
}

func TestCalculate_Rounding(t *testing.T) {
	p := path("p", nil, concept("a"), concept("b"), concept("c"))
	r := Calculate(p, NewSet("a", "b"), nil)
	if r.Completed != 2 || r.Total != 3 {
		t.Fatalf("completed/total = %d/%d, want 2/3", r.Completed, r.Total)
	}
	if r.Percentage != 67 {
		t.Errorf("percentage = %d, want 67", r.Percentage)
	}
	if r.IsComplete {
		t.Error("IsComplete = true, want false")
	}
}

func TestCalculate_EmptyPath(t *testing.T) {
	r := Calculate(path("p", nil), NewSet("a"), nil)
	if r.Percentage != 0 || r.IsComplete {
		t.Errorf("empty path: %+v, want 0%% and not complete", r)
	}
}

func TestCalculate_MixedStepKinds(t *testing.T) {
	p := path("p", nil, article("posts/x"), concept("concepts/y"))
	r := Calculate(p, NewSet("concepts/y"), NewSet("posts/x"))
	if !r.IsComplete || r.Percentage != 100 {
		t.Errorf("got %+v, want complete", r)
	}
}

func TestCalculate_UnknownSlugNeverCompletes(t *testing.T) {
	p := path("p", nil, concept("missing"))
	r := Calculate(p, NewSet("other"), nil)
	if r.Completed != 0 {
		t.Errorf("completed = %d, want 0 for unknown slug", r.Completed)
	}
}

func TestNextStep_FirstUnsatisfiedInOrder(t *testing.T) {
	p := path("p", nil, concept("a"), concept("b"), concept("c"))
	step := NextStep(p, NewSet("a"), nil)
	if step == nil || step.Slug != "b" {
		t.Fatalf("next = %v, want b", step)
	}
}

func TestNextStep_NilWhenComplete(t *testing.T) {
	p := path("p", nil, concept("a"))
	if step := NextStep(p, NewSet("a"), nil); step != nil {
		t.Errorf("next = %v, want nil", step)
	}
}

func TestPrerequisitesMet_NoPrereqs(t *testing.T) {
	paths := map[string]models.LearningPath{"p": path("p", nil, concept("a"))}
	if !PrerequisitesMet("p", paths, nil, nil) {
		t.Error("path without prerequisites should be met")
	}
}

func TestPrerequisitesMet_DirectOnly(t *testing.T) {
	// c requires b, b requires a. b is complete, a is not: c's direct
	// prerequisite check passes regardless of a.
	paths := map[string]models.LearningPath{
		"a": path("a", nil, concept("a1")),
		"b": path("b", []string{"a"}, concept("b1")),
		"c": path("c", []string{"b"}, concept("c1")),
	}
	done := NewSet("b1")
	if !PrerequisitesMet("c", paths, done, nil) {
		t.Error("c should be met: its direct prerequisite b is complete")
	}
	if PrerequisitesMet("b", paths, done, nil) {
		t.Error("b should be unmet: a is incomplete")
	}
}

func TestPrerequisitesMet_UnknownIDs(t *testing.T) {
	paths := map[string]models.LearningPath{
		"p": path("p", []string{"ghost"}, concept("a")),
	}
	if PrerequisitesMet("p", paths, NewSet("a"), nil) {
		t.Error("unknown prerequisite id should be unmet")
	}
	if PrerequisitesMet("nope", paths, nil, nil) {
		t.Error("unknown path id should be unmet")
	}
}
