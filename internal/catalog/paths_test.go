package catalog

import (
	"path/filepath"
	"testing"
)

const validPathYAML = `id: go-basics
title: Go Basics
level: beginner
estimated_time: 4h
steps:
  - type: article
    slug: posts/why-go
    title: Why Go
  - type: concept
    slug: concepts/goroutines
    title: Goroutines
prerequisites: []
`

func TestLoadPaths_MissingDirIsEmpty(t *testing.T) {
	paths, err := LoadPaths(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("LoadPaths: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("paths = %v, want empty", paths)
	}
}

func TestLoadPaths_ParsesAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zz.yaml", validPathYAML)
	writeFile(t, dir, "aa.yml", "id: advanced\ntitle: Advanced\nsteps:\n  - type: concept\n    slug: concepts/x\nprerequisites:\n  - go-basics\n")
	writeFile(t, dir, "notes.txt", "ignored")

	paths, err := LoadPaths(dir)
	if err != nil {
		t.Fatalf("LoadPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("len = %d, want 2", len(paths))
	}
	// Sorted by id, not filename.
	if paths[0].ID != "advanced" || paths[1].ID != "go-basics" {
		t.Errorf("ids = [%s %s], want [advanced go-basics]", paths[0].ID, paths[1].ID)
	}
	if len(paths[1].Steps) != 2 || paths[1].Steps[0].Slug != "posts/why-go" {
		t.Errorf("steps = %v", paths[1].Steps)
	}
	if len(paths[0].Prerequisites) != 1 || paths[0].Prerequisites[0] != "go-basics" {
		t.Errorf("prerequisites = %v", paths[0].Prerequisites)
	}
}

func TestLoadPaths_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.yaml", validPathYAML)
	writeFile(t, dir, "two.yaml", validPathYAML)

	if _, err := LoadPaths(dir); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadPaths_InvalidStepType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "id: x\ntitle: X\nsteps:\n  - type: quiz\n    slug: s\n")

	if _, err := LoadPaths(dir); err == nil {
		t.Fatal("expected invalid step type error")
	}
}

func TestLoadPaths_MissingID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "title: No ID\n")

	if _, err := LoadPaths(dir); err == nil {
		t.Fatal("expected missing id error")
	}
}
