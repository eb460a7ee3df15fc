package catalog

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sowilo-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func item(slug string, kind models.ContentKind, title string, order int) models.ContentItem {
	return models.ContentItem{
		Slug: slug, Kind: kind, Title: title, Order: order,
		Checksum: "cs-" + slug, UpdatedAt: time.Now(),
	}
}

func TestUpsertGetItem(t *testing.T) {
	db := testDB(t)

	in := item("concepts/goroutines", models.KindConcept, "Goroutines", 1)
	in.Level = "beginner"
	in.Tags = []string{"go", "concurrency"}
	if err := db.UpsertItem(in); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	got, err := db.GetItem("concepts/goroutines")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Title != "Goroutines" || got.Kind != models.KindConcept || got.Level != "beginner" {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Errorf("tags = %v", got.Tags)
	}

	// Upsert replaces.
	in.Title = "Goroutines v2"
	if err := db.UpsertItem(in); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	got, err = db.GetItem("concepts/goroutines")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Goroutines v2" {
		t.Errorf("title = %q after upsert", got.Title)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetItem("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteItem(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertItem(item("a", models.KindArticle, "A", 0)); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteItem("a"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := db.GetItem("a"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestListItems_KindFilterAndOrder(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem(item("b", models.KindArticle, "B", 2))
	_ = db.UpsertItem(item("a", models.KindArticle, "A", 1))
	_ = db.UpsertItem(item("c", models.KindConcept, "C", 0))

	items, total, err := db.ListItems(models.KindArticle, "", 0, 0, "")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d, len = %d, want 2/2", total, len(items))
	}
	if items[0].Slug != "a" || items[1].Slug != "b" {
		t.Errorf("order = [%s %s], want [a b]", items[0].Slug, items[1].Slug)
	}
}

func TestListItems_TagFilter(t *testing.T) {
	db := testDB(t)
	tagged := item("a", models.KindArticle, "A", 0)
	tagged.Tags = []string{"go"}
	_ = db.UpsertItem(tagged)
	_ = db.UpsertItem(item("b", models.KindArticle, "B", 1))

	items, total, err := db.ListItems("", "go", 0, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(items) != 1 || items[0].Slug != "a" {
		t.Errorf("items = %v, total = %d, want only a", items, total)
	}
}

func TestListItems_Pagination(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 5; i++ {
		_ = db.UpsertItem(item(fmt.Sprintf("i%d", i), models.KindArticle, "T", i))
	}

	items, total, err := db.ListItems("", "", 2, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 2 || items[0].Slug != "i2" {
		t.Errorf("page = %v, want [i2 i3]", items)
	}
}

func TestCountByKind(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem(item("a", models.KindArticle, "A", 0))
	_ = db.UpsertItem(item("x", models.KindConcept, "X", 0))
	_ = db.UpsertItem(item("y", models.KindConcept, "Y", 1))

	n, err := db.CountByKind(models.KindConcept)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountByKind(concept) = %d, want 2", n)
	}
}

func TestSnapshot_CatalogOrder(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem(item("z", models.KindArticle, "Z", 0))
	_ = db.UpsertItem(item("a", models.KindConcept, "A", 1))

	items, err := db.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Slug != "z" || items[1].Slug != "a" {
		t.Errorf("snapshot = %v, want ord-major order [z a]", items)
	}
}

func TestSlugFromPath(t *testing.T) {
	if got := SlugFromPath("concepts/goroutines.md"); got != "concepts/goroutines" {
		t.Errorf("SlugFromPath = %q", got)
	}
}
