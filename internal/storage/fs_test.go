package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func newFS(t *testing.T) (*FS, string) {
	t.Helper()
	root := t.TempDir()
	f, err := NewFS(root)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f, root
}

func write(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFS_MissingRoot(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestList_OnlyMarkdown(t *testing.T) {
	f, root := newFS(t)
	write(t, root, "posts/a.md", "# A\n")
	write(t, root, "posts/b.md", "# B\n")
	write(t, root, "posts/ignore.txt", "nope")

	metas, err := f.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2", len(metas))
	}
	for _, m := range metas {
		if m.Path != "posts/a.md" && m.Path != "posts/b.md" {
			t.Errorf("unexpected path %q", m.Path)
		}
		if m.Checksum == "" {
			t.Errorf("missing checksum for %q", m.Path)
		}
	}
}

func TestList_ForwardSlashes(t *testing.T) {
	f, root := newFS(t)
	write(t, root, "a/b/c.md", "# C\n")

	metas, err := f.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 1 || metas[0].Path != "a/b/c.md" {
		t.Errorf("path = %v, want forward-slash a/b/c.md", metas)
	}
}

func TestRead(t *testing.T) {
	f, root := newFS(t)
	write(t, root, "posts/a.md", "# A\nBody.\n")

	data, err := f.Read("posts/a.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "# A\nBody.\n" {
		t.Errorf("data = %q", data)
	}
}

func TestRead_TraversalRejected(t *testing.T) {
	f, _ := newFS(t)
	if _, err := f.Read("../outside.md"); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := f.Read("/etc/passwd"); err == nil {
		t.Fatal("expected absolute path rejection")
	}
}

func TestChecksum_ChangesWithContent(t *testing.T) {
	f, root := newFS(t)
	write(t, root, "a.md", "one\n")
	before, _ := f.List("")

	write(t, root, "a.md", "two\n")
	after, _ := f.List("")

	if before[0].Checksum == after[0].Checksum {
		t.Error("checksum unchanged after content change")
	}
}
