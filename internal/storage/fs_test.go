package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func tempData(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenAndRead(t *testing.T) {
	dir, s := tempData(t)
	writeFile(t, filepath.Join(dir, "books.txt"), "A,T,1,EXIT\n")

	rc, err := s.Open("books.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "A,T,1,EXIT\n" {
		t.Errorf("content = %q", got)
	}
}

func TestOpenMissing(t *testing.T) {
	_, s := tempData(t)
	if _, err := s.Open("missing.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestList(t *testing.T) {
	dir, s := tempData(t)
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.CSV"), "b")
	writeFile(t, filepath.Join(dir, "notes.md"), "not a catalog")

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	names := map[string]bool{}
	for _, it := range items {
		names[it.Name] = true
		if it.Checksum == "" {
			t.Errorf("missing checksum for %s", it.Name)
		}
	}
	if !names["a.txt"] || !names["sub/b.CSV"] {
		t.Errorf("names = %v", names)
	}
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempData(t)
	for _, p := range []string{"../../etc/passwd", "../outside.txt", "/etc/shadow", ""} {
		if _, err := s.Open(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
	}
}

func TestUnrestrictedProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.txt")
	writeFile(t, path, "x")

	s, err := NewFS("")
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	rc, err := s.Open(path)
	if err != nil {
		t.Fatalf("Open absolute path: %v", err)
	}
	rc.Close()

	items, err := s.List()
	if err != nil || len(items) != 0 {
		t.Errorf("List = %v, %v; want empty", items, err)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS("/tmp/libris-does-not-exist-" + t.Name()); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "libris-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
