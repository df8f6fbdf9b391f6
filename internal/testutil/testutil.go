// Package testutil provides shared test helpers for catalog files and storage.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/libris/internal/models"
	"github.com/starford/libris/internal/parser"
	"github.com/starford/libris/internal/storage"
)

// Orwell returns the two records used throughout the examples.
func Orwell() []models.Record {
	return []models.Record{
		models.NewRecord("Orwell", "1984", 1949, models.StatusBanned),
		models.NewRecord("Orwell", "Animal Farm", 1945, models.StatusExit),
	}
}

// Lines renders records in catalog file format.
func Lines(records ...models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = parser.FormatLine(r)
	}
	return out
}

// WriteCatalog writes lines (newline-terminated) to dir/name and returns the full path.
func WriteCatalog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestData creates a temporary data directory with a storage provider rooted at it.
func TestData(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}
