package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/libris/internal/checksum"
	"github.com/starford/libris/internal/models"
)

var sourceExts = map[string]bool{".txt": true, ".csv": true}

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the data directory; empty means unrestricted
}

// NewFS creates a provider rooted at dir. The directory must exist.
// An empty dir yields an unrestricted provider that resolves names against
// the working directory, which is what the command line uses.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		return &FS{}, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute data directory, or "" when unrestricted.
func (f *FS) Root() string {
	return f.root
}

// Resolve maps name to an absolute path, rejecting any result that escapes
// the root.
func (f *FS) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: empty source name")
	}
	if f.root == "" {
		return filepath.Abs(name)
	}
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", name)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes data dir: %s", name)
	}
	return abs, nil
}

// Open opens the named source for reading.
func (f *FS) Open(name string) (io.ReadCloser, error) {
	abs, err := f.Resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", name, err)
	}
	return file, nil
}

// List walks the root and returns metadata for every catalog file.
// An unrestricted provider has nothing to list.
func (f *FS) List() ([]models.SourceInfo, error) {
	if f.root == "" {
		return []models.SourceInfo{}, nil
	}
	out := []models.SourceInfo{}
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !sourceExts[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		sum, err := checksum.File(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, models.SourceInfo{
			Name:      filepath.ToSlash(rel),
			Size:      info.Size(),
			Checksum:  sum,
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}
