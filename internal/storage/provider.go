// Package storage defines where catalog source files come from.
package storage

import (
	"io"

	"github.com/starford/libris/internal/models"
)

// Provider is the interface for catalog source files.
type Provider interface {
	// Open returns a reader for the named source. The caller must close it.
	Open(name string) (io.ReadCloser, error)
	// List returns metadata for every catalog file (*.txt, *.csv) under the root.
	List() ([]models.SourceInfo, error)
}
