// Package catalog holds the in-memory ordered collection of book records.
//
// Order is insertion order at the tail, changed only by an explicit
// SortByYear. Title lookups resolve to the first match from the head;
// titles are not required to be unique.
//
// A Catalog is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see bookservice).
package catalog

import (
	"cmp"
	"iter"
	"slices"

	"github.com/starford/libris/internal/models"
)

// Catalog is an ordered sequence of records. The zero value is an empty catalog.
type Catalog struct {
	records []models.Record
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Insert appends r as the new tail element.
func (c *Catalog) Insert(r models.Record) {
	c.records = append(c.records, r)
}

// SearchByTitle returns the first record whose title matches under ASCII
// case folding.
func (c *Catalog) SearchByTitle(title string) (models.Record, bool) {
	if i := c.indexOfTitle(title); i >= 0 {
		return c.records[i], true
	}
	return models.Record{}, false
}

// FilterByAuthor returns every record whose author matches under ASCII case
// folding, in catalog order. The result is never nil.
func (c *Catalog) FilterByAuthor(author string) []models.Record {
	out := []models.Record{}
	for _, r := range c.records {
		if models.EqualFoldASCII(r.Author, author) {
			out = append(out, r)
		}
	}
	return out
}

// DeleteByTitle removes the first record whose title matches and reports
// whether anything was removed. At most one record is removed per call.
func (c *Catalog) DeleteByTitle(title string) bool {
	i := c.indexOfTitle(title)
	if i < 0 {
		return false
	}
	c.records = slices.Delete(c.records, i, i+1)
	return true
}

// SortByYear reorders the catalog by non-decreasing year. Records sharing
// a year keep their relative order.
func (c *Catalog) SortByYear() {
	if len(c.records) < 2 {
		return
	}
	slices.SortStableFunc(c.records, func(a, b models.Record) int {
		return cmp.Compare(a.Year, b.Year)
	})
}

// Enumerate returns a copy of the records in current order. ok is false
// when the catalog is empty.
func (c *Catalog) Enumerate() (records []models.Record, ok bool) {
	if len(c.records) == 0 {
		return nil, false
	}
	return slices.Clone(c.records), true
}

// All yields records in current order. The catalog must not be modified
// while iterating.
func (c *Catalog) All() iter.Seq2[int, models.Record] {
	return func(yield func(int, models.Record) bool) {
		for i, r := range c.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

func (c *Catalog) indexOfTitle(title string) int {
	return slices.IndexFunc(c.records, func(r models.Record) bool {
		return models.EqualFoldASCII(r.Title, title)
	})
}
