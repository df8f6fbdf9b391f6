// Package models defines the domain types for Libris.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidStatus is returned when a token does not name a known Status.
var ErrInvalidStatus = errors.New("invalid status")

// Status is the lending state of a book. The set is closed.
type Status int

// Known statuses. The numeric value is the display code.
const (
	StatusBanned   Status = 1
	StatusBorrowed Status = 2
	StatusExit     Status = 3
)

var statusNames = map[Status]string{
	StatusBanned:   "BANNED",
	StatusBorrowed: "BORROWED",
	StatusExit:     "EXIT",
}

// Statuses returns every known status ordered by code.
func Statuses() []Status {
	return []Status{StatusBanned, StatusBorrowed, StatusExit}
}

// Code returns the stable numeric code of s.
func (s Status) Code() int { return int(s) }

// Name returns the upper-case name of s, or an empty string for unknown values.
func (s Status) Name() string { return statusNames[s] }

// Valid reports whether s belongs to the closed set.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// String renders s as NAME(code), e.g. BORROWED(2).
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return fmt.Sprintf("%s(%d)", s.Name(), s.Code())
}

// MarshalText implements encoding.TextMarshaler using the status name.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(s.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseStatus.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus resolves a status name. Matching ignores ASCII case and
// surrounding whitespace.
func ParseStatus(token string) (Status, error) {
	t := strings.TrimSpace(token)
	for _, s := range Statuses() {
		if EqualFoldASCII(t, s.Name()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, token)
}

// Record is one catalog entry. Records are values: the catalog stores and
// returns copies, so a stored Record is never mutated.
type Record struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Status Status `json:"status"`
}

// NewRecord builds a Record from its four attributes.
func NewRecord(author, title string, year int, status Status) Record {
	return Record{Author: author, Title: title, Year: year, Status: status}
}

func (r Record) String() string {
	return fmt.Sprintf("Book{author='%s', title='%s', year=%d, status=%s}", r.Author, r.Title, r.Year, r.Status)
}

// SourceInfo describes a catalog source file available for loading.
type SourceInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EqualFoldASCII reports whether a and b are equal under ASCII case folding.
// Non-ASCII bytes must match exactly.
func EqualFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
