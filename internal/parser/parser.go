// Package parser turns one line of a catalog file into a Record.
//
// A line holds exactly four comma-separated fields:
//
//	<author>,<title>,<year>,<status>
//
// Every comma splits, so trailing empty fields count toward the total.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/libris/internal/models"
)

// FieldCount is the number of fields on a well-formed line.
const FieldCount = 4

// Kind classifies why a line was rejected.
type Kind string

// Line rejection kinds.
const (
	KindFormat Kind = "format"
	KindYear   Kind = "year"
	KindStatus Kind = "status"
)

// LineError describes a rejected line. Value holds the offending field as
// written (the whole line for KindFormat).
type LineError struct {
	Kind  Kind
	Value string
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Value)
}

func (e *LineError) Unwrap() error { return e.Err }

// ErrFieldCount is wrapped by KindFormat errors.
var ErrFieldCount = errors.New("wrong field count")

// IsBlank reports whether line contains only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// ParseLine parses a single non-blank line. On failure the returned error is
// a *LineError and no Record is produced.
func ParseLine(line string) (models.Record, error) {
	parts := strings.Split(line, ",")
	if len(parts) != FieldCount {
		return models.Record{}, &LineError{
			Kind:  KindFormat,
			Value: line,
			Err:   fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(parts), FieldCount),
		}
	}

	author := strings.TrimSpace(parts[0])
	title := strings.TrimSpace(parts[1])

	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return models.Record{}, &LineError{Kind: KindYear, Value: parts[2], Err: err}
	}

	status, err := models.ParseStatus(parts[3])
	if err != nil {
		return models.Record{}, &LineError{Kind: KindStatus, Value: parts[3], Err: err}
	}

	return models.NewRecord(author, title, year, status), nil
}

// FormatLine renders r in the catalog file format.
func FormatLine(r models.Record) string {
	return fmt.Sprintf("%s,%s,%d,%s", r.Author, r.Title, r.Year, r.Status.Name())
}
