// Package ingest bulk-loads catalog files into a record sink.
//
// Each line is handled on its own: blank lines are skipped, malformed lines
// are reported as diagnostics and skipped, well-formed lines are inserted in
// file order. Only failure to read the source aborts a load.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/libris/internal/models"
	"github.com/starford/libris/internal/parser"
)

// ErrUnreadableSource wraps any failure to open or read a source.
var ErrUnreadableSource = errors.New("unreadable source")

const bom = "\uFEFF"

// Inserter receives successfully parsed records.
type Inserter interface {
	Insert(models.Record)
}

// Opener opens named sources. storage.Provider satisfies it.
type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

// Diagnostic describes one skipped line.
type Diagnostic struct {
	Line    int         `json:"line"`
	Kind    parser.Kind `json:"kind"`
	Message string      `json:"message"`
	Text    string      `json:"text"`
}

// Report summarizes one load.
type Report struct {
	ID          string       `json:"id"`
	Source      string       `json:"source,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Lines       int          `json:"lines"`
	Loaded      int          `json:"loaded"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Skipped returns the number of rejected lines.
func (r *Report) Skipped() int {
	return len(r.Diagnostics)
}

// Summary renders the one-line outcome of the load.
func (r *Report) Summary() string {
	from := ""
	if r.Source != "" {
		from = " from " + r.Source
	}
	return fmt.Sprintf("%d books loaded successfully%s.", r.Loaded, from)
}

// LoadFile opens name through opener and loads it into sink. The source is
// closed before LoadFile returns, whatever the outcome.
func LoadFile(opener Opener, name string, sink Inserter) (*Report, error) {
	rc, err := opener.Open(name)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w: %w", ErrUnreadableSource, err)
	}
	defer rc.Close()

	rep, err := Load(rc, sink)
	if rep != nil {
		rep.Source = name
	}
	return rep, err
}

// Load reads r line by line and inserts every valid record into sink.
// A read error mid-stream returns the partial report together with an error
// wrapping ErrUnreadableSource; records inserted before it stay inserted.
func Load(r io.Reader, sink Inserter) (*Report, error) {
	rep := &Report{
		ID:          uuid.NewString(),
		StartedAt:   time.Now(),
		Diagnostics: []Diagnostic{},
	}
	defer func() { rep.FinishedAt = time.Now() }()

	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return rep, fmt.Errorf("ingest: %w: line %d: %w", ErrUnreadableSource, rep.Lines+1, readErr)
		}
		if line == "" && readErr != nil {
			return rep, nil
		}

		rep.Lines++
		line = strings.TrimRight(line, "\r\n")
		if rep.Lines == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		rep.consume(line, sink)

		if readErr != nil {
			return rep, nil
		}
	}
}

func (r *Report) consume(line string, sink Inserter) {
	if parser.IsBlank(line) {
		return
	}
	rec, err := parser.ParseLine(line)
	if err != nil {
		r.Diagnostics = append(r.Diagnostics, diagnose(r.Lines, line, err))
		return
	}
	sink.Insert(rec)
	r.Loaded++
}

func diagnose(n int, line string, err error) Diagnostic {
	d := Diagnostic{Line: n, Text: line}
	var le *parser.LineError
	if errors.As(err, &le) {
		d.Kind = le.Kind
		d.Message = fmt.Sprintf("invalid %s in line %d: %s", le.Kind, n, le.Value)
		return d
	}
	d.Kind = parser.KindFormat
	d.Message = fmt.Sprintf("invalid format in line %d: %v", n, err)
	return d
}
