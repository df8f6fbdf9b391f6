// Package bookservice serializes access to a catalog and announces changes.
//
// The catalog itself is not safe for concurrent use; every collaborator
// that may run concurrently (HTTP handlers, MCP tools, the file watcher)
// goes through a Service, which holds one lock per call.
package bookservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/libris/internal/apperr"
	"github.com/starford/libris/internal/catalog"
	"github.com/starford/libris/internal/ingest"
	"github.com/starford/libris/internal/logging"
	"github.com/starford/libris/internal/models"
	"github.com/starford/libris/internal/storage"
)

// Catalog event kinds passed to a Notifier.
const (
	EventInserted = "inserted"
	EventDeleted  = "deleted"
	EventSorted   = "sorted"
	EventLoaded   = "loaded"
	EventReloaded = "reloaded"
)

// Notifier is told about every catalog mutation. title is empty for
// catalog-wide events.
type Notifier interface {
	PublishCatalogEvent(kind, title string)
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the change notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger used for load reports.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSortOnDisplay makes List sort by year before returning records.
func WithSortOnDisplay(on bool) Option {
	return func(s *Service) { s.sortOnDisplay = on }
}

// Service coordinates catalog, source storage and notifications.
type Service struct {
	mu            sync.Mutex
	cat           *catalog.Catalog
	src           storage.Provider
	notifier      Notifier
	logger        *slog.Logger
	sortOnDisplay bool
}

// NewService wraps cat. The service owns cat from now on: callers must not
// touch it directly. A nil cat starts empty.
func NewService(cat *catalog.Catalog, src storage.Provider, opts ...Option) *Service {
	if cat == nil {
		cat = catalog.New()
	}
	s := &Service{cat: cat, src: src, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends r to the catalog.
func (s *Service) Add(_ context.Context, r models.Record) error {
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, models.ErrInvalidStatus)
	}
	s.mu.Lock()
	s.cat.Insert(r)
	s.mu.Unlock()
	s.notify(EventInserted, r.Title)
	return nil
}

// Get returns the first record with a matching title.
func (s *Service) Get(_ context.Context, title string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.cat.SearchByTitle(title)
	if !ok {
		return models.Record{}, apperr.ErrNotFound
	}
	return r, nil
}

// ByAuthor returns all records by author in catalog order.
func (s *Service) ByAuthor(_ context.Context, author string) []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.FilterByAuthor(author)
}

// Delete removes the first record with a matching title.
func (s *Service) Delete(_ context.Context, title string) error {
	s.mu.Lock()
	ok := s.cat.DeleteByTitle(title)
	s.mu.Unlock()
	if !ok {
		return apperr.ErrNotFound
	}
	s.notify(EventDeleted, title)
	return nil
}

// Sort orders the catalog by publication year.
func (s *Service) Sort(_ context.Context) {
	s.mu.Lock()
	s.cat.SortByYear()
	s.mu.Unlock()
	s.notify(EventSorted, "")
}

// List returns every record; ok is false for an empty catalog. With
// sort-on-display enabled the catalog is sorted first, and stays sorted.
func (s *Service) List(_ context.Context) (records []models.Record, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sortOnDisplay {
		s.cat.SortByYear()
	}
	return s.cat.Enumerate()
}

// Len returns the number of records.
func (s *Service) Len(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Len()
}

// Sources lists catalog files available to Load.
func (s *Service) Sources(_ context.Context) ([]models.SourceInfo, error) {
	if s.src == nil {
		return []models.SourceInfo{}, nil
	}
	return s.src.List()
}

// Load appends the records of the named source to the catalog.
func (s *Service) Load(ctx context.Context, name string) (*ingest.Report, error) {
	if s.src == nil {
		return nil, fmt.Errorf("bookservice: no source storage configured")
	}
	s.mu.Lock()
	rep, err := ingest.LoadFile(s.src, name, s.cat)
	s.mu.Unlock()

	s.logReport(ctx, rep, err)
	if rep != nil && rep.Loaded > 0 {
		s.notify(EventLoaded, "")
	}
	return rep, err
}

// Reload replaces the catalog with the contents of the named source. The
// current catalog is kept when the source cannot be read in full.
func (s *Service) Reload(ctx context.Context, name string) (*ingest.Report, error) {
	if s.src == nil {
		return nil, fmt.Errorf("bookservice: no source storage configured")
	}
	fresh := catalog.New()
	rep, err := ingest.LoadFile(s.src, name, fresh)
	s.logReport(ctx, rep, err)
	if err != nil {
		return rep, err
	}

	s.mu.Lock()
	s.cat = fresh
	s.mu.Unlock()
	s.notify(EventReloaded, "")
	return rep, nil
}

func (s *Service) logReport(ctx context.Context, rep *ingest.Report, err error) {
	logger := logging.Enrich(ctx, s.logger)
	if rep != nil {
		for _, d := range rep.Diagnostics {
			logger.Warn("load: line skipped",
				slog.String("source", rep.Source),
				slog.Int("line", d.Line),
				slog.String("kind", string(d.Kind)),
				slog.String("message", d.Message))
		}
		logger.Info("load: finished",
			slog.String("load_id", rep.ID),
			slog.String("source", rep.Source),
			slog.Int("loaded", rep.Loaded),
			slog.Int("skipped", rep.Skipped()))
	}
	if err != nil {
		logger.Error("load: source unreadable", slog.String("error", err.Error()))
	}
}

func (s *Service) notify(kind, title string) {
	if s.notifier != nil {
		s.notifier.PublishCatalogEvent(kind, title)
	}
}
