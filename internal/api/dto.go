package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/libris/internal/ingest"
	"github.com/starford/libris/internal/models"
)

// CreateBookRequest is the request body for adding a book.
type CreateBookRequest struct {
	Author string `json:"author" example:"George Orwell"`
	Title  string `json:"title" example:"1984"`
	Year   int    `json:"year" example:"1949"`
	Status string `json:"status" example:"BANNED"`
}

// Validate checks the request the same way the interactive shell does:
// a title is required, years may not be negative and the status must be known.
func (r *CreateBookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Year, validation.Min(0)),
		validation.Field(&r.Status, validation.Required, validation.By(knownStatus)),
	)
}

// Record converts a validated request into a catalog record.
func (r *CreateBookRequest) Record() (models.Record, error) {
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return models.Record{}, err
	}
	return models.NewRecord(r.Author, r.Title, r.Year, status), nil
}

func knownStatus(value any) error {
	s, _ := value.(string)
	_, err := models.ParseStatus(s)
	return err
}

// LoadRequest names a source file under the data directory.
type LoadRequest struct {
	Name string `json:"name" example:"books.txt"`
}

// Validate validates the load request.
func (r *LoadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
	)
}

// BookListResponse wraps a list of books. Empty is true only when the whole
// catalog is empty, so clients can tell it apart from a filter with no hits.
type BookListResponse struct {
	Books []models.Record `json:"books"`
	Empty bool            `json:"empty"`
}

// SourceListResponse wraps the available source files.
type SourceListResponse struct {
	Sources []models.SourceInfo `json:"sources"`
}

// LoadResponse is the outcome of a load.
type LoadResponse = ingest.Report
