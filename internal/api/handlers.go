package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/libris/internal/apperr"
	"github.com/starford/libris/internal/bookservice"
	"github.com/starford/libris/internal/ingest"
	"github.com/starford/libris/internal/logging"
	"github.com/starford/libris/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *bookservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *bookservice.Service) *Handler {
	return &Handler{svc: svc}
}

// bookTitle extracts the title from the URL (everything after /books/).
// Titles may contain slashes and arrive percent-encoded.
func bookTitle(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListBooks handles GET /api/books.
//
//	@Summary	List books in catalog order, optionally filtered by author
//	@Tags		books
//	@Produce	json
//	@Param		author	query		string	false	"Exact author, case-insensitive"
//	@Success	200		{object}	BookListResponse
//	@Router		/books [get]
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if author, ok := r.URL.Query()["author"]; ok {
		books := h.svc.ByAuthor(r.Context(), strings.TrimSpace(author[0]))
		writeJSON(w, http.StatusOK, BookListResponse{Books: books})
		return
	}
	books, ok := h.svc.List(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, BookListResponse{Books: []models.Record{}, Empty: true})
		return
	}
	writeJSON(w, http.StatusOK, BookListResponse{Books: books})
}

// GetBook handles GET /api/books/*.
//
//	@Summary	Find the first book with the given title
//	@Tags		books
//	@Produce	json
//	@Param		title	path		string	true	"Title, case-insensitive"
//	@Success	200		{object}	models.Record
//	@Failure	404		{object}	errResponse
//	@Router		/books/{title} [get]
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	title := bookTitle(r)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	book, err := h.svc.Get(r.Context(), title)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("book not found"))
			return
		}
		logging.FromContext(r.Context()).Error("get book failed", slog.String("title", title), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// CreateBook handles POST /api/books.
//
//	@Summary	Append a book to the catalog
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateBookRequest	true	"Book to add"
//	@Success	201		{object}	models.Record
//	@Failure	400		{object}	errResponse
//	@Router		/books [post]
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	req.Author = strings.TrimSpace(req.Author)
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	book, err := req.Record()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.Add(r.Context(), book); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// DeleteBook handles DELETE /api/books/*.
//
//	@Summary	Delete the first book with the given title
//	@Tags		books
//	@Param		title	path	string	true	"Title, case-insensitive"
//	@Success	204		"Book deleted"
//	@Failure	404		{object}	errResponse
//	@Router		/books/{title} [delete]
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	title := bookTitle(r)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	if err := h.svc.Delete(r.Context(), title); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("book not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SortBooks handles POST /api/books/sort.
//
//	@Summary	Sort the catalog by publication year (stable)
//	@Tags		books
//	@Produce	json
//	@Success	200	{object}	BookListResponse
//	@Router		/books/sort [post]
func (h *Handler) SortBooks(w http.ResponseWriter, r *http.Request) {
	h.svc.Sort(r.Context())
	books, ok := h.svc.List(r.Context())
	if !ok {
		books = []models.Record{}
	}
	writeJSON(w, http.StatusOK, BookListResponse{Books: books, Empty: !ok})
}

// ListSources handles GET /api/sources.
//
//	@Summary	List catalog files available for loading
//	@Tags		load
//	@Produce	json
//	@Success	200	{object}	SourceListResponse
//	@Router		/sources [get]
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	srcs, err := h.svc.Sources(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("list sources failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SourceListResponse{Sources: srcs})
}

// Load handles POST /api/load.
//
//	@Summary	Append the records of a catalog file
//	@Tags		load
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoadRequest	true	"Source to load"
//	@Success	200		{object}	LoadResponse
//	@Failure	400		{object}	errResponse
//	@Failure	422		{object}	errResponse
//	@Router		/load [post]
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	rep, err := h.svc.Load(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, ingest.ErrUnreadableSource) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
