package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/libris/internal/bookservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events behind the same auth.
func NewRouter(svc *bookservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/books", h.ListBooks)
	r.Post("/books", h.CreateBook)
	r.Post("/books/sort", h.SortBooks)
	r.Get("/books/*", h.GetBook)
	r.Delete("/books/*", h.DeleteBook)

	r.Get("/sources", h.ListSources)
	r.Post("/load", h.Load)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
