// Package logging configures log/slog and carries request ids into log entries.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Formats accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a logger writing to w. Any format other than "json" yields text output.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(w io.Writer, level slog.Level, format string) *slog.Logger {
	l := New(w, level, format)
	slog.SetDefault(l)
	return l
}

// Enrich adds the chi request id found in ctx, if any, to l.
// A nil l means the default logger.
func Enrich(ctx context.Context, l *slog.Logger) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		l = l.With(slog.String("request_id", reqID))
	}
	return l
}

// FromContext returns the default logger enriched with the request id in ctx.
func FromContext(ctx context.Context) *slog.Logger {
	return Enrich(ctx, nil)
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
