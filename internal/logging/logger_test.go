package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo, "JSON")
	l.Info("hello", slog.Int("n", 1))
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"n":1`) {
		t.Errorf("output = %q, want JSON", buf.String())
	}
}

func TestNew_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn, "text")
	l.Info("dropped")
	l.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(out, "msg=kept") {
		t.Errorf("output = %q, want text entry", out)
	}
}

func TestEnrich_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, slog.LevelInfo, FormatText)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	Enrich(ctx, base).Info("x")
	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("output = %q, want request_id", buf.String())
	}
}

func TestEnrich_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, slog.LevelInfo, FormatText)
	Enrich(context.Background(), base).Info("x")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("output = %q, want no request_id", buf.String())
	}
}
