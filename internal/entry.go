// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/libris/internal/api"
	"github.com/starford/libris/internal/bookservice"
	"github.com/starford/libris/internal/logging"
	"github.com/starford/libris/internal/mcpserver"
	"github.com/starford/libris/internal/shell"
	"github.com/starford/libris/internal/sse"
	"github.com/starford/libris/internal/storage"
	"github.com/starford/libris/internal/watcher"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{in: os.Stdin, out: os.Stdout, logOut: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// logger installs the default logger. Interactive commands pass a floor so
// that per-line load warnings do not interleave with their own output.
func (a *application) logger(floor slog.Level) *slog.Logger {
	level := max(a.config.App.LogLevel, floor)
	return logging.Setup(a.logOut, level, a.config.App.LogFormat)
}

func (a *application) service(logger *slog.Logger, opts ...bookservice.Option) (*bookservice.Service, *storage.FS, error) {
	store, err := storage.NewFS(a.config.Catalog.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	opts = append([]bookservice.Option{
		bookservice.WithLogger(logger),
		bookservice.WithSortOnDisplay(a.config.Catalog.SortOnDisplay),
	}, opts...)
	return bookservice.NewService(nil, store, opts...), store, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger(cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("data_dir", cfg.Catalog.DataDir),
		slog.Bool("watch", cfg.Catalog.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	svc, store, err := app.service(logger, bookservice.WithNotifier(broker))
	if err != nil {
		return err
	}

	if cfg.Catalog.Path != "" {
		if _, err := svc.Load(ctx, cfg.Catalog.Path); err != nil {
			logger.Warn("initial load failed", slog.String("error", err.Error()))
		}
	}

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","books":%d}`, svc.Len(req.Context()))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Catalog.Watch {
		path, err := store.Resolve(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("resolve catalog path: %w", err)
		}
		g.Go(func() error {
			return watcher.Watch(gCtx, svc, path, cfg.Catalog.Path, logger)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunLoad loads a single catalog file and prints one line per skipped line
// followed by the summary. It fails only when the file cannot be read.
func RunLoad(ctx context.Context, name string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, _, err := app.service(app.logger(slog.LevelError))
	if err != nil {
		return err
	}
	return shell.New(svc, app.in, app.out).LoadFile(ctx, name)
}

// RunShell runs the interactive menu, loading the configured catalog first
// when there is one.
func RunShell(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, _, err := app.service(app.logger(slog.LevelError))
	if err != nil {
		return err
	}

	sh := shell.New(svc, app.in, app.out)
	if path := app.config.Catalog.Path; path != "" {
		_ = sh.LoadFile(ctx, path)
	} else {
		_, _ = io.WriteString(app.out, "No file path provided. You can load books using the menu options.\n")
	}
	return sh.Run(ctx)
}

// RunMCP serves the catalog over MCP on stdin/stdout. Logs go to the log
// output, never to stdout.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger(app.config.App.LogLevel)
	svc, _, err := app.service(logger)
	if err != nil {
		return err
	}
	if path := app.config.Catalog.Path; path != "" {
		if _, err := svc.Load(ctx, path); err != nil {
			logger.Warn("initial load failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}
