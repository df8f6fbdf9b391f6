// Package watcher reloads the catalog when its source file changes on disk.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/libris/internal/checksum"
	"github.com/starford/libris/internal/ingest"
)

// Debounce is how long the watcher waits after the last event for a file
// before reloading it.
const Debounce = 200 * time.Millisecond

// Reloader replaces the catalog with the contents of a named source.
// *bookservice.Service satisfies it.
type Reloader interface {
	Reload(ctx context.Context, name string) (*ingest.Report, error)
}

// Watch starts an fsnotify watcher on the directory containing path and
// reloads name through r whenever path is created or written with new
// content. It blocks until ctx is cancelled.
//
// Directories are watched rather than the file itself so that editors
// which replace the file by rename keep being observed.
func Watch(ctx context.Context, r Reloader, path, name string, logger *slog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	// Missing file: empty checksum, so its first appearance triggers a reload.
	last, _ := checksum.File(abs)
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			fire = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			sum, sumErr := checksum.File(abs)
			if sumErr != nil {
				logger.Warn("watcher: checksum failed", slog.String("path", abs), slog.String("error", sumErr.Error()))
				continue
			}
			if sum == last {
				logger.Debug("watcher: content unchanged", slog.String("path", abs))
				continue
			}
			last = sum
			rep, reloadErr := r.Reload(ctx, name)
			if reloadErr != nil {
				logger.Warn("watcher: reload failed", slog.String("path", abs), slog.String("error", reloadErr.Error()))
				continue
			}
			logger.Info("watcher: reloaded",
				slog.String("path", abs),
				slog.Int("loaded", rep.Loaded),
				slog.Int("skipped", rep.Skipped()))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				schedule()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// The catalog stays as it is until the file comes back.
				logger.Info("watcher: source removed", slog.String("path", abs))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
