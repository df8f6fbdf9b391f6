package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/libris/internal/ingest"
	"github.com/starford/libris/internal/logging"
)

type countingReloader struct {
	mu    sync.Mutex
	names []string
}

func (c *countingReloader) Reload(_ context.Context, name string) (*ingest.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
	return &ingest.Report{Source: name}, nil
}

func (c *countingReloader) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatch(t *testing.T, path string) *countingReloader {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := &countingReloader{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Watch(ctx, r, path, "books.txt", logging.Discard()); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
	return r
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.txt")
	if err := os.WriteFile(path, []byte("Orwell,1984,1949,BANNED\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := startWatch(t, path)

	_ = os.WriteFile(path, []byte("Orwell,Animal Farm,1945,EXIT\n"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return r.calls() == 1
	}, "changed file not reloaded")

	r.mu.Lock()
	name := r.names[0]
	r.mu.Unlock()
	if name != "books.txt" {
		t.Errorf("reloaded %q, want books.txt", name)
	}
}

func TestWatcher_IgnoresUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.txt")
	content := []byte("Orwell,1984,1949,BANNED\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	r := startWatch(t, path)

	_ = os.WriteFile(path, content, 0o644)
	time.Sleep(3 * Debounce)
	if n := r.calls(); n != 0 {
		t.Errorf("reloads = %d, want 0 for identical content", n)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.txt")
	r := startWatch(t, path)

	_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("a,b,1,EXIT\n"), 0o644)
	time.Sleep(3 * Debounce)
	if n := r.calls(); n != 0 {
		t.Errorf("reloads = %d, want 0", n)
	}

	// The watched file appearing for the first time counts as a change.
	_ = os.WriteFile(path, []byte("a,b,1,EXIT\n"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return r.calls() == 1
	}, "new file not reloaded")
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.txt")
	r := startWatch(t, path)

	for i := range 5 {
		_ = os.WriteFile(path, []byte{byte('a' + i), ',', 'b', ',', '1', ',', 'E', 'X', 'I', 'T', '\n'}, 0o644)
	}
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return r.calls() >= 1
	}, "burst not reloaded")
	time.Sleep(3 * Debounce)
	if n := r.calls(); n != 1 {
		t.Errorf("reloads = %d, want 1 after a burst", n)
	}
}
