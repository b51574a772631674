package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) waitFor(t *testing.T, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %v", n, r.snapshot())
	return nil
}

func newWatcher(t *testing.T, opts ...Option) (*Watcher, *recorder) {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	rec := &recorder{}
	w.OnChange(rec.handle)
	return w, rec
}

func TestWriteIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, rec := newWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("[1]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	events := rec.waitFor(t, 1)
	time.Sleep(60 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("burst produced %d events, want 1: %v", len(got), got)
	}
	if events[0].Path != path {
		t.Errorf("Path = %q, want %q", events[0].Path, path)
	}
	if events[0].Op != OpWrite {
		t.Errorf("Op = %v, want write", events[0].Op)
	}
}

func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	w, rec := newWatcher(t, WithDebounce(0))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	events := rec.waitFor(t, 1)
	for _, e := range events {
		if e.Path != path {
			t.Errorf("event for unwatched file %q", e.Path)
		}
	}
	if events[0].Op != OpCreate {
		t.Errorf("first Op = %v, want create", events[0].Op)
	}
}

func TestAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, rec := newWatcher(t, WithDebounce(50*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	tmp := filepath.Join(dir, ".doc.json.tmp")
	if err := os.WriteFile(tmp, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	events := rec.waitFor(t, 1)
	if events[0].Op == OpRemove {
		t.Errorf("atomic save reported as remove")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, rec := newWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	events := rec.waitFor(t, 1)
	if events[0].Op != OpRemove {
		t.Errorf("Op = %v, want remove", events[0].Op)
	}
}

func TestUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	w, _ := newWatcher(t)
	for _, p := range []string{a, b} {
		if err := w.Watch(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Watch(a); err != nil {
		t.Errorf("second Watch() error = %v", err)
	}
	if n := len(w.WatchedFiles()); n != 2 {
		t.Errorf("WatchedFiles() = %d, want 2", n)
	}

	if err := w.Unwatch(a); err != nil {
		t.Errorf("Unwatch() error = %v", err)
	}
	if err := w.Unwatch(a); !errors.Is(err, ErrNotWatching) {
		t.Errorf("Unwatch() again error = %v, want ErrNotWatching", err)
	}
	if w.dirs[dir] != 1 {
		t.Errorf("dir refcount = %d, want 1", w.dirs[dir])
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w, _ := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "doc.json")); err == nil {
		t.Error("Watch() in a missing directory succeeded")
	}
}

func TestClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch("x.json"); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close error = %v", err)
	}
}

func TestHandlerPanicContained(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	w, rec := newWatcher(t, WithDebounce(0))
	w.OnChange(func(Event) { panic("boom") })
	second := &recorder{}
	w.OnChange(second.handle)

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec.waitFor(t, 1)
	second.waitFor(t, 1)
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		prev, next, want Operation
	}{
		{OpWrite, OpWrite, OpWrite},
		{OpCreate, OpWrite, OpCreate},
		{OpRemove, OpCreate, OpWrite},
		{OpWrite, OpRemove, OpRemove},
		{OpCreate, OpRemove, OpRemove},
	}
	for _, tt := range tests {
		if got := coalesce(tt.prev, tt.next); got != tt.want {
			t.Errorf("coalesce(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
		}
	}
}

func TestOperationString(t *testing.T) {
	if OpWrite.String() != "write" || OpCreate.String() != "create" || OpRemove.String() != "remove" || Operation(9).String() != "unknown" {
		t.Error("unexpected operation names")
	}
}
