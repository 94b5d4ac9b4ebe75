package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestNew(t *testing.T) {
	w := newWatcher(t)
	if w.debounce != 100*time.Millisecond {
		t.Errorf("default debounce = %v, want 100ms", w.debounce)
	}

	w = newWatcher(t, WithDebounce(0))
	if w.debounce != 0 {
		t.Errorf("debounce = %v, want 0", w.debounce)
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Operation(%d).String() = %q, want %q", int(tt.op), got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "config.lua")
	b := filepath.Join(dir, "config.toml")

	w := newWatcher(t)
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) error = %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch(b) error = %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Errorf("second Watch(a) error = %v", err)
	}
	if n := len(w.WatchedFiles()); n != 2 {
		t.Errorf("WatchedFiles() = %d files, want 2", n)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(a); err != nil {
		t.Errorf("Unwatch(a) error = %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Errorf("Unwatch(b) error = %v", err)
	}
	if len(w.dirs) != 0 {
		t.Errorf("dirs = %v, want empty", w.dirs)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "missing", "config.lua")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("theme = 'a'"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var events []Event
	got := make(chan struct{}, 1)
	w.OnChange(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		select {
		case got <- struct{}{}:
		default:
		}
	})
	w.Start()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("theme = 'b'"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1 after debouncing", len(events))
	}
	abs, _ := filepath.Abs(path)
	if events[0].Path != abs {
		t.Errorf("event path = %q, want %q", events[0].Path, abs)
	}
}

func TestWatcher_QueueEventCoalesces(t *testing.T) {
	w := newWatcher(t)
	now := time.Now()

	w.queueEvent(Event{Path: "/a", Op: OpCreate, Time: now})
	w.queueEvent(Event{Path: "/a", Op: OpWrite, Time: now})
	if op := w.pendingFiles["/a"].Op; op != OpCreate {
		t.Errorf("create+write = %v, want create", op)
	}

	w.queueEvent(Event{Path: "/a", Op: OpRemove, Time: now})
	if op := w.pendingFiles["/a"].Op; op != OpRemove {
		t.Errorf("+remove = %v, want remove", op)
	}
}

func TestWatcher_HandlerPanicRecovered(t *testing.T) {
	w := newWatcher(t)
	called := false
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { called = true })

	w.emitEvent(Event{Path: "/a", Op: OpWrite})
	if !called {
		t.Error("second handler not called after panic")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	if !w.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	w.Stop()
	w.Stop()
	if w.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	if err := w.Watch("/tmp/x.lua"); err != ErrWatcherClosed {
		t.Errorf("Watch after Stop = %v, want ErrWatcherClosed", err)
	}
}
