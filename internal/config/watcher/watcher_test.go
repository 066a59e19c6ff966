package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
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
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestOperationFor(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		got, ok := operationFor(tt.op)
		if ok != tt.ok || got != tt.want {
			t.Errorf("operationFor(%v) = %v, %v; want %v, %v", tt.op, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)

	a := filepath.Join(dir, "themes.json")
	b := filepath.Join(dir, "config.json")
	for _, p := range []string{a, b, a} {
		if err := w.Watch(p); err != nil {
			t.Fatalf("Watch(%s) error = %v", p, err)
		}
	}

	files := w.WatchedFiles()
	if len(files) != 2 {
		t.Fatalf("WatchedFiles() = %v, want 2 files", files)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if len(w.WatchedFiles()) != 0 || len(w.dirs) != 0 {
		t.Errorf("watch list not empty: files=%v dirs=%v", w.WatchedFiles(), w.dirs)
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "missing", "themes.json")); err == nil {
		t.Error("Watch in a missing directory should fail")
	}
}

func TestWatcher_WatchAfterClose(t *testing.T) {
	w := newWatcher(t)
	_ = w.Close()
	if err := w.Watch(filepath.Join(t.TempDir(), "a.json")); err != ErrClosed {
		t.Errorf("Watch after Close error = %v, want ErrClosed", err)
	}
}

func TestQueueEvent_Coalesce(t *testing.T) {
	tests := []struct {
		name  string
		first Operation
		then  Operation
		want  Operation
	}{
		{"write+write", OpWrite, OpWrite, OpWrite},
		{"create+write", OpCreate, OpWrite, OpCreate},
		{"write+remove", OpWrite, OpRemove, OpRemove},
		{"remove+write", OpRemove, OpWrite, OpRemove},
		{"rename+write", OpRename, OpWrite, OpWrite},
		{"remove+create", OpRemove, OpCreate, OpCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWatcher(t)
			t0 := time.Now()
			w.queueEvent(Event{Path: "/x", Op: tt.first, Time: t0})
			w.queueEvent(Event{Path: "/x", Op: tt.then, Time: t0.Add(time.Millisecond)})

			p := w.pending["/x"]
			if p.Op != tt.want {
				t.Errorf("coalesced op = %v, want %v", p.Op, tt.want)
			}
			if !p.Time.Equal(t0.Add(time.Millisecond)) {
				t.Errorf("coalesced time not updated")
			}
		})
	}
}

func TestTakeStable(t *testing.T) {
	w := newWatcher(t, WithDebounce(50*time.Millisecond))
	now := time.Now()
	w.queueEvent(Event{Path: "/b", Op: OpWrite, Time: now.Add(-time.Second)})
	w.queueEvent(Event{Path: "/a", Op: OpWrite, Time: now.Add(-time.Second)})
	w.queueEvent(Event{Path: "/c", Op: OpWrite, Time: now})

	stable := w.takeStable(now)
	if len(stable) != 2 || stable[0].Path != "/a" || stable[1].Path != "/b" {
		t.Errorf("takeStable = %+v, want /a and /b", stable)
	}
	if _, ok := w.pending["/c"]; !ok {
		t.Error("recent event should stay pending")
	}
}

func TestEmitEvent_PanicRecovery(t *testing.T) {
	var reported []error
	w := newWatcher(t, WithErrorHandler(func(err error) { reported = append(reported, err) }))

	var called bool
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { called = true })

	w.emitEvent(Event{Path: "/x", Op: OpWrite})
	if !called {
		t.Error("handler after a panicking handler was not called")
	}
	if len(reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(reported))
	}
	if msg := reported[0].Error(); !strings.Contains(msg, "boom") || !strings.Contains(msg, "/x") {
		t.Errorf("reported error = %q", msg)
	}

	// Without an error handler the panic is still contained.
	quiet := newWatcher(t)
	quiet.OnChange(func(Event) { panic("boom") })
	quiet.emitEvent(Event{Path: "/x", Op: OpWrite})
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "syntax.json")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watched, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(watched); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	events := make(chan Event, 16)
	w.OnChange(func(e Event) { events <- e })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(other, []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte(`{"py": {}}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		abs, _ := filepath.Abs(watched)
		if e.Path != abs {
			t.Errorf("event path = %q, want %q", e.Path, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
