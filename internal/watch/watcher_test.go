package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// newMockWatcher creates a Watcher for internal unit tests without
// a real fsnotify instance or running loop.
func newMockWatcher(
	debounce time.Duration, onChange func([]string),
) *Watcher {
	return &Watcher{
		onChange: onChange,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

func TestNewWatcherNilCallback(t *testing.T) {
	if _, err := NewWatcher(time.Second, nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/p/-id/s1.jsonl", true},
		{"/p/-id/s1/subagents/agent-x-1.jsonl", true},
		{"/p/-id/sessions-index.json", true},
		{"/p/-id/notes.txt", false},
		{"/p/-id/.s1.jsonl.tmp", false},
	}
	for _, tt := range tests {
		if got := relevant(tt.path); got != tt.want {
			t.Errorf("relevant(%q) = %v, want %v",
				tt.path, got, tt.want)
		}
	}
}

func TestHandleEventIgnoresIrrelevantFiles(t *testing.T) {
	w := newMockWatcher(time.Minute, func([]string) {})

	w.handleEvent(fsnotify.Event{
		Name: "/p/-id/scratch.txt", Op: fsnotify.Write,
	})
	if len(w.pending) != 0 {
		t.Errorf("pending = %v, want empty", w.pending)
	}

	w.handleEvent(fsnotify.Event{
		Name: "/p/-id/s1.jsonl", Op: fsnotify.Write,
	})
	if len(w.pending) != 1 {
		t.Errorf("pending = %v, want one entry", w.pending)
	}
}

func TestFlushDebounces(t *testing.T) {
	var mu sync.Mutex
	var got [][]string
	w := newMockWatcher(50*time.Millisecond, func(paths []string) {
		mu.Lock()
		got = append(got, paths)
		mu.Unlock()
	})

	base := time.Now()
	w.now = func() time.Time { return base }
	w.handleEvent(fsnotify.Event{
		Name: "/p/-id/s1.jsonl", Op: fsnotify.Write,
	})

	// Inside the debounce window: nothing fires.
	w.flush()
	mu.Lock()
	if len(got) != 0 {
		t.Fatalf("premature flush: %v", got)
	}
	mu.Unlock()

	// Past the window: one callback with the changed path.
	w.now = func() time.Time {
		return base.Add(100 * time.Millisecond)
	}
	w.flush()
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || len(got[0]) != 1 ||
		got[0][0] != "/p/-id/s1.jsonl" {
		t.Fatalf("flush results = %v", got)
	}
	if len(w.pending) != 0 {
		t.Errorf("pending not drained: %v", w.pending)
	}
}

func TestWatcherEndToEnd(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan []string, 1)
	w, err := NewWatcher(20*time.Millisecond, func(paths []string) {
		select {
		case changed <- paths:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := w.WatchRecursive(dir); err != nil {
		t.Fatal(err)
	}
	w.Start()
	defer w.Stop()

	path := filepath.Join(dir, "s1.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changed:
		if len(paths) == 0 {
			t.Fatal("callback with no paths")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(time.Second, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	w.Stop()
	w.Stop() // second call must not panic or block
}
