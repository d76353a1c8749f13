package monitor

import (
	"sync"
	"testing"
	"time"

	"selection-toolbar/selection"
	"selection-toolbar/toolbar"
	"selection-toolbar/worker"
)

type recordingWindow struct {
	mu      sync.Mutex
	x, y    int
	visible bool
	shows   int
	payload string
}

func (w *recordingWindow) EnsureCreated() error      { return nil }
func (w *recordingWindow) SetAlwaysOnTop(bool) error { return nil }
func (w *recordingWindow) ScaleFactor() float64      { return 1.0 }

func (w *recordingWindow) SetPosition(x, y int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.x, w.y = x, y
	return nil
}

func (w *recordingWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	w.shows++
	return nil
}

func (w *recordingWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	return nil
}

func (w *recordingWindow) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *recordingWindow) Emit(event, payload string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.payload = payload
	return nil
}

// A mouse release above real selected text ends with the toolbar centered
// above the cursor carrying the captured text.
func TestReleaseToToolbarFlow(t *testing.T) {
	window := &recordingWindow{}
	state := toolbar.NewState(true, nil)
	controller := toolbar.NewController(state, window)

	pool := worker.New(1)
	t.Cleanup(pool.Close)

	provider := &fakeProvider{text: "Hello World", ok: true}
	m := New(state, controller, pool, []selection.Provider{provider}, time.Second)
	m.hostForeground = func() bool { return false }

	m.HandleMouseMove(100, 200)
	m.HandleButtonRelease()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		window.mu.Lock()
		done := window.shows == 1
		window.mu.Unlock()
		if done {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	window.mu.Lock()
	defer window.mu.Unlock()
	if window.shows != 1 {
		t.Fatalf("Expected one show, got %d", window.shows)
	}
	if window.x != 60 || window.y != 155 {
		t.Errorf("Expected toolbar at (60, 155), got (%d, %d)", window.x, window.y)
	}
	if window.payload != "Hello World" {
		t.Errorf("Expected payload 'Hello World', got %q", window.payload)
	}
}
