package command

import (
	"sync"
	"testing"
	"time"

	"selection-toolbar/toolbar"
)

type stubWindow struct {
	mu      sync.Mutex
	visible bool
	shows   int
	hides   int
}

func (w *stubWindow) EnsureCreated() error       { return nil }
func (w *stubWindow) SetAlwaysOnTop(bool) error  { return nil }
func (w *stubWindow) SetPosition(int, int) error { return nil }
func (w *stubWindow) ScaleFactor() float64       { return 1.0 }
func (w *stubWindow) Emit(string, string) error  { return nil }

func (w *stubWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	w.shows++
	return nil
}

func (w *stubWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	w.hides++
	return nil
}

func (w *stubWindow) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func newTestService() (*Service, *toolbar.State, *stubWindow) {
	state := toolbar.NewState(true, nil)
	window := &stubWindow{}
	return NewService(state, toolbar.NewController(state, window)), state, window
}

func TestSetEnabled(t *testing.T) {
	svc, state, window := newTestService()

	if err := svc.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	if state.Enabled() {
		t.Error("Expected state disabled")
	}
	if window.hides != 1 {
		t.Errorf("Expected disable to hide the toolbar, got %d hides", window.hides)
	}

	if err := svc.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	if !state.Enabled() {
		t.Error("Expected state enabled")
	}
	if window.hides != 1 {
		t.Errorf("Expected enable not to touch the window, got %d hides", window.hides)
	}
}

func TestSetIgnoredApps(t *testing.T) {
	svc, state, _ := newTestService()

	if err := svc.SetIgnoredApps([]string{"Notepad", "keepass"}); err != nil {
		t.Fatalf("SetIgnoredApps failed: %v", err)
	}
	if !state.ShouldIgnoreApp("notepad.exe") {
		t.Error("Expected notepad.exe to be ignored")
	}
}

func TestSetTemporaryDisabledUntil(t *testing.T) {
	svc, state, window := newTestService()

	until := time.Now().Add(10 * time.Minute)
	if err := svc.SetTemporaryDisabledUntil(uint64(until.UnixMilli())); err != nil {
		t.Fatalf("SetTemporaryDisabledUntil failed: %v", err)
	}
	if !state.IsTemporarilyDisabled() {
		t.Error("Expected temporarily disabled")
	}
	if window.hides != 1 {
		t.Errorf("Expected temporary disable to hide the toolbar, got %d hides", window.hides)
	}

	if err := svc.SetTemporaryDisabledUntil(0); err != nil {
		t.Fatalf("Clearing failed: %v", err)
	}
	if state.IsTemporarilyDisabled() {
		t.Error("Expected temporary disable cleared")
	}
}

func TestTemporarilyDisableFor(t *testing.T) {
	svc, state, _ := newTestService()

	if err := svc.TemporarilyDisableFor(-time.Minute); err == nil {
		t.Error("Expected error for non-positive duration")
	}

	if err := svc.TemporarilyDisableFor(10 * time.Minute); err != nil {
		t.Fatalf("TemporarilyDisableFor failed: %v", err)
	}
	until := state.TemporaryDisabledUntil()
	remaining := time.Until(until)
	if remaining < 9*time.Minute || remaining > 11*time.Minute {
		t.Errorf("Expected deadline about 10 minutes out, got %v", remaining)
	}
}

func TestCopySelection(t *testing.T) {
	t.Run("Copies And Hides", func(t *testing.T) {
		svc, state, window := newTestService()
		var written string
		svc.writeClipboard = func(text string) error {
			written = text
			return nil
		}
		state.ShouldShow("Hello World", nil)

		if err := svc.CopySelection(); err != nil {
			t.Fatalf("CopySelection failed: %v", err)
		}
		if written != "Hello World" {
			t.Errorf("Expected 'Hello World' on the clipboard, got %q", written)
		}
		if window.hides != 1 {
			t.Errorf("Expected one hide after copy, got %d", window.hides)
		}
	})

	t.Run("Nothing To Copy", func(t *testing.T) {
		svc, _, _ := newTestService()
		called := false
		svc.writeClipboard = func(string) error {
			called = true
			return nil
		}

		if err := svc.CopySelection(); err == nil {
			t.Error("Expected error with no selection")
		}
		if called {
			t.Error("Expected no clipboard write with no selection")
		}
	})
}

func TestSnapshot(t *testing.T) {
	svc, state, _ := newTestService()
	state.SetIgnoredApps([]string{"notepad"})

	snap := svc.Snapshot()
	if !snap.Enabled {
		t.Error("Expected enabled snapshot")
	}
	if len(snap.IgnoredApps) != 1 || snap.IgnoredApps[0] != "notepad" {
		t.Errorf("Unexpected ignored apps: %v", snap.IgnoredApps)
	}
}

func TestShowAndHideToolbar(t *testing.T) {
	svc, _, window := newTestService()

	if err := svc.ShowToolbar("Hello World", 100, 200); err != nil {
		t.Fatalf("ShowToolbar failed: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	shows := 0
	for time.Now().Before(deadline) {
		window.mu.Lock()
		shows = window.shows
		window.mu.Unlock()
		if shows == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if shows != 1 {
		t.Fatalf("Expected one show, got %d", shows)
	}

	if err := svc.HideToolbar(); err != nil {
		t.Fatalf("HideToolbar failed: %v", err)
	}
	if window.IsVisible() {
		t.Error("Expected window hidden")
	}
}
