// Package monitor turns raw global mouse events into debounced, deduplicated
// selection captures and drives the toolbar from the results.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"selection-toolbar/clipboard"
	"selection-toolbar/foreground"
	"selection-toolbar/logutil"
	"selection-toolbar/selection"
	"selection-toolbar/toolbar"
	"selection-toolbar/worker"
)

// debounceInterval suppresses release storms from double clicks and drag
// jitter; at most one capture is triggered per interval.
const debounceInterval = 200 * time.Millisecond

// Toolbar is the slice of the toolbar controller the monitor drives.
type Toolbar interface {
	Show(text string, cursorX, cursorY float64) error
	ForceShow(text string, cursorX, cursorY float64) error
	Hide() error
}

// Monitor owns the capture trigger state machine. All mutable trigger state
// lives behind a single mutex; the hot path (mouse move) never blocks on it.
type Monitor struct {
	state     *toolbar.State
	toolbar   Toolbar
	pool      *worker.Pool
	providers []selection.Provider

	captureTimeout time.Duration

	mu                sync.Mutex
	cursorX, cursorY  float64
	lastTriggerAt     time.Time
	lastText          string
	captureInProgress bool

	// OS lookups, injected for tests.
	hostForeground func() bool
	cursorPosition func() (float64, float64, error)
	resolveApps    func() []string
	readClipboard  func() string
}

func New(state *toolbar.State, tb Toolbar, pool *worker.Pool, providers []selection.Provider, captureTimeout time.Duration) *Monitor {
	if captureTimeout <= 0 {
		captureTimeout = 2 * time.Second
	}
	return &Monitor{
		state:          state,
		toolbar:        tb,
		pool:           pool,
		providers:      providers,
		captureTimeout: captureTimeout,
		hostForeground: foreground.IsHostProcessForeground,
		cursorPosition: foreground.CursorPosition,
		resolveApps:    foreground.AppIdentifiers,
		readClipboard:  clipboard.Read,
	}
}

// HandleMouseMove records the latest cursor position. Move events arrive at
// high frequency, so a contended lock means a capture is being dispatched and
// this sample is simply dropped.
func (m *Monitor) HandleMouseMove(x, y float64) {
	if !m.mu.TryLock() {
		return
	}
	m.cursorX, m.cursorY = x, y
	m.mu.Unlock()
}

// HandleButtonRelease runs the trigger gates in order and, when they all
// pass, dispatches an asynchronous capture. Failing a gate is the common
// case and is cheap.
func (m *Monitor) HandleButtonRelease() {
	if !m.state.Enabled() {
		_ = m.toolbar.Hide()
		return
	}

	m.mu.Lock()
	now := time.Now()
	if now.Sub(m.lastTriggerAt) < debounceInterval {
		m.mu.Unlock()
		return
	}
	if m.captureInProgress {
		m.mu.Unlock()
		log.Printf("Skipping capture: previous capture still in progress")
		return
	}
	if m.hostForeground() {
		m.mu.Unlock()
		return
	}
	m.captureInProgress = true
	m.lastTriggerAt = now
	cursorX, cursorY := m.cursorX, m.cursorY
	m.mu.Unlock()

	m.dispatchCapture(cursorX, cursorY)
}

// dispatchCapture hands the capture to the worker pool with a deadline. The
// in-progress guard is reset exactly once per dispatch, whether the capture
// succeeds, fails, times out or panics.
func (m *Monitor) dispatchCapture(cursorX, cursorY float64) {
	ctx, cancel := context.WithTimeout(context.Background(), m.captureTimeout)

	submitted := m.pool.Submit(ctx, m.providers, func(text string, ok bool) {
		defer cancel()
		defer m.resetCaptureGuard()
		m.handleCaptureResult(text, ok, cursorX, cursorY)
	})
	if !submitted {
		cancel()
		m.resetCaptureGuard()
		log.Printf("Capture dropped: worker queue full")
	}
}

func (m *Monitor) resetCaptureGuard() {
	m.mu.Lock()
	m.captureInProgress = false
	m.mu.Unlock()
}

func (m *Monitor) handleCaptureResult(text string, ok bool, cursorX, cursorY float64) {
	if !ok {
		m.clearLastText()
		_ = m.toolbar.Hide()
		return
	}

	normalized, valid := selection.Normalize(text)
	if !valid {
		log.Printf("Capture rejected: text too short after trimming")
		m.clearLastText()
		_ = m.toolbar.Hide()
		return
	}

	m.mu.Lock()
	same := normalized == m.lastText
	m.lastText = normalized
	m.mu.Unlock()

	if same {
		log.Printf("Skipping toolbar show: selection unchanged (%q)", logutil.Preview(normalized))
		return
	}

	if err := m.toolbar.Show(normalized, cursorX, cursorY); err != nil {
		log.Printf("Failed to show toolbar: %v", err)
	}
}

func (m *Monitor) clearLastText() {
	m.mu.Lock()
	m.lastText = ""
	m.mu.Unlock()
}

// HandleHotkey captures the current selection on explicit user request. The
// hotkey expresses intent, so a temporary-disable deadline is noted but not
// honored, and the clipboard serves as a fallback source when no provider
// can read the selection.
func (m *Monitor) HandleHotkey() {
	if !m.state.Enabled() {
		_ = m.toolbar.Hide()
		return
	}
	for _, id := range m.resolveApps() {
		if m.state.ShouldIgnoreApp(id) {
			log.Printf("Hotkey ignored: foreground app %q is on the ignore list", id)
			_ = m.toolbar.Hide()
			return
		}
	}
	if m.state.IsTemporarilyDisabled() {
		log.Printf("Hotkey capture proceeding despite temporary disable")
	}

	text, ok := selection.CaptureWithProviders(m.providers)
	normalized := ""
	if ok {
		normalized, ok = selection.Normalize(text)
	}
	if !ok {
		normalized, ok = selection.Normalize(m.readClipboard())
		if !ok {
			log.Printf("Hotkey capture found no selection and no clipboard text")
			_ = m.toolbar.Hide()
			return
		}
		log.Printf("Hotkey capture fell back to clipboard text")
	}

	cursorX, cursorY, err := m.cursorPosition()
	if err != nil {
		log.Printf("Failed to query cursor position: %v", err)
		_ = m.toolbar.Hide()
		return
	}

	m.mu.Lock()
	m.lastText = normalized
	m.mu.Unlock()

	if err := m.toolbar.ForceShow(normalized, cursorX, cursorY); err != nil {
		log.Printf("Failed to force-show toolbar: %v", err)
	}
}
