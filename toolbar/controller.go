package toolbar

import (
	"log"
	"strings"
	"time"

	"selection-toolbar/foreground"
	"selection-toolbar/logutil"
)

// Toolbar geometry in logical pixels, scaled by the display scale factor at
// show time.
const (
	Width          = 80.0
	Height         = 35.0
	VerticalOffset = 10.0
)

// settleDelay separates repositioning from reveal so the window never flashes
// at its previous location.
const settleDelay = 50 * time.Millisecond

// TextSelectedEvent is emitted to the toolbar window content with the
// captured text as payload.
const TextSelectedEvent = "toolbar-text-selected"

// Window is the single reusable floating panel. The real implementation is a
// native undecorated, non-activating, skip-taskbar window created lazily on
// first show.
type Window interface {
	EnsureCreated() error
	SetAlwaysOnTop(onTop bool) error
	SetPosition(x, y int) error
	Show() error
	Hide() error
	IsVisible() bool
	ScaleFactor() float64
	Emit(event, payload string) error
}

// Controller gates, positions and reveals the toolbar window.
type Controller struct {
	state  *State
	window Window

	// resolveApps returns the foreground app identifiers for ignore matching.
	// Injected for tests.
	resolveApps func() []string
	// settle is the delay between repositioning and reveal.
	settle time.Duration
}

func NewController(state *State, window Window) *Controller {
	return &Controller{
		state:       state,
		window:      window,
		resolveApps: foreground.AppIdentifiers,
		settle:      settleDelay,
	}
}

// Show displays the toolbar with the given text near the cursor position
// (physical pixels). Suppressed shows are not errors; every failing gate is
// logged at debug level and swallowed.
func (c *Controller) Show(text string, cursorX, cursorY float64) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		log.Printf("Toolbar show suppressed due to empty text")
		return nil
	}
	log.Printf("Toolbar text preview: %q", logutil.Preview(trimmed))

	if ok, reason := c.state.ShouldShow(trimmed, c.resolveApps()); !ok {
		log.Printf("Toolbar show suppressed: %s", reason)
		return nil
	}

	if err := c.window.EnsureCreated(); err != nil {
		return err
	}

	scale := c.window.ScaleFactor()
	if scale <= 0 {
		scale = 1.0
	}
	x, y := Position(cursorX, cursorY, scale)

	if err := c.window.SetAlwaysOnTop(true); err != nil {
		log.Printf("Failed to set toolbar always-on-top: %v", err)
	}
	if err := c.window.SetPosition(x, y); err != nil {
		log.Printf("Failed to position toolbar window: %v", err)
	}

	// Hide then re-show so the position change is applied before the window
	// becomes visible.
	if c.window.IsVisible() {
		_ = c.window.Hide()
	}

	go func() {
		time.Sleep(c.settle)
		if err := c.window.Emit(TextSelectedEvent, trimmed); err != nil {
			log.Printf("Failed to emit toolbar text: %v", err)
		}
		if err := c.window.Show(); err != nil {
			log.Printf("Failed to show toolbar window: %v", err)
		}
	}()

	return nil
}

// ForceShow is Show with the "hotkey intent overrides automatic suppression"
// policy: any temporary-disable deadline is cleared for the duration of the
// gated show and restored afterwards unless another actor changed it
// concurrently.
func (c *Controller) ForceShow(text string, cursorX, cursorY float64) error {
	original := c.state.TemporaryDisabledUntil()
	if !original.IsZero() {
		c.state.SetTemporaryDisabledUntil(time.Time{})
	}

	err := c.Show(text, cursorX, cursorY)

	if !original.IsZero() {
		c.state.RestoreTemporaryDisabledUntil(original)
	}
	return err
}

// Hide clears the dedupe anchors and hides the window. A missing or invalid
// window handle means "already hidden", not an error.
func (c *Controller) Hide() error {
	c.state.ClearLastShown()
	if err := c.window.Hide(); err != nil {
		log.Printf("Skipping toolbar hide because window handle is invalid: %v", err)
	}
	return nil
}

// Position computes the window's top-left corner: centered horizontally above
// the cursor with a fixed vertical offset, scaled, clamped to non-negative
// coordinates.
func Position(cursorX, cursorY, scale float64) (int, int) {
	width := Width * scale
	height := Height * scale
	offsetY := VerticalOffset * scale

	x := cursorX - width/2
	y := cursorY - height - offsetY

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return int(x + 0.5), int(y + 0.5)
}
