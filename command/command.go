// Package command exposes the toolbar's control operations as a single
// service surface, the entry points a settings UI or scripting layer calls.
package command

import (
	"fmt"
	"log"
	"time"

	"selection-toolbar/clipboard"
	"selection-toolbar/foreground"
	"selection-toolbar/selection"
	"selection-toolbar/toolbar"
)

// Service wires the control operations to the shared toolbar state and the
// window controller.
type Service struct {
	state      *toolbar.State
	controller *toolbar.Controller

	// writeClipboard copies text to the system clipboard. Injected for tests.
	writeClipboard func(string) error
}

func NewService(state *toolbar.State, controller *toolbar.Controller) *Service {
	return &Service{
		state:          state,
		controller:     controller,
		writeClipboard: clipboard.Write,
	}
}

// SetEnabled flips the master switch. Disabling hides the toolbar
// immediately; a failure to hide does not fail the state change.
func (s *Service) SetEnabled(enabled bool) error {
	s.state.SetEnabled(enabled)
	log.Printf("Toolbar enabled set to %v", enabled)
	if !enabled {
		if err := s.controller.Hide(); err != nil {
			log.Printf("Failed to hide toolbar after disable: %v", err)
		}
	}
	return nil
}

// SetIgnoredApps replaces the ignored application patterns.
func (s *Service) SetIgnoredApps(patterns []string) error {
	s.state.SetIgnoredApps(patterns)
	log.Printf("Ignored app patterns updated (%d entries)", len(patterns))
	return nil
}

// SetTemporaryDisabledUntil sets or clears the temporary-disable deadline,
// given as Unix epoch milliseconds; zero clears. Setting a deadline hides
// the toolbar.
func (s *Service) SetTemporaryDisabledUntil(epochMs uint64) error {
	if epochMs == 0 {
		s.state.SetTemporaryDisabledUntil(time.Time{})
		log.Printf("Temporary disable cleared")
		return nil
	}

	until := time.UnixMilli(int64(epochMs))
	s.state.SetTemporaryDisabledUntil(until)
	log.Printf("Toolbar temporarily disabled until %v", until)
	if err := s.controller.Hide(); err != nil {
		log.Printf("Failed to hide toolbar after temporary disable: %v", err)
	}
	return nil
}

// TemporarilyDisableFor is SetTemporaryDisabledUntil with a duration from
// now, the form the tray menu uses.
func (s *Service) TemporarilyDisableFor(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("temporary disable duration must be positive, got %v", d)
	}
	return s.SetTemporaryDisabledUntil(uint64(time.Now().Add(d).UnixMilli()))
}

// CopySelection copies the most recently shown selection to the clipboard
// and hides the toolbar, the action behind the toolbar's copy button.
func (s *Service) CopySelection() error {
	text := s.state.Snapshot().LastText
	if text == "" {
		return fmt.Errorf("no selection to copy")
	}
	if err := s.writeClipboard(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %v", err)
	}
	log.Printf("Copied selection to clipboard (%d chars)", len(text))
	if err := s.controller.Hide(); err != nil {
		log.Printf("Failed to hide toolbar after copy: %v", err)
	}
	return nil
}

// Snapshot returns the current toolbar state for diagnostics and settings
// UIs.
func (s *Service) Snapshot() toolbar.Snapshot {
	return s.state.Snapshot()
}

// CursorPosition returns the current global cursor position in physical
// pixels.
func (s *Service) CursorPosition() (float64, float64, error) {
	x, y, err := foreground.CursorPosition()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query cursor position: %v", err)
	}
	return x, y, nil
}

// ShowToolbar shows the toolbar with explicit text at an explicit position,
// bypassing capture but not the state gates.
func (s *Service) ShowToolbar(text string, x, y float64) error {
	return s.controller.Show(text, x, y)
}

// HideToolbar hides the toolbar and clears the dedupe anchors.
func (s *Service) HideToolbar() error {
	return s.controller.Hide()
}

// CheckAccessibilityPermission reports whether the OS grants the access the
// selection providers need.
func (s *Service) CheckAccessibilityPermission() (bool, error) {
	return selection.CheckAccessibilityPermission()
}

// RequestAccessibilityPermission asks the OS to grant selection access where
// a prompt exists.
func (s *Service) RequestAccessibilityPermission() (bool, error) {
	return selection.RequestAccessibilityPermission()
}
