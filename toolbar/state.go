// Package toolbar owns the floating toolbar: its shared gating state and the
// controller that positions and shows the single reusable window.
package toolbar

import (
	"strings"
	"sync"
	"time"
)

// showThrottle suppresses re-showing the same text within a short window.
const showThrottle = 120 * time.Millisecond

// State is the shared toolbar state, guarded by a single mutex. One instance
// lives for the process lifetime and is shared between the monitor, the
// hotkey path and the command surface.
type State struct {
	mu sync.Mutex

	enabled                bool
	temporaryDisabledUntil time.Time // zero means not disabled
	ignoredApps            []string
	lastShownText          string
	lastShownAt            time.Time
}

// NewState creates toolbar state with the configured enablement and ignore
// patterns.
func NewState(enabled bool, ignoredApps []string) *State {
	s := &State{enabled: enabled}
	s.SetIgnoredApps(ignoredApps)
	return s
}

func (s *State) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *State) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// SetTemporaryDisabledUntil sets the wall-clock deadline until which automatic
// triggering is suppressed. The zero time clears it.
func (s *State) SetTemporaryDisabledUntil(until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temporaryDisabledUntil = until
}

func (s *State) TemporaryDisabledUntil() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temporaryDisabledUntil
}

// RestoreTemporaryDisabledUntil re-applies a saved deadline only when no other
// actor has set one in the meantime. Used by the forced-show path to undo its
// temporary clearing without clobbering concurrent changes.
func (s *State) RestoreTemporaryDisabledUntil(until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.temporaryDisabledUntil.IsZero() {
		s.temporaryDisabledUntil = until
	}
}

// IsTemporarilyDisabled reports whether the deadline is still in the future.
// An expired deadline self-clears on this read; there is no background timer.
func (s *State) IsTemporarilyDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temporarilyDisabledLocked()
}

func (s *State) temporarilyDisabledLocked() bool {
	if s.temporaryDisabledUntil.IsZero() {
		return false
	}
	if !time.Now().Before(s.temporaryDisabledUntil) {
		s.temporaryDisabledUntil = time.Time{}
		return false
	}
	return true
}

// SetIgnoredApps replaces the ignore patterns. Patterns are trimmed,
// lowercased and matched as substrings against foreground app identifiers.
func (s *State) SetIgnoredApps(apps []string) {
	normalized := make([]string, 0, len(apps))
	for _, app := range apps {
		if trimmed := strings.ToLower(strings.TrimSpace(app)); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignoredApps = normalized
}

func (s *State) IgnoredApps() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ignoredApps...)
}

// ShouldIgnoreApp reports whether the identifier matches any ignore pattern.
// A pattern matches on equality, suffix or substring, so ignoring "notepad"
// also suppresses "notepadplusplus.exe". Deliberately broad; revisiting the
// matching policy is a product decision, not a bug fix.
func (s *State) ShouldIgnoreApp(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shouldIgnoreLocked(identifier)
}

func (s *State) shouldIgnoreLocked(identifier string) bool {
	if len(s.ignoredApps) == 0 {
		return false
	}
	candidate := strings.ToLower(strings.TrimSpace(identifier))
	if candidate == "" {
		return false
	}
	for _, pattern := range s.ignoredApps {
		if candidate == pattern || strings.HasSuffix(candidate, pattern) || strings.Contains(candidate, pattern) {
			return true
		}
	}
	return false
}

// ShouldShow applies the gating checks in order (enabled, temporary disable
// with lazy expiry, ignored app, same-text throttle) and, when every check
// passes, records the show so the throttle has an anchor. The reason names
// the failing check for debug logging.
func (s *State) ShouldShow(text string, appIdentifiers []string) (ok bool, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return false, "feature is disabled"
	}
	if s.temporarilyDisabledLocked() {
		return false, "feature is temporarily disabled"
	}
	for _, identifier := range appIdentifiers {
		if s.shouldIgnoreLocked(identifier) {
			return false, "ignored application: " + identifier
		}
	}

	now := time.Now()
	if !s.lastShownAt.IsZero() && now.Sub(s.lastShownAt) < showThrottle && s.lastShownText == text {
		return false, "throttled"
	}

	s.lastShownAt = now
	s.lastShownText = text
	return true, ""
}

// ClearLastShown resets the dedupe/throttle anchors. Called whenever the
// toolbar is hidden so a later identical selection shows again.
func (s *State) ClearLastShown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastShownText = ""
	s.lastShownAt = time.Time{}
}

// Snapshot is a read-only copy of the toolbar state, served to the toolbar
// window content when it first mounts so buttons reflect the current
// selection immediately.
type Snapshot struct {
	LastText                 string   `json:"last_text"`
	Enabled                  bool     `json:"enabled"`
	TemporaryDisabledUntilMs uint64   `json:"temporary_disabled_until_ms"`
	IgnoredApps              []string `json:"ignored_apps"`
}

// Snapshot returns the current state. TemporaryDisabledUntilMs is 0 unless a
// deadline is set and still in the future (the lazy-expiry read applies).
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var untilMs uint64
	if s.temporarilyDisabledLocked() {
		untilMs = uint64(s.temporaryDisabledUntil.UnixMilli())
	}
	return Snapshot{
		LastText:                 s.lastShownText,
		Enabled:                  s.enabled,
		TemporaryDisabledUntilMs: untilMs,
		IgnoredApps:              append([]string(nil), s.ignoredApps...),
	}
}
