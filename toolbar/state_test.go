package toolbar

import (
	"testing"
	"time"
)

func TestTemporaryDisable(t *testing.T) {
	t.Run("Lazy Expiry", func(t *testing.T) {
		s := NewState(true, nil)
		s.SetTemporaryDisabledUntil(time.Now().Add(50 * time.Millisecond))

		if !s.IsTemporarilyDisabled() {
			t.Fatal("Expected disabled before the deadline elapses")
		}

		time.Sleep(60 * time.Millisecond)

		// No background timer fired; the next read must observe expiry and
		// self-clear the deadline.
		if s.IsTemporarilyDisabled() {
			t.Fatal("Expected not disabled after the deadline elapses")
		}
		if !s.TemporaryDisabledUntil().IsZero() {
			t.Error("Expected expired deadline to self-clear")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s := NewState(true, nil)
		s.SetTemporaryDisabledUntil(time.Now().Add(time.Hour))
		s.SetTemporaryDisabledUntil(time.Time{})
		if s.IsTemporarilyDisabled() {
			t.Error("Expected cleared deadline to read as not disabled")
		}
	})

	t.Run("Restore Only When Unchanged", func(t *testing.T) {
		s := NewState(true, nil)
		original := time.Now().Add(time.Hour)

		s.SetTemporaryDisabledUntil(time.Time{})
		s.RestoreTemporaryDisabledUntil(original)
		if got := s.TemporaryDisabledUntil(); !got.Equal(original) {
			t.Errorf("Expected restore onto empty deadline, got %v", got)
		}

		// A concurrent actor set a new deadline; restore must not clobber it.
		replacement := time.Now().Add(2 * time.Hour)
		s.SetTemporaryDisabledUntil(replacement)
		s.RestoreTemporaryDisabledUntil(original)
		if got := s.TemporaryDisabledUntil(); !got.Equal(replacement) {
			t.Errorf("Expected concurrent deadline to win, got %v", got)
		}
	})
}

func TestShouldIgnoreApp(t *testing.T) {
	s := NewState(true, []string{"Notepad", "  keepass.exe  ", ""})

	cases := []struct {
		identifier string
		ignored    bool
	}{
		{"notepad.exe", true},
		// Substring matching is deliberately broad: ignoring "notepad" also
		// suppresses notepadplusplus.
		{"notepadplusplus.exe", true},
		{"keepass.exe", true},
		{"chrome.exe", false},
		{"", false},
		{"NOTEPAD.EXE", true},
	}

	for _, tc := range cases {
		if got := s.ShouldIgnoreApp(tc.identifier); got != tc.ignored {
			t.Errorf("ShouldIgnoreApp(%q) = %v, want %v", tc.identifier, got, tc.ignored)
		}
	}

	t.Run("Empty Pattern List", func(t *testing.T) {
		s := NewState(true, nil)
		if s.ShouldIgnoreApp("notepad.exe") {
			t.Error("Expected no match with empty ignore list")
		}
	})
}

func TestShouldShow(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		s := NewState(false, nil)
		if ok, reason := s.ShouldShow("hello", nil); ok || reason == "" {
			t.Errorf("Expected rejection with reason, got ok=%v reason=%q", ok, reason)
		}
	})

	t.Run("Temporarily Disabled", func(t *testing.T) {
		s := NewState(true, nil)
		s.SetTemporaryDisabledUntil(time.Now().Add(time.Hour))
		if ok, _ := s.ShouldShow("hello", nil); ok {
			t.Error("Expected rejection while temporarily disabled")
		}
	})

	t.Run("Ignored App", func(t *testing.T) {
		s := NewState(true, []string{"notepad"})
		if ok, _ := s.ShouldShow("hello", []string{"notepad.exe"}); ok {
			t.Error("Expected rejection for ignored app")
		}
		if ok, _ := s.ShouldShow("hello", []string{"chrome.exe"}); !ok {
			t.Error("Expected show for non-ignored app")
		}
	})

	t.Run("Same Text Throttled", func(t *testing.T) {
		s := NewState(true, nil)
		if ok, _ := s.ShouldShow("hello", nil); !ok {
			t.Fatal("First show should pass")
		}
		if ok, reason := s.ShouldShow("hello", nil); ok {
			t.Error("Second identical show within the throttle window should be rejected")
		} else if reason != "throttled" {
			t.Errorf("Expected throttle reason, got %q", reason)
		}
	})

	t.Run("Different Text Passes Throttle", func(t *testing.T) {
		s := NewState(true, nil)
		s.ShouldShow("hello", nil)
		if ok, _ := s.ShouldShow("world", nil); !ok {
			t.Error("Different text should pass immediately")
		}
	})

	t.Run("Same Text After Throttle Window", func(t *testing.T) {
		s := NewState(true, nil)
		s.ShouldShow("hello", nil)
		time.Sleep(showThrottle + 20*time.Millisecond)
		if ok, _ := s.ShouldShow("hello", nil); !ok {
			t.Error("Same text should pass after the throttle window")
		}
	})

	t.Run("Hide Clears Throttle Anchor", func(t *testing.T) {
		s := NewState(true, nil)
		s.ShouldShow("hello", nil)
		s.ClearLastShown()
		if ok, _ := s.ShouldShow("hello", nil); !ok {
			t.Error("Expected show after ClearLastShown")
		}
	})
}

func TestSnapshot(t *testing.T) {
	s := NewState(true, []string{"notepad"})
	s.ShouldShow("hello world", nil)

	snap := s.Snapshot()
	if snap.LastText != "hello world" {
		t.Errorf("Expected last text 'hello world', got %q", snap.LastText)
	}
	if !snap.Enabled {
		t.Error("Expected enabled snapshot")
	}
	if snap.TemporaryDisabledUntilMs != 0 {
		t.Error("Expected no temporary-disable deadline")
	}
	if len(snap.IgnoredApps) != 1 || snap.IgnoredApps[0] != "notepad" {
		t.Errorf("Unexpected ignored apps: %v", snap.IgnoredApps)
	}

	until := time.Now().Add(time.Hour)
	s.SetTemporaryDisabledUntil(until)
	snap = s.Snapshot()
	if snap.TemporaryDisabledUntilMs != uint64(until.UnixMilli()) {
		t.Errorf("Expected deadline %d, got %d", until.UnixMilli(), snap.TemporaryDisabledUntilMs)
	}

	// Expired deadlines read as absent.
	s.SetTemporaryDisabledUntil(time.Now().Add(-time.Second))
	if snap = s.Snapshot(); snap.TemporaryDisabledUntilMs != 0 {
		t.Error("Expected expired deadline to read as absent")
	}
}
