package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		os.Unsetenv("TOOLBAR_HOTKEY")
		os.Unsetenv("ENABLE_FILE_LOGGING")
		os.Unsetenv("TOOLBAR_ENABLED")
		os.Unsetenv("IGNORED_APPS")
		os.Unsetenv("CAPTURE_TIMEOUT_MS")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Config loading failed: %v", err)
		}

		if cfg.Hotkey != "Ctrl+Shift+S" {
			t.Errorf("Expected default hotkey 'Ctrl+Shift+S', got '%s'", cfg.Hotkey)
		}
		if cfg.EnableFileLogging {
			t.Error("Expected file logging to default to disabled")
		}
		if !cfg.ToolbarEnabled {
			t.Error("Expected toolbar to default to enabled")
		}
		if len(cfg.IgnoredApps) != 0 {
			t.Errorf("Expected empty ignored apps, got %v", cfg.IgnoredApps)
		}
		if cfg.CaptureTimeout != 2000*time.Millisecond {
			t.Errorf("Expected default capture timeout 2000ms, got %v", cfg.CaptureTimeout)
		}
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		os.Setenv("TOOLBAR_HOTKEY", "Ctrl+Alt+T")
		os.Setenv("ENABLE_FILE_LOGGING", "true")
		os.Setenv("TOOLBAR_ENABLED", "false")
		os.Setenv("IGNORED_APPS", "notepad, keepass.exe , ")
		os.Setenv("CAPTURE_TIMEOUT_MS", "500")
		defer func() {
			os.Unsetenv("TOOLBAR_HOTKEY")
			os.Unsetenv("ENABLE_FILE_LOGGING")
			os.Unsetenv("TOOLBAR_ENABLED")
			os.Unsetenv("IGNORED_APPS")
			os.Unsetenv("CAPTURE_TIMEOUT_MS")
		}()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Config loading failed: %v", err)
		}

		if cfg.Hotkey != "Ctrl+Alt+T" {
			t.Errorf("Expected hotkey 'Ctrl+Alt+T', got '%s'", cfg.Hotkey)
		}
		if !cfg.EnableFileLogging {
			t.Error("Expected file logging to be enabled")
		}
		if cfg.ToolbarEnabled {
			t.Error("Expected toolbar to be disabled")
		}
		if len(cfg.IgnoredApps) != 2 || cfg.IgnoredApps[0] != "notepad" || cfg.IgnoredApps[1] != "keepass.exe" {
			t.Errorf("Unexpected ignored apps: %v", cfg.IgnoredApps)
		}
		if cfg.CaptureTimeout != 500*time.Millisecond {
			t.Errorf("Expected capture timeout 500ms, got %v", cfg.CaptureTimeout)
		}
	})

	t.Run("Invalid Timeout Falls Back", func(t *testing.T) {
		os.Setenv("CAPTURE_TIMEOUT_MS", "banana")
		defer os.Unsetenv("CAPTURE_TIMEOUT_MS")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Config loading failed: %v", err)
		}
		if cfg.CaptureTimeout != 2000*time.Millisecond {
			t.Errorf("Expected fallback timeout 2000ms, got %v", cfg.CaptureTimeout)
		}
	})
}
