package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Hotkey            string
	EnableFileLogging bool
	ToolbarEnabled    bool
	IgnoredApps       []string
	CaptureTimeout    time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or executable directory
	envPaths := []string{".env"}

	// If running as executable, also try the executable's directory
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		envPaths = append(envPaths, filepath.Join(execDir, ".env"))
	}

	// Try to load .env file (ignore errors if file doesn't exist)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	// Parse ignored apps from comma-separated string
	var ignored []string
	if ignoredStr := os.Getenv("IGNORED_APPS"); ignoredStr != "" {
		for _, app := range strings.Split(ignoredStr, ",") {
			if trimmed := strings.TrimSpace(app); trimmed != "" {
				ignored = append(ignored, trimmed)
			}
		}
	}

	cfg := &Config{
		Hotkey:            getEnvWithDefault("TOOLBAR_HOTKEY", "Ctrl+Shift+S"),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		ToolbarEnabled:    strings.ToLower(getEnvWithDefault("TOOLBAR_ENABLED", "true")) != "false",
		IgnoredApps:       ignored,
		CaptureTimeout:    captureTimeout(),
	}

	return cfg, nil
}

func captureTimeout() time.Duration {
	v := os.Getenv("CAPTURE_TIMEOUT_MS")
	if v == "" {
		return 2000 * time.Millisecond
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2000 * time.Millisecond
	}
	return time.Duration(n) * time.Millisecond
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
