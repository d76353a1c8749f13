//go:build !windows

package foreground

import "fmt"

// CursorPosition is only implemented on Windows.
func CursorPosition() (float64, float64, error) {
	return 0, 0, fmt.Errorf("cursor position lookup not implemented on this platform")
}

// AppIdentifiers returns no identifiers on unsupported platforms.
func AppIdentifiers() []string {
	return nil
}

// IsHostProcessForeground always reports false on unsupported platforms.
func IsHostProcessForeground() bool {
	return false
}
