//go:build !windows

package selection

import "fmt"

// CheckAccessibilityPermission reports whether the process may use the
// platform accessibility interfaces. On macOS this would consult
// AXIsProcessTrusted; no provider is implemented here, so it reports false.
func CheckAccessibilityPermission() (bool, error) {
	return false, nil
}

// RequestAccessibilityPermission is unsupported on this platform.
func RequestAccessibilityPermission() (bool, error) {
	return false, fmt.Errorf("accessibility permissions not supported on this platform")
}
