//go:build windows

package selection

// CheckAccessibilityPermission reports whether the process may use the
// platform accessibility interfaces. Windows does not gate UI Automation
// behind an explicit permission.
func CheckAccessibilityPermission() (bool, error) {
	return true, nil
}

// RequestAccessibilityPermission is a no-op on Windows.
func RequestAccessibilityPermission() (bool, error) {
	return true, nil
}
