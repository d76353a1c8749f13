//go:build windows

package selection

// BuildProviders returns the capture strategies for this platform, ordered by
// priority (first match wins).
func BuildProviders() []Provider {
	return []Provider{
		// UI Automation works with most modern applications.
		NewUIAutomationProvider(),
		// Win32 edit control fallback for legacy applications.
		NewEditControlProvider(),
	}
}
