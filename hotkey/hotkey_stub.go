//go:build !windows

package hotkey

import "log"

// Listen is only implemented on Windows; elsewhere the hotkey is parsed for
// validation and then ignored.
func Listen(shortcut string, callback func()) {
	if _, err := Parse(shortcut); err != nil {
		log.Printf("Invalid hotkey %q: %v", shortcut, err)
		return
	}
	log.Printf("Global hotkey registration not supported on this platform")
}
