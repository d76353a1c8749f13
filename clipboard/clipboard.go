package clipboard

import (
	"golang.design/x/clipboard"
)

func Init() error {
	return clipboard.Init()
}

// Write replaces the clipboard text. The underlying call reports changes via
// a channel rather than an error, so writes are fire-and-forget.
func Write(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// Read returns the current clipboard text, or "" when the clipboard is empty
// or holds a non-text format.
func Read() string {
	return string(clipboard.Read(clipboard.FmtText))
}
