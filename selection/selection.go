// Package selection captures the text currently selected in the foreground
// application, using one OS interop strategy per provider. Providers are
// best-effort: any OS failure yields "no selection" rather than an error.
package selection

import (
	"log"
	"strings"
	"unicode"
)

// MinTextLength is the minimum number of non-whitespace runes a capture must
// contain after trimming to count as a real selection.
const MinTextLength = 2

// Provider attempts one OS-specific method of reading the selected text.
// Implementations must never panic and must never block indefinitely.
type Provider interface {
	// Name identifies the provider in diagnostics.
	Name() string

	// Capture returns the normalized selection, or ok=false when no
	// selection is available or the OS call fails.
	Capture() (text string, ok bool)
}

// CaptureWithProviders tries providers in priority order and returns the
// first successful capture. A failing provider simply falls through; there
// are no retries within a single pass.
func CaptureWithProviders(providers []Provider) (string, bool) {
	for _, p := range providers {
		if text, ok := p.Capture(); ok {
			log.Printf("Selection provider %s captured text successfully", p.Name())
			return text, true
		}
	}
	return "", false
}

// Normalize trims the captured text and rejects selections with fewer than
// MinTextLength non-whitespace runes.
func Normalize(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	count := 0
	for _, r := range trimmed {
		if !unicode.IsSpace(r) {
			count++
			if count >= MinTextLength {
				return trimmed, true
			}
		}
	}
	return "", false
}
