package logutil

import (
	"strings"
	"testing"
)

func TestPreview(t *testing.T) {
	t.Run("Collapses Whitespace", func(t *testing.T) {
		got := Preview("Hello\n\tWorld   again")
		if got != "Hello World again" {
			t.Errorf("Expected 'Hello World again', got %q", got)
		}
	})

	t.Run("Caps Length", func(t *testing.T) {
		got := Preview(strings.Repeat("a", 200))
		if len([]rune(got)) != 83 { // 80 + "..."
			t.Errorf("Expected 83 runes, got %d (%q)", len([]rune(got)), got)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("Expected ellipsis suffix, got %q", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := Preview("   "); got != "" {
			t.Errorf("Expected empty preview, got %q", got)
		}
	})
}
