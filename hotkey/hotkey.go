// Package hotkey binds a global keyboard shortcut to the manual capture
// action.
package hotkey

import (
	"fmt"
	"strings"
)

// Combination is a parsed hotkey: OS modifier flags plus a virtual-key code.
type Combination struct {
	Modifiers uint16
	KeyCode   uint16
}

// Windows modifier flags; harmless constants on other platforms.
const (
	modAlt     = 0x0001
	modControl = 0x0002
	modShift   = 0x0004
	modWin     = 0x0008
)

// Parse converts a hotkey string like "Ctrl+Shift+S" into a Combination.
// Modifier order does not matter; exactly one non-modifier key is required.
func Parse(shortcut string) (Combination, error) {
	var combo Combination
	seenKey := false

	for _, part := range strings.Split(shortcut, "+") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			return Combination{}, fmt.Errorf("empty segment in hotkey %q", shortcut)
		case "ctrl", "control":
			combo.Modifiers |= modControl
		case "shift":
			combo.Modifiers |= modShift
		case "alt":
			combo.Modifiers |= modAlt
		case "win", "super", "cmd":
			combo.Modifiers |= modWin
		default:
			if seenKey {
				return Combination{}, fmt.Errorf("hotkey %q has more than one non-modifier key", shortcut)
			}
			code, err := virtualKeyCode(part)
			if err != nil {
				return Combination{}, err
			}
			combo.KeyCode = code
			seenKey = true
		}
	}

	if !seenKey {
		return Combination{}, fmt.Errorf("hotkey %q has no non-modifier key", shortcut)
	}
	return combo, nil
}

// virtualKeyCode maps a key name to its Windows virtual-key code. Letters and
// digits map directly; a handful of named keys cover the rest.
func virtualKeyCode(name string) (uint16, error) {
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a' + 'A'), nil
		case c >= '0' && c <= '9':
			return uint16(c), nil
		}
	}

	named := map[string]uint16{
		"space":  0x20,
		"tab":    0x09,
		"enter":  0x0D,
		"return": 0x0D,
		"escape": 0x1B,
		"esc":    0x1B,
		"f1":     0x70,
		"f2":     0x71,
		"f3":     0x72,
		"f4":     0x73,
		"f5":     0x74,
		"f6":     0x75,
		"f7":     0x76,
		"f8":     0x77,
		"f9":     0x78,
		"f10":    0x79,
		"f11":    0x7A,
		"f12":    0x7B,
	}
	if code, ok := named[name]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}
