//go:build windows

package hotkey

import (
	"log"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
	procGetMessageW      = user32.NewProc("GetMessageW")
)

const (
	wmHotkey = 0x0312
	hotkeyID = 0x5EC1
)

type msg struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// Listen registers the hotkey system-wide and invokes callback on every
// press. RegisterHotKey binds to the calling thread's message queue, so the
// whole loop stays on one locked OS thread. Registration failure (usually a
// conflict with another app) is logged and the hotkey is simply unavailable.
func Listen(shortcut string, callback func()) {
	combo, err := Parse(shortcut)
	if err != nil {
		log.Printf("Invalid hotkey %q: %v", shortcut, err)
		return
	}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		r1, _, callErr := procRegisterHotKey.Call(0, hotkeyID,
			uintptr(combo.Modifiers), uintptr(combo.KeyCode))
		if r1 == 0 {
			log.Printf("Failed to register hotkey %q: %v", shortcut, callErr)
			return
		}
		defer procUnregisterHotKey.Call(0, hotkeyID)
		log.Printf("Registered global hotkey %q", shortcut)

		var m msg
		for {
			r1, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
			if int32(r1) <= 0 {
				return
			}
			if m.Message == wmHotkey && m.WParam == hotkeyID {
				log.Printf("Hotkey %q pressed", shortcut)
				callback()
			}
		}
	}()
}
