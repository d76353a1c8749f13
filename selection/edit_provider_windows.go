//go:build windows

package selection

import (
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	emGetSel        = 0x00B0
	wmGetText       = 0x000D
	wmGetTextLength = 0x000E
)

var (
	editUser32               = windows.NewLazySystemDLL("user32.dll")
	procEditForegroundWindow = editUser32.NewProc("GetForegroundWindow")
	procRealGetWindowClassW  = editUser32.NewProc("RealGetWindowClassW")
	procSendMessageW         = editUser32.NewProc("SendMessageW")
)

// Classic edit control classes that answer EM_GETSEL / WM_GETTEXT.
var supportedEditClasses = map[string]bool{
	"Edit":        true,
	"RichEdit20A": true,
	"RichEdit20W": true,
	"RichEdit50W": true,
	"RichEdit41W": true,
}

// EditControlProvider reads the selection from classic Win32 edit controls via
// window messaging. Fallback for legacy applications that predate UI
// Automation.
type EditControlProvider struct{}

func NewEditControlProvider() *EditControlProvider { return &EditControlProvider{} }

func (p *EditControlProvider) Name() string { return "windows-win32-edit" }

func (p *EditControlProvider) Capture() (string, bool) {
	hwnd, _, _ := procEditForegroundWindow.Call()
	if hwnd == 0 {
		return "", false
	}

	className, ok := windowClass(hwnd)
	if !ok || !supportedEditClasses[className] {
		return "", false
	}

	text, ok := extractSelectionFromEdit(hwnd)
	if !ok {
		return "", false
	}
	return Normalize(text)
}

func windowClass(hwnd uintptr) (string, bool) {
	var buf [256]uint16
	length, _, _ := procRealGetWindowClassW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if length == 0 {
		return "", false
	}
	return syscall.UTF16ToString(buf[:length]), true
}

// extractSelectionFromEdit reads the selection offsets and the full buffer,
// then slices the selected range. Offsets are validated (start < end,
// end bounded by the copied length) before slicing.
func extractSelectionFromEdit(hwnd uintptr) (string, bool) {
	var start, end uint32

	// EM_GETSEL reports selection start/end in UTF-16 code units.
	procSendMessageW.Call(hwnd, emGetSel,
		uintptr(unsafe.Pointer(&start)),
		uintptr(unsafe.Pointer(&end)))

	if start >= end {
		return "", false
	}

	textLength, _, _ := procSendMessageW.Call(hwnd, wmGetTextLength, 0, 0)
	if textLength == 0 {
		return "", false
	}

	buf := make([]uint16, textLength+1)
	copied, _, _ := procSendMessageW.Call(hwnd, wmGetText,
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&buf[0])))
	if copied == 0 {
		return "", false
	}

	sliceEnd := end
	if sliceEnd > uint32(copied) {
		sliceEnd = uint32(copied)
	}
	if start >= sliceEnd {
		return "", false
	}

	return string(utf16.Decode(buf[start:sliceEnd])), true
}
