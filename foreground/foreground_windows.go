//go:build windows

package foreground

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	kernel32                     = windows.NewLazySystemDLL("kernel32.dll")
	procGetCursorPos             = user32.NewProc("GetCursorPos")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procRealGetWindowClassW      = user32.NewProc("RealGetWindowClassW")
	procOpenProcess              = kernel32.NewProc("OpenProcess")
	procQueryFullProcessImage    = kernel32.NewProc("QueryFullProcessImageNameW")
	procCloseHandle              = kernel32.NewProc("CloseHandle")
)

const processQueryLimitedInformation = 0x1000

type point struct {
	X, Y int32
}

// CursorPosition queries the current pointer location in physical screen
// pixels. Used by the hotkey path, which can fire without recent mouse motion.
func CursorPosition() (float64, float64, error) {
	var pt point
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return 0, 0, err
	}
	return float64(pt.X), float64(pt.Y), nil
}

// AppIdentifiers resolves the foreground window to a set of lowercase
// identifiers: the window class name and the executable base name.
// Returns an empty slice when there is no foreground window or every
// lookup fails; callers treat that as "nothing to match".
func AppIdentifiers() []string {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil
	}

	var identifiers []string

	var classBuf [256]uint16
	classLen, _, _ := procRealGetWindowClassW.Call(hwnd, uintptr(unsafe.Pointer(&classBuf[0])), uintptr(len(classBuf)))
	if classLen > 0 {
		className := strings.ToLower(syscall.UTF16ToString(classBuf[:classLen]))
		if className != "" {
			identifiers = append(identifiers, className)
		}
	}

	if exe := foregroundExecutable(hwnd); exe != "" {
		identifiers = append(identifiers, exe)
	}

	sort.Strings(identifiers)
	return dedup(identifiers)
}

// IsHostProcessForeground reports whether the foreground window belongs to
// this process, so selections inside the host app never feed back into it.
func IsHostProcessForeground() bool {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return false
	}
	return windowPID(hwnd) == uint32(os.Getpid())
}

func windowPID(hwnd uintptr) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return pid
}

func foregroundExecutable(hwnd uintptr) string {
	pid := windowPID(hwnd)
	if pid == 0 {
		return ""
	}

	handle, _, _ := procOpenProcess.Call(processQueryLimitedInformation, 0, uintptr(pid))
	if handle == 0 {
		return ""
	}
	defer procCloseHandle.Call(handle)

	var pathBuf [512]uint16
	size := uint32(len(pathBuf))
	ret, _, _ := procQueryFullProcessImage.Call(handle, 0, uintptr(unsafe.Pointer(&pathBuf[0])), uintptr(unsafe.Pointer(&size)))
	if ret == 0 || size == 0 {
		return ""
	}

	name := filepath.Base(syscall.UTF16ToString(pathBuf[:size]))
	return strings.ToLower(name)
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
