//go:build windows

package toolbar

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procCreateWindowEx   = user32.NewProc("CreateWindowExW")
	procDefWindowProc    = user32.NewProc("DefWindowProcW")
	procShowWindow       = user32.NewProc("ShowWindow")
	procIsWindowVisible  = user32.NewProc("IsWindowVisible")
	procSetWindowPos     = user32.NewProc("SetWindowPos")
	procRegisterClassEx  = user32.NewProc("RegisterClassExW")
	procGetMessage       = user32.NewProc("GetMessageW")
	procDispatchMessage  = user32.NewProc("DispatchMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procBeginPaint       = user32.NewProc("BeginPaint")
	procEndPaint         = user32.NewProc("EndPaint")
	procDrawText         = user32.NewProc("DrawTextW")
	procLoadCursor       = user32.NewProc("LoadCursorW")
	procInvalidateRect   = user32.NewProc("InvalidateRect")
	procPostMessage      = user32.NewProc("PostMessageW")
	procGetDpiForWindow  = user32.NewProc("GetDpiForWindow")
)

const (
	wsPopup          = 0x80000000
	wsBorder         = 0x00800000
	wsExNoActivate   = 0x08000000
	wsExToolWindow   = 0x00000080
	wsExTopmost      = 0x00000008
	wmDestroy        = 0x0002
	wmPaint          = 0x000F
	wmUser           = 0x0400
	wmUpdateText     = wmUser + 1
	swHide           = 0
	swShowNoActivate = 4
	swpNoActivate    = 0x0010
	swpNoMove        = 0x0002
	swpNoSize        = 0x0001
	swpNoZOrder      = 0x0004
	hwndTopmost      = ^uintptr(0) // (HWND)-1
	dtCenter         = 0x00000001
	dtVCenter        = 0x00000004
	dtSingleLine     = 0x00000020
	dtEndEllipsis    = 0x00008000
	colorWindow      = 5
	idcArrow         = 32512

	windowClassName = "SelectionToolbarClass"
	baseDPI         = 96.0
)

type wndClassEx struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     syscall.Handle
	HIcon         syscall.Handle
	HCursor       syscall.Handle
	HbrBackground syscall.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       syscall.Handle
}

type msg struct {
	Hwnd    syscall.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type paintStruct struct {
	Hdc         syscall.Handle
	FErase      int32
	RcPaint     rect
	FRestore    int32
	FIncUpdate  int32
	RgbReserved [32]byte
}

type rect struct {
	Left, Top, Right, Bottom int32
}

// displayed text, read by the window procedure during WM_PAINT
var (
	windowTextMu sync.Mutex
	windowText   string
)

// NativeWindow is the single floating toolbar panel: undecorated, topmost,
// never activated, not shown in the taskbar. The window and its message loop
// live on one locked OS thread for the process lifetime; other goroutines
// drive it through cross-thread user32 calls and posted messages, the same
// way the popup thread works in the rest of the codebase.
type NativeWindow struct {
	createOnce sync.Once
	createErr  error
	ready      chan struct{}

	mu   sync.Mutex
	hwnd syscall.Handle
}

func NewNativeWindow() *NativeWindow {
	return &NativeWindow{ready: make(chan struct{})}
}

// EnsureCreated lazily creates the window on a dedicated message-loop
// goroutine and waits until it exists.
func (w *NativeWindow) EnsureCreated() error {
	w.createOnce.Do(func() {
		go w.windowThread()
		<-w.ready
	})
	if w.createErr != nil {
		return w.createErr
	}
	if w.handle() == 0 {
		return fmt.Errorf("toolbar window was destroyed")
	}
	return nil
}

func (w *NativeWindow) windowThread() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Toolbar window thread panic: %v", r)
		}
	}()

	signalled := false
	signal := func() {
		if !signalled {
			signalled = true
			close(w.ready)
		}
	}
	defer signal()

	if err := registerWindowClass(); err != nil {
		w.createErr = err
		return
	}

	scale := w.ScaleFactor()
	width := int32(Width*scale + 0.5)
	height := int32(Height*scale + 0.5)

	classPtr, _ := syscall.UTF16PtrFromString(windowClassName)
	titlePtr, _ := syscall.UTF16PtrFromString("Selection Toolbar")

	// Created hidden; the controller positions it before the first reveal.
	hwnd, _, _ := procCreateWindowEx.Call(
		wsExNoActivate|wsExToolWindow|wsExTopmost,
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		wsPopup|wsBorder,
		0, 0,
		uintptr(width), uintptr(height),
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		w.createErr = fmt.Errorf("failed to create toolbar window")
		return
	}

	w.mu.Lock()
	w.hwnd = syscall.Handle(hwnd)
	w.mu.Unlock()
	signal()

	log.Printf("Toolbar window created (hwnd=%d, %dx%d)", hwnd, width, height)

	var m msg
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 { // WM_QUIT or error
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}

	w.mu.Lock()
	w.hwnd = 0
	w.mu.Unlock()
	log.Printf("Toolbar window message loop exited")
}

func (w *NativeWindow) handle() syscall.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hwnd
}

func (w *NativeWindow) SetAlwaysOnTop(onTop bool) error {
	hwnd := w.handle()
	if hwnd == 0 {
		return fmt.Errorf("toolbar window not created")
	}
	if !onTop {
		return nil
	}
	procSetWindowPos.Call(uintptr(hwnd), hwndTopmost, 0, 0, 0, 0,
		swpNoActivate|swpNoMove|swpNoSize)
	return nil
}

func (w *NativeWindow) SetPosition(x, y int) error {
	hwnd := w.handle()
	if hwnd == 0 {
		return fmt.Errorf("toolbar window not created")
	}
	procSetWindowPos.Call(uintptr(hwnd), 0, uintptr(x), uintptr(y), 0, 0,
		swpNoActivate|swpNoSize|swpNoZOrder)
	return nil
}

func (w *NativeWindow) Show() error {
	hwnd := w.handle()
	if hwnd == 0 {
		return fmt.Errorf("toolbar window not created")
	}
	procShowWindow.Call(uintptr(hwnd), swShowNoActivate)
	return nil
}

func (w *NativeWindow) Hide() error {
	hwnd := w.handle()
	if hwnd == 0 {
		return fmt.Errorf("toolbar window not created")
	}
	procShowWindow.Call(uintptr(hwnd), swHide)
	return nil
}

func (w *NativeWindow) IsVisible() bool {
	hwnd := w.handle()
	if hwnd == 0 {
		return false
	}
	visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
	return visible != 0
}

// ScaleFactor reports the window's display scale (1.0 = 96 DPI). Before the
// window exists, or on systems without per-window DPI, it falls back to 1.0.
func (w *NativeWindow) ScaleFactor() float64 {
	if err := procGetDpiForWindow.Find(); err != nil {
		return 1.0
	}
	hwnd := w.handle()
	if hwnd == 0 {
		return 1.0
	}
	dpi, _, _ := procGetDpiForWindow.Call(uintptr(hwnd))
	if dpi == 0 {
		return 1.0
	}
	return float64(dpi) / baseDPI
}

// Emit pushes a named event to the window content. The native panel renders
// text directly, so only the text-selected event has an effect: it updates
// the displayed string and triggers a repaint.
func (w *NativeWindow) Emit(event, payload string) error {
	if event != TextSelectedEvent {
		log.Printf("Toolbar window ignoring event %q", event)
		return nil
	}
	hwnd := w.handle()
	if hwnd == 0 {
		return fmt.Errorf("toolbar window not created")
	}

	windowTextMu.Lock()
	windowText = payload
	windowTextMu.Unlock()

	procPostMessage.Call(uintptr(hwnd), wmUpdateText, 0, 0)
	return nil
}

var classOnce sync.Once

func registerWindowClass() error {
	var err error
	classOnce.Do(func() {
		classPtr, _ := syscall.UTF16PtrFromString(windowClassName)
		cursor, _, _ := procLoadCursor.Call(0, idcArrow)
		wc := wndClassEx{
			CbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
			LpfnWndProc:   syscall.NewCallback(toolbarWndProc),
			HCursor:       syscall.Handle(cursor),
			HbrBackground: syscall.Handle(colorWindow + 1),
			LpszClassName: classPtr,
		}
		atom, _, _ := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc)))
		if atom == 0 {
			err = fmt.Errorf("failed to register toolbar window class")
		}
	})
	return err
}

func toolbarWndProc(hwnd syscall.Handle, message uint32, wParam, lParam uintptr) uintptr {
	switch message {
	case wmPaint:
		var ps paintStruct
		hdc, _, _ := procBeginPaint.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&ps)))

		windowTextMu.Lock()
		text := windowText
		windowTextMu.Unlock()

		r := ps.RcPaint
		textPtr, _ := syscall.UTF16PtrFromString(text)
		procDrawText.Call(
			hdc,
			uintptr(unsafe.Pointer(textPtr)),
			uintptr(^uint32(0)), // -1: NUL-terminated
			uintptr(unsafe.Pointer(&r)),
			dtCenter|dtVCenter|dtSingleLine|dtEndEllipsis,
		)

		procEndPaint.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&ps)))
		return 0

	case wmUpdateText:
		procInvalidateRect.Call(uintptr(hwnd), 0, 1)
		return 0

	case wmDestroy:
		// The panel is reused for the process lifetime; destruction only
		// happens at shutdown or on external teardown.
		return 0
	}

	ret, _, _ := procDefWindowProc.Call(uintptr(hwnd), uintptr(message), wParam, lParam)
	return ret
}
