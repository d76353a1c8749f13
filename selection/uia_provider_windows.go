//go:build windows

package selection

import (
	"log"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// Bounded descendant search ceilings. Earlier unbounded subtree searches froze
// the process on deeply nested Chromium UI trees, so the walk gives up once
// either ceiling is hit and the provider falls through.
const (
	uiaMaxSearchDepth = 3
	uiaMaxSearchNodes = 400
)

var (
	clsidCUIAutomation          = ole.NewGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation            = ole.NewGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")
	iidIUIAutomationTextPattern = ole.NewGUID("{32EBA289-3583-42C9-9C3C-A3790AAE2FCB}")
)

const uiaTextPatternID = 10014 // UIA_TextPatternId

var (
	uiaUser32                  = windows.NewLazySystemDLL("user32.dll")
	uiaOleaut32                = windows.NewLazySystemDLL("oleaut32.dll")
	procUIAGetForegroundWindow = uiaUser32.NewProc("GetForegroundWindow")
	procSysFreeString          = uiaOleaut32.NewProc("SysFreeString")
)

// UIAutomationProvider reads the selection through the Windows UI Automation
// TextPattern of the focused element, falling back to a bounded walk of the
// foreground window's descendants. Highest priority: works with most modern
// applications. The automation instance is re-acquired per call; the provider
// itself is stateless.
type UIAutomationProvider struct{}

func NewUIAutomationProvider() *UIAutomationProvider { return &UIAutomationProvider{} }

func (p *UIAutomationProvider) Name() string { return "windows-uia" }

func (p *UIAutomationProvider) Capture() (string, bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("UIA provider panic recovered: %v", r)
		}
	}()

	// The STA is bound to the OS thread, so the goroutine must not migrate
	// between init and the vtable calls below.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE (already initialized on this thread) still needs the
		// balancing CoUninitialize.
		if oleErr, isOle := err.(*ole.OleError); !isOle || oleErr.Code() != uintptr(1) {
			log.Printf("UIA provider COM init error: %v", err)
			return "", false
		}
	}
	defer ole.CoUninitialize()

	auto, err := newUIAutomation()
	if err != nil {
		log.Printf("UIA provider failed to create automation instance: %v", err)
		return "", false
	}
	defer auto.Release()

	hwnd, _, _ := procUIAGetForegroundWindow.Call()
	if hwnd == 0 {
		log.Printf("UIA provider skipped: no foreground window")
		return "", false
	}

	// Candidate elements: focused element first, then the window root.
	var candidates []*uiaElement
	if focus, err := auto.GetFocusedElement(); err == nil && focus != nil {
		candidates = append(candidates, focus)
	} else if err != nil {
		log.Printf("UIA provider: failed to get focused element: %v", err)
	}
	if root, err := auto.ElementFromHandle(hwnd); err == nil && root != nil {
		candidates = append(candidates, root)
	} else if err != nil {
		log.Printf("UIA provider: failed to resolve element from hwnd: %v", err)
	}
	for _, c := range candidates {
		defer c.Release()
	}
	if len(candidates) == 0 {
		return "", false
	}

	walker, err := auto.RawViewWalker()
	if err != nil {
		log.Printf("UIA provider: failed to create tree walker: %v", err)
		walker = nil
	}
	if walker != nil {
		defer walker.Release()
	}

	for _, element := range candidates {
		pattern := obtainTextPattern(element, walker)
		if pattern == nil {
			continue
		}
		text, ok := readSelectedText(pattern)
		pattern.Release()
		if ok {
			return Normalize(text)
		}
	}

	return "", false
}

// obtainTextPattern tries the element itself first, then runs a bounded
// depth-first walk over its descendants looking for one that exposes
// TextPattern. Returns nil when nothing within the ceilings qualifies.
func obtainTextPattern(element *uiaElement, walker *uiaTreeWalker) *uiaTextPattern {
	if pattern := element.TextPattern(); pattern != nil {
		return pattern
	}
	if walker == nil {
		return nil
	}

	visited := 0
	return searchTextPattern(element, walker, 1, &visited)
}

func searchTextPattern(element *uiaElement, walker *uiaTreeWalker, depth int, visited *int) *uiaTextPattern {
	if depth > uiaMaxSearchDepth {
		return nil
	}

	child, err := walker.FirstChild(element)
	if err != nil {
		return nil
	}
	for child != nil {
		*visited++
		if *visited > uiaMaxSearchNodes {
			child.Release()
			log.Printf("UIA provider: descendant search hit node ceiling (%d)", uiaMaxSearchNodes)
			return nil
		}

		if pattern := child.TextPattern(); pattern != nil {
			child.Release()
			return pattern
		}
		if pattern := searchTextPattern(child, walker, depth+1, visited); pattern != nil {
			child.Release()
			return pattern
		}

		next, err := walker.NextSibling(child)
		child.Release()
		if err != nil {
			return nil
		}
		child = next
	}
	return nil
}

// readSelectedText extracts the text of the first selection range, if any.
func readSelectedText(pattern *uiaTextPattern) (string, bool) {
	ranges, err := pattern.GetSelection()
	if err != nil || ranges == nil {
		return "", false
	}
	defer ranges.Release()

	length, err := ranges.Length()
	if err != nil || length <= 0 {
		return "", false
	}

	r, err := ranges.GetElement(0)
	if err != nil || r == nil {
		return "", false
	}
	defer r.Release()

	text, err := r.GetText(-1)
	if err != nil {
		return "", false
	}
	return text, true
}

// -----------------------------------------------------------------------------
// Raw UI Automation COM bindings
//
// IUIAutomation does not implement IDispatch, so go-ole's automation helpers
// cannot drive it; the vtables below mirror UIAutomationClient.h up to the
// slots this provider needs.
// -----------------------------------------------------------------------------

type uiAutomation struct {
	vtbl *uiAutomationVtbl
}

type uiAutomationVtbl struct {
	ole.IUnknownVtbl
	CompareElements             uintptr
	CompareRuntimeIds           uintptr
	GetRootElement              uintptr
	ElementFromHandle           uintptr
	ElementFromPoint            uintptr
	GetFocusedElement           uintptr
	GetRootElementBuildCache    uintptr
	ElementFromHandleBuildCache uintptr
	ElementFromPointBuildCache  uintptr
	GetFocusedElementBuildCache uintptr
	CreateTreeWalker            uintptr
	GetControlViewWalker        uintptr
	GetContentViewWalker        uintptr
	GetRawViewWalker            uintptr
}

func newUIAutomation() (*uiAutomation, error) {
	unknown, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
	if err != nil {
		return nil, err
	}
	return (*uiAutomation)(unsafe.Pointer(unknown)), nil
}

func (a *uiAutomation) Release() {
	(*ole.IUnknown)(unsafe.Pointer(a)).Release()
}

func (a *uiAutomation) GetFocusedElement() (*uiaElement, error) {
	var element *uiaElement
	hr, _, _ := syscall.SyscallN(a.vtbl.GetFocusedElement,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(&element)))
	if int32(hr) < 0 {
		return nil, ole.NewError(hr)
	}
	return element, nil
}

func (a *uiAutomation) ElementFromHandle(hwnd uintptr) (*uiaElement, error) {
	var element *uiaElement
	hr, _, _ := syscall.SyscallN(a.vtbl.ElementFromHandle,
		uintptr(unsafe.Pointer(a)),
		hwnd,
		uintptr(unsafe.Pointer(&element)))
	if int32(hr) < 0 {
		return nil, ole.NewError(hr)
	}
	return element, nil
}

func (a *uiAutomation) RawViewWalker() (*uiaTreeWalker, error) {
	var walker *uiaTreeWalker
	hr, _, _ := syscall.SyscallN(a.vtbl.GetRawViewWalker,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(&walker)))
	if int32(hr) < 0 {
		return nil, ole.NewError(hr)
	}
	return walker, nil
}

type uiaElement struct {
	vtbl *uiaElementVtbl
}

type uiaElementVtbl struct {
	ole.IUnknownVtbl
	SetFocus                  uintptr
	GetRuntimeId              uintptr
	FindFirst                 uintptr
	FindAll                   uintptr
	FindFirstBuildCache       uintptr
	FindAllBuildCache         uintptr
	BuildUpdatedCache         uintptr
	GetCurrentPropertyValue   uintptr
	GetCurrentPropertyValueEx uintptr
	GetCachedPropertyValue    uintptr
	GetCachedPropertyValueEx  uintptr
	GetCurrentPatternAs       uintptr
	GetCachedPatternAs        uintptr
	GetCurrentPattern         uintptr
}

func (e *uiaElement) Release() {
	(*ole.IUnknown)(unsafe.Pointer(e)).Release()
}

// TextPattern returns the element's TextPattern, or nil when the element does
// not expose one.
func (e *uiaElement) TextPattern() *uiaTextPattern {
	var unknown *ole.IUnknown
	hr, _, _ := syscall.SyscallN(e.vtbl.GetCurrentPattern,
		uintptr(unsafe.Pointer(e)),
		uintptr(uiaTextPatternID),
		uintptr(unsafe.Pointer(&unknown)))
	if int32(hr) < 0 || unknown == nil {
		return nil
	}
	defer unknown.Release()

	disp, err := unknown.QueryInterface(iidIUIAutomationTextPattern)
	if err != nil || disp == nil {
		return nil
	}
	return (*uiaTextPattern)(unsafe.Pointer(disp))
}

type uiaTreeWalker struct {
	vtbl *uiaTreeWalkerVtbl
}

type uiaTreeWalkerVtbl struct {
	ole.IUnknownVtbl
	GetParentElement          uintptr
	GetFirstChildElement      uintptr
	GetLastChildElement       uintptr
	GetNextSiblingElement     uintptr
	GetPreviousSiblingElement uintptr
}

func (w *uiaTreeWalker) Release() {
	(*ole.IUnknown)(unsafe.Pointer(w)).Release()
}

func (w *uiaTreeWalker) FirstChild(e *uiaElement) (*uiaElement, error) {
	var child *uiaElement
	hr, _, _ := syscall.SyscallN(w.vtbl.GetFirstChildElement,
		uintptr(unsafe.Pointer(w)),
		uintptr(unsafe.Pointer(e)),
		uintptr(unsafe.Pointer(&child)))
	if int32(hr) < 0 {
		return nil, ole.NewError(hr)
	}
	return child, nil
}

func (w *uiaTreeWalker) NextSibling(e *uiaElement) (*uiaElement, error) {
	var sibling *uiaElement
	hr, _, _ := syscall.SyscallN(w.vtbl.GetNextSiblingElement,
		uintptr(unsafe.Pointer(w)),
		uintptr(unsafe.Pointer(e)),
		uintptr(unsafe.Pointer(&sibling)))
	if int32(hr) < 0 {
		return nil, ole.NewError(hr)
	}
	return sibling, nil
}

type uiaTextPattern struct {
	vtbl *uiaTextPatternVtbl
}

type uiaTextPatternVtbl struct {
	ole.IUnknownVtbl
	RangeFromPoint uintptr
	RangeFromChild uintptr
	GetSelection   uintptr
}

func (p *uiaTextPattern) Release() {
	(*ole.IUnknown)(unsafe.Pointer(p)).Release()
}

func (p *uiaTextPattern) GetSelection() (*uiaTextRangeArray, error) {
	var ranges *uiaTextRangeArray
	hr, _, _ := syscall.SyscallN(p.vtbl.GetSelection,
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(&ranges)))
	if int32(hr) < 0 {
		return nil, ole.NewError(hr)
	}
	return ranges, nil
}

type uiaTextRangeArray struct {
	vtbl *uiaTextRangeArrayVtbl
}

type uiaTextRangeArrayVtbl struct {
	ole.IUnknownVtbl
	GetLength  uintptr
	GetElement uintptr
}

func (a *uiaTextRangeArray) Release() {
	(*ole.IUnknown)(unsafe.Pointer(a)).Release()
}

func (a *uiaTextRangeArray) Length() (int32, error) {
	var length int32
	hr, _, _ := syscall.SyscallN(a.vtbl.GetLength,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(&length)))
	if int32(hr) < 0 {
		return 0, ole.NewError(hr)
	}
	return length, nil
}

func (a *uiaTextRangeArray) GetElement(index int32) (*uiaTextRange, error) {
	var r *uiaTextRange
	hr, _, _ := syscall.SyscallN(a.vtbl.GetElement,
		uintptr(unsafe.Pointer(a)),
		uintptr(index),
		uintptr(unsafe.Pointer(&r)))
	if int32(hr) < 0 {
		return nil, ole.NewError(hr)
	}
	return r, nil
}

type uiaTextRange struct {
	vtbl *uiaTextRangeVtbl
}

type uiaTextRangeVtbl struct {
	ole.IUnknownVtbl
	Clone                 uintptr
	Compare               uintptr
	CompareEndpoints      uintptr
	ExpandToEnclosingUnit uintptr
	FindAttribute         uintptr
	FindText              uintptr
	GetAttributeValue     uintptr
	GetBoundingRectangles uintptr
	GetEnclosingElement   uintptr
	GetText               uintptr
}

func (r *uiaTextRange) Release() {
	(*ole.IUnknown)(unsafe.Pointer(r)).Release()
}

// GetText reads up to maxLength characters of the range; -1 means no limit.
func (r *uiaTextRange) GetText(maxLength int32) (string, error) {
	var bstr *uint16
	hr, _, _ := syscall.SyscallN(r.vtbl.GetText,
		uintptr(unsafe.Pointer(r)),
		uintptr(maxLength),
		uintptr(unsafe.Pointer(&bstr)))
	if int32(hr) < 0 {
		return "", ole.NewError(hr)
	}
	if bstr == nil {
		return "", nil
	}
	defer procSysFreeString.Call(uintptr(unsafe.Pointer(bstr)))
	return ole.BstrToString(bstr), nil
}
