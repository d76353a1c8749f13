//go:build !windows

package toolbar

import "fmt"

// NativeWindow is only implemented on Windows. Every operation reports a
// missing window, which the controller treats as "already hidden".
type NativeWindow struct{}

func NewNativeWindow() *NativeWindow { return &NativeWindow{} }

func (w *NativeWindow) EnsureCreated() error {
	return fmt.Errorf("toolbar window not supported on this platform")
}

func (w *NativeWindow) SetAlwaysOnTop(bool) error {
	return fmt.Errorf("toolbar window not supported on this platform")
}

func (w *NativeWindow) SetPosition(int, int) error {
	return fmt.Errorf("toolbar window not supported on this platform")
}

func (w *NativeWindow) Show() error {
	return fmt.Errorf("toolbar window not supported on this platform")
}

func (w *NativeWindow) Hide() error {
	return fmt.Errorf("toolbar window not supported on this platform")
}

func (w *NativeWindow) IsVisible() bool { return false }

func (w *NativeWindow) ScaleFactor() float64 { return 1.0 }

func (w *NativeWindow) Emit(string, string) error {
	return fmt.Errorf("toolbar window not supported on this platform")
}
