package monitor

import (
	"log"
	"time"

	gohook "github.com/robotn/gohook"
)

// hookRetryDelay paces restart attempts when the OS input hook dies.
const hookRetryDelay = 2 * time.Second

const leftMouseButton = 1

// Listen starts the global mouse hook in a background goroutine and feeds
// events into the monitor. The hook is restarted indefinitely if its event
// channel closes or fails to open; losing the hook would silently kill the
// whole product.
func Listen(m *Monitor) {
	go func() {
		for {
			runHook(m)
			log.Printf("Mouse hook stopped, restarting in %v", hookRetryDelay)
			time.Sleep(hookRetryDelay)
		}
	}()
}

func runHook(m *Monitor) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in mouse hook goroutine: %v", r)
		}
	}()

	log.Printf("Starting global mouse hook...")
	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("ERROR: gohook.Start() returned nil channel")
		return
	}
	defer gohook.End()

	for ev := range evChan {
		switch ev.Kind {
		case gohook.MouseMove, gohook.MouseDrag:
			m.HandleMouseMove(float64(ev.X), float64(ev.Y))
		case gohook.MouseUp:
			if ev.Button == leftMouseButton {
				m.HandleButtonRelease()
			}
		}
		// Keyboard events are left to the dedicated hotkey listener.
	}
	log.Printf("Mouse hook event channel closed")
}
