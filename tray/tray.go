// Package tray hosts the system tray icon and menu, the only always-visible
// surface the app has.
package tray

import (
	"log"
	"time"

	"github.com/getlantern/systray"

	"selection-toolbar/command"
)

const temporaryDisableDuration = 10 * time.Minute

// Run starts the systray loop and blocks until Quit. onExit is called after
// the tray shuts down, whether via the menu or systray.Quit.
func Run(svc *command.Service, onExit func()) {
	systray.Run(func() { onReady(svc) }, onExit)
}

// Quit tears the tray down and unblocks Run.
func Quit() {
	systray.Quit()
}

func onReady(svc *command.Service) {
	systray.SetIcon(getIcon())
	systray.SetTitle("Selection Toolbar")
	systray.SetTooltip("Selection Toolbar")

	mEnabled := systray.AddMenuItemCheckbox("Enabled", "Show the toolbar on text selection", true)
	mCopy := systray.AddMenuItem("Copy last selection", "Copy the last captured selection to the clipboard")
	mPause := systray.AddMenuItem("Pause for 10 minutes", "Temporarily stop showing the toolbar")
	mResume := systray.AddMenuItem("Resume now", "Clear a temporary pause")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mEnabled.ClickedCh:
				if mEnabled.Checked() {
					mEnabled.Uncheck()
					if err := svc.SetEnabled(false); err != nil {
						log.Printf("Failed to disable toolbar: %v", err)
					}
				} else {
					mEnabled.Check()
					if err := svc.SetEnabled(true); err != nil {
						log.Printf("Failed to enable toolbar: %v", err)
					}
				}
			case <-mCopy.ClickedCh:
				if err := svc.CopySelection(); err != nil {
					log.Printf("Failed to copy selection: %v", err)
				}
			case <-mPause.ClickedCh:
				if err := svc.TemporarilyDisableFor(temporaryDisableDuration); err != nil {
					log.Printf("Failed to pause toolbar: %v", err)
				}
			case <-mResume.ClickedCh:
				if err := svc.SetTemporaryDisabledUntil(0); err != nil {
					log.Printf("Failed to resume toolbar: %v", err)
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func getIcon() []byte {
	// TODO: ship an embedded .ico; the default systray icon is used until
	// then.
	return nil
}
