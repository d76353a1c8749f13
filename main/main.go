package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"selection-toolbar/clipboard"
	"selection-toolbar/command"
	"selection-toolbar/config"
	"selection-toolbar/hotkey"
	"selection-toolbar/logutil"
	"selection-toolbar/monitor"
	"selection-toolbar/selection"
	"selection-toolbar/toolbar"
	"selection-toolbar/tray"
	"selection-toolbar/worker"
)

func main() {
	snapshotOnce := flag.Bool("snapshot", false, "Print the toolbar state snapshot and exit")
	flag.Parse()

	// Ensure single instance
	ensureSingleInstance()
	defer os.Remove(pidFile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logutil.Setup(cfg.EnableFileLogging)

	if err := clipboard.Init(); err != nil {
		log.Fatalf("Failed to initialize clipboard: %v", err)
	}

	log.Printf("Selection Toolbar initialized")
	log.Printf("Hotkey: %s", cfg.Hotkey)
	log.Printf("Capture timeout: %v", cfg.CaptureTimeout)

	// Shared state, window and controller.
	state := toolbar.NewState(cfg.ToolbarEnabled, cfg.IgnoredApps)
	window := toolbar.NewNativeWindow()
	controller := toolbar.NewController(state, window)
	svc := command.NewService(state, controller)

	if *snapshotOnce {
		fmt.Printf("%+v\n", svc.Snapshot())
		return
	}

	if ok, err := svc.CheckAccessibilityPermission(); err != nil {
		log.Printf("Accessibility permission check failed: %v", err)
	} else if !ok {
		log.Printf("Accessibility permission missing, requesting...")
		if _, err := svc.RequestAccessibilityPermission(); err != nil {
			log.Printf("Accessibility permission request failed: %v", err)
		}
	}

	// Capture pipeline: providers behind a worker pool behind the monitor.
	providers := selection.BuildProviders()
	pool := worker.New(1)
	defer pool.Close()

	mon := monitor.New(state, controller, pool, providers, cfg.CaptureTimeout)
	monitor.Listen(mon)

	hotkey.Listen(cfg.Hotkey, mon.HandleHotkey)

	// The tray loop must run on the main goroutine on some platforms, so
	// signal handling moves to a helper goroutine that quits the tray.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("Shutting down due to signal...")
		tray.Quit()
	}()

	tray.Run(svc, func() {
		log.Printf("Shutting down...")
	})
}

const pidFile = "selection-toolbar.pid"

func ensureSingleInstance() {
	if _, err := os.Stat(pidFile); err == nil {
		if pidBytes, err := os.ReadFile(pidFile); err == nil {
			if oldPid, err := strconv.Atoi(string(pidBytes)); err == nil {
				// Try to kill the old process
				if process, err := os.FindProcess(oldPid); err == nil {
					log.Printf("Found existing instance with PID %d, killing it...", oldPid)
					process.Kill()
					process.Wait()
					log.Printf("Old instance killed")
				}
			}
		}
	}

	currentPid := os.Getpid()
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(currentPid)), 0644); err != nil {
		log.Printf("Warning: Could not write PID file: %v", err)
	} else {
		log.Printf("Running as PID %d", currentPid)
	}
}
