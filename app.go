package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// App is the backend bound to the frontend. All exported methods are
// callable from the UI; backend-to-UI notification goes through Wails
// runtime events only.
type App struct {
	ctx context.Context

	adbPath        string
	scrcpyPath     string
	bundletoolPath string
	dataDir        string

	sessionLog *SessionLog
	history    *HistoryStore
	inbox      *InboxWatcher

	logcat   *logcatWorker
	logcatMu sync.Mutex

	// Scrcpy process management, keyed by launch mode
	scrcpyCmds map[string]*exec.Cmd
	scrcpyMu   sync.Mutex

	version string
}

// NewApp creates a new App instance
func NewApp(version string) *App {
	return &App{
		scrcpyCmds: make(map[string]*exec.Cmd),
		version:    version,
	}
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	InitLogger()
	a.setupPaths()

	a.sessionLog = NewSessionLog(filepath.Join(a.dataDir, "debug.txt"), func(line string) {
		a.emit("session-log", line)
	})

	store, err := NewHistoryStore(filepath.Join(a.dataDir, "history.db"))
	if err != nil {
		LogError("app").Err(err).Msg("Failed to open command history store")
	} else {
		a.history = store
	}

	a.inbox = NewInboxWatcher(a, filepath.Join(a.dataDir, "inbox"))
	if err := a.inbox.Start(); err != nil {
		LogError("app").Err(err).Msg("Failed to start install inbox watcher")
	}

	LogInfo("app").Str("version", a.version).Str("adb", a.adbPath).Msg("SageADB started")
}

// Shutdown is called when the application is closing
func (a *App) Shutdown(ctx context.Context) {
	a.StopLogcat()
	if a.inbox != nil {
		a.inbox.Stop()
	}

	a.scrcpyMu.Lock()
	for mode, cmd := range a.scrcpyCmds {
		if cmd.Process != nil {
			LogInfo("app").Str("mode", mode).Msg("Killing mirroring session on shutdown")
			_ = cmd.Process.Kill()
		}
	}
	a.scrcpyMu.Unlock()

	if a.history != nil {
		a.history.Close()
	}
}

// GetAppVersion returns the application version
func (a *App) GetAppVersion() string {
	return a.version
}

// setupPaths resolves the data directory and external binaries. adb and
// scrcpy are searched next to the executable first, then on PATH;
// bundletool.jar is only ever looked up next to the executable.
func (a *App) setupPaths() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	a.dataDir = filepath.Join(configDir, "SageADB")
	_ = os.MkdirAll(a.dataDir, 0755)

	a.adbPath = resolveBinary("adb")
	a.scrcpyPath = resolveBinary("scrcpy")
	a.bundletoolPath = siblingPath("bundletool.jar")
}

// emit forwards an event to the frontend. No-op when running headless
// (tests, command line), where no Wails context exists.
func (a *App) emit(event string, data ...interface{}) {
	if a.ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(a.ctx, event, data...)
}

// showError surfaces a failure as a blocking error dialog plus a
// diagnostic log entry. Safe to call headless.
func (a *App) showError(title, message string) {
	LogError("ui").Str("title", title).Msg(message)
	if a.ctx == nil {
		return
	}
	_, _ = wailsRuntime.MessageDialog(a.ctx, wailsRuntime.MessageDialogOptions{
		Type:    wailsRuntime.ErrorDialog,
		Title:   title,
		Message: message,
	})
}

// logMessage appends an informational line to the session log, guarding
// against use before startup.
func (a *App) logMessage(msg string) {
	if a.sessionLog != nil {
		a.sessionLog.Message(msg)
	}
}
