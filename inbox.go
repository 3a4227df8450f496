package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// InboxWatcher monitors the inbox directory and auto-installs package
// files dropped into it. Complete copies are detected by waiting for
// the file size to settle, since fsnotify reports creation before the
// writer finishes.
type InboxWatcher struct {
	app     *App
	dir     string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	mu      sync.Mutex
}

// NewInboxWatcher creates a watcher for dir; Start begins watching.
func NewInboxWatcher(app *App, dir string) *InboxWatcher {
	return &InboxWatcher{
		app:    app,
		dir:    dir,
		stopCh: make(chan struct{}),
	}
}

// Start creates the inbox directory if needed and begins watching it.
func (w *InboxWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return err
	}
	w.watcher = watcher

	LogInfo("inbox").Str("path", w.dir).Msg("Watching install inbox")
	go w.watch()
	return nil
}

// Stop stops watching. Installs already in flight finish on their own.
func (w *InboxWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	close(w.stopCh)
	_ = w.watcher.Close()
	w.watcher = nil
}

func (w *InboxWatcher) watch() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isInstallablePackage(event.Name) {
				continue
			}
			go w.installWhenStable(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			LogWarn("inbox").Err(err).Msg("Inbox watch error")
		}
	}
}

// installWhenStable waits for the file size to stop changing, then
// installs. Gives up after a minute of churn.
func (w *InboxWatcher) installWhenStable(path string) {
	var lastSize int64 = -1
	deadline := time.Now().Add(time.Minute)
	for time.Now().Before(deadline) {
		select {
		case <-w.stopCh:
			return
		case <-time.After(500 * time.Millisecond):
		}
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.Size() == lastSize {
			w.app.logMessage("Installing from inbox: " + filepath.Base(path))
			_, _ = w.app.InstallPackage(path)
			return
		}
		lastSize = info.Size()
	}
	LogWarn("inbox").Str("path", path).Msg("File never settled, skipping install")
}

// isInstallablePackage reports whether path has one of the supported
// package extensions.
func isInstallablePackage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apk", ".apks", ".apkm", ".xapk":
		return true
	}
	return false
}
