package main

import (
	"path/filepath"
	"testing"
)

func TestInboxWatcherStartStop(t *testing.T) {
	app := newTestApp(t, nil)
	w := NewInboxWatcher(app, filepath.Join(t.TempDir(), "inbox"))

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()

	// Stopping twice must not panic or block.
	w.Stop()
}
