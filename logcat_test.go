package main

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// collectingListener gathers streamed lines and stop notifications.
type collectingListener struct {
	mu      sync.Mutex
	lines   []string
	stopped atomic.Int32
	done    chan struct{}
}

func newCollectingListener() *collectingListener {
	return &collectingListener{done: make(chan struct{})}
}

func (c *collectingListener) onLine(line string) {
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
}

func (c *collectingListener) onStopped() {
	c.stopped.Add(1)
	close(c.done)
}

func (c *collectingListener) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses sh")
	}
}

func TestLogcatWorkerStreamsLines(t *testing.T) {
	requireUnix(t)
	l := newCollectingListener()
	w := newLogcatWorker("sh", []string{"-c", "printf 'alpha\\nbeta\\n'"}, l.onLine, l.onStopped)

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-l.done:
	case <-time.After(5 * time.Second):
		t.Fatal("Worker did not stop after stream ended")
	}

	lines := l.snapshot()
	if len(lines) != 2 || lines[0] != "alpha" || lines[1] != "beta" {
		t.Errorf("Expected [alpha beta], got %v", lines)
	}
	if n := l.stopped.Load(); n != 1 {
		t.Errorf("Expected exactly one stopped notification, got %d", n)
	}
	if w.Running() {
		t.Error("Expected worker not running after stream end")
	}
}

func TestLogcatWorkerStop(t *testing.T) {
	requireUnix(t)
	l := newCollectingListener()
	w := newLogcatWorker("sh", []string{"-c", "echo first; exec sleep 30"}, l.onLine, l.onStopped)

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for the first line so the stream is known to be live.
	deadline := time.Now().Add(5 * time.Second)
	for len(l.snapshot()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Never received first line")
		}
		time.Sleep(10 * time.Millisecond)
	}

	start := time.Now()
	w.Stop()
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Stop took too long: %v", elapsed)
	}

	select {
	case <-l.done:
	case <-time.After(time.Second):
		t.Fatal("Stopped notification never fired")
	}
	if n := l.stopped.Load(); n != 1 {
		t.Errorf("Expected exactly one stopped notification, got %d", n)
	}
	if w.Running() {
		t.Error("Expected worker stopped")
	}

	// Stop again must be a no-op.
	w.Stop()
	if n := l.stopped.Load(); n != 1 {
		t.Errorf("Second Stop produced another notification: %d", n)
	}
}

func TestLogcatWorkerStopWithoutStart(t *testing.T) {
	l := newCollectingListener()
	w := newLogcatWorker("sh", []string{"-c", "true"}, l.onLine, l.onStopped)

	finished := make(chan struct{})
	go func() {
		w.Stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Stop on a never-started worker blocked")
	}
	if n := l.stopped.Load(); n != 0 {
		t.Errorf("Expected no stopped notification, got %d", n)
	}
}

func TestLogcatWorkerDoubleStart(t *testing.T) {
	requireUnix(t)
	l := newCollectingListener()
	w := newLogcatWorker("sh", []string{"-c", "exec sleep 30"}, l.onLine, l.onStopped)
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err == nil {
		t.Error("Expected second Start to fail")
	}
}
