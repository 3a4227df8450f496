package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// logcatWorker states. Transitions are one-way:
// idle -> running -> stopping -> stopped.
const (
	workerIdle int32 = iota
	workerRunning
	workerStopping
	workerStopped
)

// logcatStopTimeout is how long a graceful termination may take before
// the process is killed outright.
const logcatStopTimeout = 2 * time.Second

// logcatEmitRate paces line delivery to the listener so a logcat flood
// cannot saturate the UI event bus. Lines are never dropped; delivery
// just waits for the token bucket.
var logcatEmitRate = rate.Limit(1000)

// logcatWorker streams an external process's output line-by-line to a
// listener on a dedicated goroutine. The worker owns the process handle
// exclusively; callers interact only through Start and Stop. Exactly
// one onStopped notification fires regardless of whether the stream
// ended on its own or was stopped.
type logcatWorker struct {
	bin  string
	args []string

	onLine    func(string)
	onStopped func()

	cmd      *exec.Cmd
	state    atomic.Int32
	limiter  *rate.Limiter
	emitCtx  context.Context
	emitStop context.CancelFunc

	waitErr  error
	waitDone chan struct{}
	done     chan struct{}

	stopOnce   sync.Once
	notifyOnce sync.Once
}

// newLogcatWorker builds a worker that will run bin with args. onLine
// receives each output line with the trailing newline stripped;
// onStopped fires once when the worker has fully torn down. Either
// callback may be nil.
func newLogcatWorker(bin string, args []string, onLine func(string), onStopped func()) *logcatWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &logcatWorker{
		bin:       bin,
		args:      args,
		onLine:    onLine,
		onStopped: onStopped,
		limiter:   rate.NewLimiter(logcatEmitRate, 200),
		emitCtx:   ctx,
		emitStop:  cancel,
		waitDone:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the process and begins streaming. It may be called at
// most once; restarting requires a new worker.
func (w *logcatWorker) Start() error {
	if !w.state.CompareAndSwap(workerIdle, workerRunning) {
		return fmt.Errorf("logcat worker already started")
	}

	cmd := exec.Command(w.bin, w.args...)
	hideConsoleWindow(cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		w.state.Store(workerStopped)
		close(w.done)
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		w.state.Store(workerStopped)
		close(w.done)
		return fmt.Errorf("failed to start %s: %w", w.bin, err)
	}
	w.cmd = cmd

	// Sole owner of Wait; everyone else observes waitDone.
	go func() {
		w.waitErr = cmd.Wait()
		close(w.waitDone)
	}()
	go w.loop(stdout)
	return nil
}

// Stop requests termination and blocks until the worker has torn down.
// Safe to call multiple times and after the stream has already ended;
// a no-op on a never-started worker.
func (w *logcatWorker) Stop() {
	if w.state.Load() == workerIdle {
		return
	}
	w.stopOnce.Do(func() {
		w.state.CompareAndSwap(workerRunning, workerStopping)
		w.emitStop()
		w.terminate()
	})
	<-w.done
}

// Running reports whether the stream is still being read.
func (w *logcatWorker) Running() bool {
	return w.state.Load() == workerRunning
}

// loop reads the stream until it ends, then reaps the process and fires
// the terminal notification.
func (w *logcatWorker) loop(r io.Reader) {
	defer close(w.done)

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" && w.state.Load() == workerRunning {
			if w.limiter.Wait(w.emitCtx) == nil && w.onLine != nil {
				w.onLine(strings.TrimRight(line, "\r\n"))
			}
		}
		if err != nil {
			break
		}
	}

	w.terminate()
	<-w.waitDone
	w.state.Store(workerStopped)
	w.notifyOnce.Do(func() {
		if w.onStopped != nil {
			w.onStopped()
		}
	})
}

// terminate asks the process to exit gracefully, falling back to a
// forced kill after logcatStopTimeout. Returns once the process has
// been reaped or the kill was issued.
func (w *logcatWorker) terminate() {
	if w.cmd == nil || w.cmd.Process == nil {
		return
	}
	p := w.cmd.Process
	select {
	case <-w.waitDone:
		return
	default:
	}
	// Interrupt is not deliverable on every platform; the kill below
	// covers those cases.
	_ = p.Signal(os.Interrupt)
	select {
	case <-w.waitDone:
	case <-time.After(logcatStopTimeout):
		_ = p.Kill()
	}
}

// StartLogcat begins streaming `adb logcat` to the UI. An active stream
// is stopped first, so at most one worker exists at a time.
func (a *App) StartLogcat() error {
	a.logcatMu.Lock()
	if a.logcat != nil {
		old := a.logcat
		a.logcat = nil
		a.logcatMu.Unlock()
		old.Stop()
		a.logcatMu.Lock()
	}

	worker := newLogcatWorker(a.adbPath, []string{"logcat"},
		func(line string) {
			a.sessionLog.Logcat(line)
			a.emit("logcat-line", line)
		},
		func() {
			a.logMessage("Logcat stopped.")
			a.emit("logcat-stopped")
		},
	)
	if err := worker.Start(); err != nil {
		a.logcatMu.Unlock()
		a.logMessage(fmt.Sprintf("Error starting logcat: %v", err))
		a.showError("Error", fmt.Sprintf("Could not start logcat: %v", err))
		return err
	}
	a.logcat = worker
	a.logcatMu.Unlock()
	return nil
}

// StopLogcat stops the active logcat stream, blocking until the worker
// has torn down. No-op when nothing is streaming.
func (a *App) StopLogcat() {
	a.logcatMu.Lock()
	worker := a.logcat
	a.logcat = nil
	a.logcatMu.Unlock()
	if worker != nil {
		worker.Stop()
	}
}

// IsLogcatRunning reports whether a logcat stream is active.
func (a *App) IsLogcatRunning() bool {
	a.logcatMu.Lock()
	defer a.logcatMu.Unlock()
	return a.logcat != nil && a.logcat.Running()
}
