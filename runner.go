package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// defaultCommandTimeout bounds ordinary bridge commands so a hung
	// adb cannot stall the interface forever.
	defaultCommandTimeout = 30 * time.Second

	// installCommandTimeout covers split installs and bundletool, which
	// legitimately run long on big packages.
	installCommandTimeout = 10 * time.Minute
)

// runAdb invokes the device bridge synchronously and returns its
// combined output.
func (a *App) runAdb(args ...string) (string, error) {
	return a.runCommand(a.adbPath, defaultCommandTimeout, args...)
}

// runCommand executes an external tool synchronously, logging the
// joined command line and its combined stdout+stderr to the session
// log. A non-zero exit is not an error at this level: the tool ran and
// its output is the result the user needs to see. Launch failures
// (missing binary, OS error) are logged, shown as a modal dialog, and
// returned; they never propagate uncaught past the caller.
func (a *App) runCommand(bin string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	display := strings.Join(append([]string{bin}, args...), " ")
	a.sessionLog.Command(display)

	cmd := exec.CommandContext(ctx, bin, args...)
	hideConsoleWindow(cmd)
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	a.sessionLog.Output(text)

	if ctx.Err() == context.DeadlineExceeded {
		a.sessionLog.Message(fmt.Sprintf("Command timed out after %s.", timeout))
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		a.recordHistory(display, text, true)
		return text, nil
	case errors.As(err, &exitErr):
		a.recordHistory(display, text, false)
		return text, nil
	default:
		a.recordHistory(display, text, false)
		a.sessionLog.Message(fmt.Sprintf("Error running command: %v", err))
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			a.showError("Error", fmt.Sprintf("%s not found. Place it next to the SageADB executable or on your PATH.", filepath.Base(bin)))
		} else {
			a.showError("Error", err.Error())
		}
		return text, fmt.Errorf("run %s: %w", filepath.Base(bin), err)
	}
}

// recordHistory appends one invocation to the persistent command
// history, best-effort.
func (a *App) recordHistory(command, output string, success bool) {
	if a.history == nil {
		return
	}
	a.history.Record(command, output, success)
}
