package main

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// StartMirror launches scrcpy mirroring the device's primary display.
func (a *App) StartMirror(config MirrorConfig) error {
	return a.launchScrcpy("mirror", mirrorArgs(config), "Starting scrcpy (Mirror Mode)...")
}

// StartNewDisplay launches scrcpy on a virtual secondary display.
func (a *App) StartNewDisplay(config MirrorConfig) error {
	return a.launchScrcpy("new-display", newDisplayArgs(config), "Starting scrcpy (New Display Mode)...")
}

// mirrorArgs builds the flag set for primary-display mirroring. A
// parseable WxH resolution becomes -m with the larger dimension, the
// way scrcpy caps sizes.
func mirrorArgs(config MirrorConfig) []string {
	var args []string
	if m := maxDimension(config.Resolution); m > 0 {
		args = append(args, "-m", strconv.Itoa(m))
	}
	if config.MaxFps > 0 {
		args = append(args, "--max-fps", strconv.Itoa(config.MaxFps))
	}
	return args
}

// newDisplayArgs builds the flag set for a virtual display:
// --new-display[=<res>[/<dpi>]], plus --max-fps when set.
func newDisplayArgs(config MirrorConfig) []string {
	var args []string
	res := strings.ToLower(strings.TrimSpace(config.Resolution))
	if res != "" || config.Dpi > 0 {
		value := res
		if config.Dpi > 0 {
			value += "/" + strconv.Itoa(config.Dpi)
		}
		args = append(args, "--new-display="+value)
	} else {
		args = append(args, "--new-display")
	}
	if config.MaxFps > 0 {
		args = append(args, "--max-fps", strconv.Itoa(config.MaxFps))
	}
	return args
}

// maxDimension parses "WxH" and returns the larger side, or 0 when the
// input is not a resolution.
func maxDimension(resolution string) int {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(resolution)), "x")
	if len(parts) != 2 {
		return 0
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0
	}
	if w > h {
		return w
	}
	return h
}

// launchScrcpy starts scrcpy asynchronously, replacing any session
// already running in the same mode, and reaps the process in the
// background so the UI learns when the window closes.
func (a *App) launchScrcpy(mode string, args []string, note string) error {
	a.scrcpyMu.Lock()
	if old, exists := a.scrcpyCmds[mode]; exists && old.Process != nil {
		_ = old.Process.Kill()
	}
	a.scrcpyMu.Unlock()

	cmd := exec.Command(a.scrcpyPath, args...)
	hideConsoleWindow(cmd)

	a.sessionLog.Command(strings.Join(append([]string{a.scrcpyPath}, args...), " "))
	a.logMessage(note)

	if err := cmd.Start(); err != nil {
		a.logMessage(fmt.Sprintf("Error starting scrcpy: %v", err))
		a.showError("Error", fmt.Sprintf("scrcpy not found or failed to start:\n%s\n%v", a.scrcpyPath, err))
		return fmt.Errorf("start scrcpy: %w", err)
	}

	a.scrcpyMu.Lock()
	a.scrcpyCmds[mode] = cmd
	a.scrcpyMu.Unlock()
	a.emit("scrcpy-started", mode)

	go func() {
		_ = cmd.Wait()
		a.scrcpyMu.Lock()
		if a.scrcpyCmds[mode] == cmd {
			delete(a.scrcpyCmds, mode)
		}
		a.scrcpyMu.Unlock()
		a.emit("scrcpy-stopped", mode)
	}()
	return nil
}

// StopMirror kills the scrcpy session running in the given mode.
func (a *App) StopMirror(mode string) {
	a.scrcpyMu.Lock()
	defer a.scrcpyMu.Unlock()
	if cmd, exists := a.scrcpyCmds[mode]; exists && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
