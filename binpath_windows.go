//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

const exeSuffix = ".exe"

// hideConsoleWindow keeps spawned tools from flashing a console window.
func hideConsoleWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
