//go:build !windows

package main

import "os/exec"

const exeSuffix = ""

func hideConsoleWindow(cmd *exec.Cmd) {}
