package main

import (
	"os"
	"os/exec"
	"path/filepath"
)

// resolveBinary locates an external tool. A copy sitting next to the
// executable wins over PATH so users can ship adb/scrcpy alongside the
// app. When neither exists the bare name is returned and the launch
// error is surfaced at invocation time.
func resolveBinary(name string) string {
	exe := name + exeSuffix
	if local := siblingPath(exe); local != "" {
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	if p, err := exec.LookPath(exe); err == nil {
		return p
	}
	return exe
}

// siblingPath returns the path of name next to the running executable,
// or "" if the executable path cannot be determined.
func siblingPath(name string) string {
	self, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(self), name)
}
