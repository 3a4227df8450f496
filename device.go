package main

import (
	"fmt"
	"strconv"
	"strings"
)

// ListDevices runs `adb devices` and returns the parsed device table.
func (a *App) ListDevices() ([]Device, error) {
	out, err := a.runAdb("devices")
	if err != nil {
		return nil, err
	}
	return parseDeviceList(out), nil
}

// parseDeviceList extracts serial/state pairs from `adb devices`
// output, skipping the header and daemon startup chatter.
func parseDeviceList(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{Serial: fields[0], State: fields[1]})
	}
	return devices
}

// ConnectWifi connects to a device over TCP/IP at host:port.
func (a *App) ConnectWifi(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		a.logMessage("IP address cannot be empty.")
		return "", nil
	}
	return a.runAdb("connect", address)
}

// RunCustomCommand runs a user-supplied adb command line. A `shell `
// prefix hands the remainder to adb as a single shell argument so
// quoting survives; anything else is split on whitespace.
func (a *App) RunCustomCommand(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		a.logMessage("No command entered.")
		return "", nil
	}
	return a.runAdb(customCommandArgs(command)...)
}

func customCommandArgs(command string) []string {
	if rest, ok := strings.CutPrefix(command, "shell "); ok {
		return []string{"shell", strings.TrimSpace(rest)}
	}
	return strings.Fields(command)
}

// Reboot reboots the device into the given mode: "" for a normal
// reboot, or "recovery" / "bootloader".
func (a *App) Reboot(mode string) (string, error) {
	args := []string{"reboot"}
	if mode != "" {
		args = append(args, mode)
	}
	return a.runAdb(args...)
}

// SetDensity changes the device display density.
func (a *App) SetDensity(dpi int) (string, error) {
	if dpi <= 0 {
		return "", fmt.Errorf("invalid density: %d", dpi)
	}
	out, err := a.runAdb("shell", "wm", "density", strconv.Itoa(dpi))
	a.logMessage("Note: You may need to reboot your device for DPI changes to apply system-wide.")
	return out, err
}
