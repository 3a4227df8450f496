package main

// Device is one row of `adb devices` output.
type Device struct {
	Serial string `json:"serial"`
	State  string `json:"state"`
}

// AppEntry is an installed package plus its enabled state. The list is
// rebuilt in full on every refresh; the package id is the only identity.
type AppEntry struct {
	Package string `json:"package"`
	Enabled bool   `json:"enabled"`
}

// MirrorConfig carries the shared scrcpy settings from the SCRCPY tab.
// Resolution is "WxH" or empty for the device default; MaxFps and Dpi
// are skipped when zero.
type MirrorConfig struct {
	Resolution string `json:"resolution"`
	MaxFps     int    `json:"maxFps"`
	Dpi        int    `json:"dpi"`
}

// InstallResult summarizes one install operation.
type InstallResult struct {
	Strategy    string   `json:"strategy"`
	Output      string   `json:"output"`
	ObbPackages []string `json:"obbPackages,omitempty"`
}

// CommandRecord is one persisted runner invocation.
type CommandRecord struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Command   string `json:"command"`
	Output    string `json:"output"`
	Success   bool   `json:"success"`
}
