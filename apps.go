package main

import (
	"sort"
	"strings"
)

// ListApps returns every installed package with its enabled state. The
// list is rebuilt from scratch: one `pm list packages` call for the
// full set and one with -d for the disabled overlay.
func (a *App) ListApps() ([]AppEntry, error) {
	all, err := a.runAdb("shell", "pm", "list", "packages")
	if err != nil {
		return nil, err
	}
	disabledOut, _ := a.runAdb("shell", "pm", "list", "packages", "-d")
	return buildAppEntries(all, disabledOut), nil
}

// buildAppEntries merges the full package list with the disabled
// subset, sorted by package id.
func buildAppEntries(allOut, disabledOut string) []AppEntry {
	disabled := make(map[string]bool)
	for _, pkg := range parsePackageList(disabledOut) {
		disabled[pkg] = true
	}

	pkgs := parsePackageList(allOut)
	sort.Strings(pkgs)

	entries := make([]AppEntry, 0, len(pkgs))
	for _, pkg := range pkgs {
		entries = append(entries, AppEntry{Package: pkg, Enabled: !disabled[pkg]})
	}
	return entries
}

// parsePackageList strips the `package:` prefixes from pm output.
func parsePackageList(out string) []string {
	var pkgs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if pkg, ok := strings.CutPrefix(line, "package:"); ok {
			if pkg = strings.TrimSpace(pkg); pkg != "" {
				pkgs = append(pkgs, pkg)
			}
		}
	}
	return pkgs
}

// EnableApp re-enables a disabled package.
func (a *App) EnableApp(pkg string) (string, error) {
	return a.runAdb("shell", "pm", "enable", pkg)
}

// DisableApp disables a package for the current user.
func (a *App) DisableApp(pkg string) (string, error) {
	return a.runAdb("shell", "pm", "disable-user", pkg)
}
