package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/tidwall/gjson"
)

// obbRemoteRoot is where Android expects expansion assets, keyed by
// package id below it.
const obbRemoteRoot = "/sdcard/Android/obb"

// errInvalidArchive marks a package file with a zip extension that is
// not actually a zip archive.
var errInvalidArchive = errors.New("invalid archive")

// InstallPackage installs a package file, dispatching on its extension:
// .apk installs directly, .apks goes through bundletool, .apkm/.xapk
// are extracted and installed as a split set with any bundled OBB
// assets pushed afterwards. Anything else logs a single unsupported
// message and performs no external invocation.
func (a *App) InstallPackage(path string) (InstallResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		a.logMessage("No package path specified.")
		return InstallResult{}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".apk":
		out, err := a.runAdb("install", path)
		return InstallResult{Strategy: "apk", Output: out}, err
	case ".apks":
		return a.installBundle(path)
	case ".apkm", ".xapk":
		return a.installSplitArchive(path, ext)
	default:
		a.logMessage(fmt.Sprintf("Unsupported file type: %s. Supported: .apk, .apkm, .xapk, .apks", ext))
		return InstallResult{Strategy: "unsupported"}, nil
	}
}

// installBundle installs an .apks archive through bundletool, which
// derives the device-specific split set itself.
func (a *App) installBundle(path string) (InstallResult, error) {
	if _, err := os.Stat(a.bundletoolPath); err != nil {
		a.logMessage("bundletool.jar is required to install .apks archives.")
		a.showError("Error", fmt.Sprintf("bundletool.jar not found at:\n%s", a.bundletoolPath))
		return InstallResult{Strategy: "bundletool"}, fmt.Errorf("bundletool.jar not found: %w", err)
	}
	out, err := a.runCommand("java", installCommandTimeout,
		"-jar", a.bundletoolPath,
		"install-apks",
		"--apks="+path,
		"--adb="+a.adbPath,
	)
	return InstallResult{Strategy: "bundletool", Output: out}, err
}

// installSplitArchive extracts a zip-based package (.apkm/.xapk),
// installs the contained APKs as one set, and pushes any bundled OBB
// directories. The temp extraction directory is removed on every exit
// path.
func (a *App) installSplitArchive(path, ext string) (InstallResult, error) {
	res := InstallResult{Strategy: "split-archive"}

	tempDir, err := extractZip(path)
	if err != nil {
		if errors.Is(err, errInvalidArchive) {
			a.logMessage(fmt.Sprintf("Failed to read %s: invalid archive.", path))
			a.showError("Error", fmt.Sprintf("Invalid %s file (not a valid ZIP archive).", ext))
		} else {
			a.logMessage(fmt.Sprintf("Error installing split package: %v", err))
			a.showError("Error", err.Error())
		}
		return res, err
	}
	defer os.RemoveAll(tempDir)

	if pkg := xapkPackageName(tempDir); pkg != "" {
		a.logMessage(fmt.Sprintf("Package declared by manifest: %s", pkg))
	}

	apkFiles := collectApkFiles(tempDir)
	if len(apkFiles) == 0 {
		a.logMessage(fmt.Sprintf("No .apk files found inside %s package.", ext))
	} else {
		args := append([]string{"install-multiple"}, apkFiles...)
		res.Output, _ = a.runCommand(a.adbPath, installCommandTimeout, args...)
	}

	obbDirs := findObbPackageDirs(tempDir)
	if len(obbDirs) == 0 {
		a.logMessage("No OBB assets detected in this package.")
	} else {
		res.ObbPackages = sortedKeys(obbDirs)
		a.logMessage(fmt.Sprintf("Detected OBB packages: %s", strings.Join(res.ObbPackages, ", ")))
		a.pushObbDirs(obbDirs)
	}

	return res, nil
}

// PushObbFolder pushes a local folder to the device's OBB root. Used by
// the manual push tab; archive installs push per-package instead.
func (a *App) PushObbFolder(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		a.logMessage("No source folder specified.")
		return "", nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		a.logMessage(fmt.Sprintf("Error: The specified path is not a valid folder: %s", dir))
		return "", nil
	}
	return a.runAdb("push", dir, obbRemoteRoot+"/")
}

// pushObbDirs pushes each detected OBB directory to the device, keyed
// by package id, creating the remote directory first.
func (a *App) pushObbDirs(dirs map[string]string) {
	for _, pkg := range sortedKeys(dirs) {
		remote := obbRemoteRoot + "/" + pkg
		_, _ = a.runAdb("shell", "mkdir", "-p", remote)
		a.logMessage(fmt.Sprintf("Pushing OBB assets for %s...", pkg))
		_, _ = a.runAdb("push", dirs[pkg], remote)
	}
}

// extractZip unpacks a zip archive into a fresh temp directory and
// returns its path. On any failure the directory is removed before
// returning, so callers only clean up after success.
func extractZip(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return "", fmt.Errorf("%w: %s", errInvalidArchive, path)
		}
		return "", err
	}
	defer zr.Close()

	tempDir, err := os.MkdirTemp("", "sageadb_")
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if err := extractZipEntry(tempDir, f); err != nil {
			_ = os.RemoveAll(tempDir)
			return "", err
		}
	}
	return tempDir, nil
}

// extractZipEntry writes one archive entry below root, refusing paths
// that would escape it.
func extractZipEntry(root string, f *zip.File) error {
	dest := filepath.Join(root, filepath.FromSlash(f.Name))
	if dest != root && !strings.HasPrefix(dest, root+string(filepath.Separator)) {
		return fmt.Errorf("archive entry escapes extraction root: %s", f.Name)
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// collectApkFiles lists every .apk under root, ordered so that any
// file whose name contains "base" installs first, ties broken by name.
// install-multiple needs the base package before its splits.
func collectApkFiles(root string) []string {
	var apks []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".apk") {
			apks = append(apks, p)
		}
		return nil
	})
	sort.Slice(apks, func(i, j int) bool {
		ni := strings.ToLower(filepath.Base(apks[i]))
		nj := strings.ToLower(filepath.Base(apks[j]))
		bi := strings.Contains(ni, "base")
		bj := strings.Contains(nj, "base")
		if bi != bj {
			return bi
		}
		return ni < nj
	})
	return apks
}

// findObbPackageDirs maps package ids to local OBB directories inside
// an extracted archive. A directory qualifies when it directly contains
// .obb files and its path segments include "android" followed later by
// "obb", matched case-insensitively; the segment after "obb" is the
// package id. When two directories claim the same package id the
// last one walked wins.
func findObbPackageDirs(root string) map[string]string {
	found := make(map[string]string)
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".obb") {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil || rel == "." {
			return nil
		}
		segs := strings.Split(rel, string(filepath.Separator))
		androidIdx := -1
		for i, seg := range segs {
			if strings.EqualFold(seg, "android") {
				androidIdx = i
				break
			}
		}
		if androidIdx < 0 {
			return nil
		}
		for j := androidIdx + 1; j < len(segs); j++ {
			if !strings.EqualFold(segs[j], "obb") || j+1 >= len(segs) {
				continue
			}
			pkgDir := filepath.Join(root, filepath.Join(segs[:j+2]...))
			if hasObbFiles(pkgDir) {
				found[segs[j+1]] = pkgDir
			}
			break
		}
		return nil
	})
	return found
}

// hasObbFiles reports whether dir directly contains at least one .obb
// file.
func hasObbFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".obb") {
			return true
		}
	}
	return false
}

// xapkPackageName reads the package name declared in an XAPK's
// manifest.json, or "" when the archive carries none.
func xapkPackageName(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "manifest.json"))
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "package_name").String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
