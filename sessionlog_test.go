package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var sessionLinePattern = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `)

func TestSessionLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.txt")
	var emitted []string
	log := NewSessionLog(path, func(line string) { emitted = append(emitted, line) })

	log.Command("adb devices")
	log.Output("line one\nline two")
	log.Message("informational")
	log.Logcat("D/Tag( 123): hello")

	if len(emitted) != 5 {
		t.Fatalf("Expected 5 emitted lines, got %d: %v", len(emitted), emitted)
	}
	for _, line := range emitted {
		if !sessionLinePattern.MatchString(line) {
			t.Errorf("Line missing timestamp prefix: %s", line)
		}
	}
	if !strings.Contains(emitted[0], "$ adb devices") {
		t.Errorf("Expected command prefix $, got %s", emitted[0])
	}
	if !strings.Contains(emitted[1], "> line one") || !strings.Contains(emitted[2], "> line two") {
		t.Errorf("Expected per-line output entries, got %v", emitted[1:3])
	}
	if !strings.Contains(emitted[4], "[LOGCAT] D/Tag( 123): hello") {
		t.Errorf("Expected logcat tag, got %s", emitted[4])
	}
}

func TestSessionLogFileMatchesEmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.txt")
	var emitted []string
	log := NewSessionLog(path, func(line string) { emitted = append(emitted, line) })

	log.Command("adb install foo.apk")
	log.Output("Success")
	log.Logcat("I/ActivityManager: started")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read session log: %v", err)
	}
	fileLines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(fileLines) != len(emitted) {
		t.Fatalf("File has %d lines, UI saw %d", len(fileLines), len(emitted))
	}
	for i := range fileLines {
		if fileLines[i] != emitted[i] {
			t.Errorf("Line %d mismatch:\nfile: %s\nui:   %s", i, fileLines[i], emitted[i])
		}
	}
}

func TestSessionLogTruncatesPreviousSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.txt")
	if err := os.WriteFile(path, []byte("stale session data\n"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	log := NewSessionLog(path, nil)
	log.Message("fresh entry")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read session log: %v", err)
	}
	if strings.Contains(string(data), "stale session data") {
		t.Error("Expected previous session content to be removed")
	}
	if !strings.Contains(string(data), "fresh entry") {
		t.Error("Expected new entry to be written")
	}
}

func TestSessionLogSkipsEmptyOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.txt")
	var emitted []string
	log := NewSessionLog(path, func(line string) { emitted = append(emitted, line) })

	log.Output("")
	log.Output("   \n  ")

	if len(emitted) != 0 {
		t.Errorf("Expected no entries for empty output, got %v", emitted)
	}
}
