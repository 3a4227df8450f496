package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// SessionLog is the append-only per-session log file (debug.txt).
// Every line shown in the UI log pane goes through here and is written
// to the file in the same order, exactly once. The previous session's
// file is deleted on creation. Write failures never surface to the
// user; they are downgraded to the diagnostic logger.
type SessionLog struct {
	mu   sync.Mutex
	path string
	emit func(line string)
}

// NewSessionLog creates a fresh session log at path, removing any file
// left over from a previous session. emit, when non-nil, receives each
// formatted line for the UI; it is called in write order.
func NewSessionLog(path string, emit func(string)) *SessionLog {
	_ = os.Remove(path)
	return &SessionLog{path: path, emit: emit}
}

// Command records an issued command line.
func (s *SessionLog) Command(cmd string) {
	s.append("$ " + cmd)
}

// Output records command output, one log line per output line.
func (s *SessionLog) Output(output string) {
	output = strings.TrimSpace(output)
	if output == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range strings.Split(output, "\n") {
		s.writeLocked("> " + strings.TrimRight(line, "\r"))
	}
}

// Message records an informational line not tied to a command.
func (s *SessionLog) Message(msg string) {
	s.append("> " + msg)
}

// Logcat records one streamed logcat line.
func (s *SessionLog) Logcat(line string) {
	s.append("[LOGCAT] " + line)
}

func (s *SessionLog) append(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLocked(body)
}

func (s *SessionLog) writeLocked(body string) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), body)
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		LogError("sessionlog").Err(err).Msg("Failed to open session log")
	} else {
		if _, err := f.WriteString(line + "\n"); err != nil {
			LogError("sessionlog").Err(err).Msg("Failed to write session log")
		}
		_ = f.Close()
	}
	if s.emit != nil {
		s.emit(line)
	}
}
