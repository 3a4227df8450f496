package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global diagnostic logger. It is separate from the
// session log: the session log records device commands for the user,
// Logger records application internals for debugging.
var Logger zerolog.Logger

// InitLogger configures the global logger with console output.
func InitLogger() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	Logger = zerolog.New(output).With().Timestamp().Logger()
}

// LogDebug returns a debug event tagged with the originating module.
func LogDebug(module string) *zerolog.Event {
	return Logger.Debug().Str("module", module)
}

// LogInfo returns an info event tagged with the originating module.
func LogInfo(module string) *zerolog.Event {
	return Logger.Info().Str("module", module)
}

// LogWarn returns a warn event tagged with the originating module.
func LogWarn(module string) *zerolog.Event {
	return Logger.Warn().Str("module", module)
}

// LogError returns an error event tagged with the originating module.
func LogError(module string) *zerolog.Event {
	return Logger.Error().Str("module", module)
}
