// Package logging wraps slog with the stratoctl defaults: structured JSON to
// stderr, LOG_LEVEL environment configuration, and module/version context on
// every record.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel configures verbosity when no explicit level is given.
const EnvLogLevel = "LOG_LEVEL"

// New builds a JSON logger writing to stderr with module and version
// attached to every record. Debug level enables source location tracking.
func New(module, version, level string) *slog.Logger {
	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler).With("module", module, "version", version)
}

// SetDefault installs the stratoctl logger as the process default, so plain
// slog calls anywhere in the program share the same format and level.
func SetDefault(module, version, level string) {
	slog.SetDefault(New(module, version, level))
}

// ParseLevel maps a case-insensitive level name onto slog's levels. The
// empty string reads LOG_LEVEL; unrecognized names fall back to info.
func ParseLevel(level string) slog.Level {
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
