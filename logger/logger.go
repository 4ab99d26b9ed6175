// Package logger initializes the zerolog logger shared by the client and
// the provider adapters. Log output carries a fixed "modelmux" component
// tag so multiplexer lines are easy to filter out of a host application's
// logs.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Init initializes a stderr console logger.
// Log level can be configured via the MODELMUX_LOG_LEVEL environment
// variable (trace, debug, info, warn, error).
func Init() zerolog.Logger {
	logger, _ := InitWithOptions("", true)
	return logger
}

// InitWithOptions initializes the logger with the specified options.
// If logFile is non-empty, JSON log lines are appended to that file.
// Otherwise output goes to stderr, as human-readable console output when
// pretty is true or JSON lines when false.
func InitWithOptions(logFile string, pretty bool) (zerolog.Logger, error) {
	level := parseLogLevel(os.Getenv("MODELMUX_LOG_LEVEL"))

	var output io.Writer
	switch {
	case logFile != "":
		//nolint:gosec // G304: user-specified log file path is intentional
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		output = file
	case pretty:
		output = zerolog.ConsoleWriter{Out: os.Stderr}
	default:
		output = os.Stderr
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("component", "modelmux").
		Logger()
	return logger, nil
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
