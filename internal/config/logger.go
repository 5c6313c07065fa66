package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// ConfigureLogger installs the process-wide slog default logger for
// logLevel and logFile, and returns the opened log file (if any) so the
// caller can close it on shutdown.
//
// Valid log levels are "none", "error", "warn", "info", "debug"; any other
// value is an error. An empty logFile logs to stdout as text; a non-empty
// logFile logs as JSON to that path.
func ConfigureLogger(logLevel, logFile string) (*os.File, error) {
	if logLevel == "none" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	}

	opts := &slog.HandlerOptions{}
	switch logLevel {
	case "error":
		opts.Level = slog.LevelError
	case "warn":
		opts.Level = slog.LevelWarn
	case "info":
		opts.Level = slog.LevelInfo
	case "debug":
		opts.Level = slog.LevelDebug
	default:
		return nil, errors.New("config: unexpected log level " + logLevel)
	}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, opts)))
		return nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, opts)))
	return f, nil
}
