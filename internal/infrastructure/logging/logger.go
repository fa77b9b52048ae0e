// Package logging provides structured logging utilities.
//
// Logs are formatted Maven-style with colors:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/spendwise/banktext-backend/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(NewMavenHandler(os.Stdout, opts))
}

// NewLoggerWithSystem creates a logger with a system prefix (e.g.
// "ingest", "api"), useful for scoped loggers handed to subsystems.
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	return NewLogger(cfg).With("system", system)
}
