package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// setupLogging configures the package logger: console on stderr, plus an append-only
// log file when cfg.logPath is set.
//
// Parameters:
//   - cfg: Parsed command-line flags.
//
// Returns:
//   - *os.File: The log file the caller must close, or nil when logging to the console only.
//   - error: Non-nil if the level is unknown or the log file cannot be opened.
func setupLogging(cfg *Config) (*os.File, error) {
	level, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.logLevel, err)
	}

	var logFile *os.File
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	if cfg.logPath != "" {
		// Ensure directory exists for file logging
		if err := os.MkdirAll(filepath.Dir(cfg.logPath), 0755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(cfg.logPath), err)
		}
		f, err := os.OpenFile(cfg.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		logFile = f // this one needs to be closed later (not stderr)
		out = zerolog.MultiLevelWriter(out, f)
	}

	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.logPath != "" {
		logger.Info().Str("path", cfg.logPath).Msg("=== LOG INITIALIZED ===")
	}
	return logFile, nil
}
