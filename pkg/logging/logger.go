// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging builds the structured loggers used across the SDK.
//
// Built on log/slog with stderr output, following Unix conventions for
// libraries embedded in a host process: the SDK never owns log files and
// never writes to stdout (the capture pipeline redirects stdout and must not
// see its own diagnostics there).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for recoverable, unexpected situations.
	LevelWarn

	// LevelError is for failed operations the system survives.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures logger construction. A zero Config yields an Info-level
// text logger on stderr.
type Config struct {
	// Level sets the minimum level; messages below it are discarded.
	Level Level

	// JSON switches output from human-readable text to JSON objects.
	JSON bool

	// Quiet discards all output. Useful in tests and in hosts that install
	// their own slog handler and want the SDK silent.
	Quiet bool

	// Service is attached to every entry as the "service" attribute.
	Service string
}

// New builds a slog.Logger from cfg.
func New(cfg Config) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Quiet {
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// Default returns a stderr text logger with the level taken from the
// ANOSYS_LOG_LEVEL environment variable (debug, info, warn, error).
func Default() *slog.Logger {
	return New(Config{Level: ParseLevel(os.Getenv("ANOSYS_LOG_LEVEL"))})
}

// ParseLevel maps a level name to a Level, case-insensitively. Unknown or
// empty names map to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
