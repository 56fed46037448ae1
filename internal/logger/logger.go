// Package logger writes structured logs to a file. The terminal belongs to
// the TUI, so nothing is ever written to stdout or stderr.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu         sync.Mutex
	slogLogger = slog.New(slog.DiscardHandler)
	levelVar   = new(slog.LevelVar)
	logFile    *os.File
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Init opens path for appending and routes all loggers to it. Calling Init
// again replaces the previous file.
func Init(path, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	logFile = f
	levelVar.Set(lvl)
	slogLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	slogLogger.Debug("logger initialized", "path", path, "level", lvl.String())
	return nil
}

// Get returns the process logger. It discards everything until Init succeeds.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return slogLogger
}

// Component returns the process logger tagged with a component attribute.
func Component(name string) *slog.Logger {
	return Get().With(slog.String("component", name))
}

// SetLevel changes the minimum level of an initialised logger.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// Close flushes and closes the log file; later logging is discarded.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile != nil {
		if err := logFile.Close(); err != nil {
			// Nothing left to report to.
			_ = err
		}
		logFile = nil
	}
	slogLogger = slog.New(slog.DiscardHandler)
}
