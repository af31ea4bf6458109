// Package logger provides structured logging for edgelogin.
//
// The interactive login owns the terminal, so logs go to stderr only for the
// non-interactive commands; the TUI points the logger at a file with
// [Configure] or discards it.
//
// All package functions use [DefaultLogger]. LOG_LEVEL sets the initial level.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// DefaultLogger is the global structured logger.
	DefaultLogger *slog.Logger

	mu      sync.Mutex
	sink    io.Closer
	current = new(slog.LevelVar)
)

func init() {
	current.Set(ParseLevel(os.Getenv("LOG_LEVEL"), slog.LevelInfo))
	DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: current}))
}

// ParseLevel maps a level name to a slog level, returning def for an empty
// or unknown name.
func ParseLevel(name string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return def
}

// SetLevel changes the level of the current logger.
func SetLevel(level slog.Level) {
	current.Set(level)
}

// Level returns the current level.
func Level() slog.Level {
	return current.Level()
}

// SetOutput replaces the destination of DefaultLogger.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeSink()
	DefaultLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: current}))
}

// Configure applies a level name and an optional log file. An empty path
// with discard set silences logging; otherwise an empty path keeps stderr.
func Configure(level, path string, discard bool) error {
	SetLevel(ParseLevel(level, Level()))

	if path == "" {
		if discard {
			SetOutput(io.Discard)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	closeSink()
	sink = f
	DefaultLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: current}))
	return nil
}

// Close releases a log file opened by Configure.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeSink()
}

func closeSink() error {
	if sink == nil {
		return nil
	}
	err := sink.Close()
	sink = nil
	return err
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return DefaultLogger.With(args...)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// Warn logs at warn level. Used for recoverable misuse.
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// Transition logs a committed navigation step.
func Transition(from, to, intent string) {
	DefaultLogger.Debug("transition", "from", from, "to", to, "intent", intent)
}
