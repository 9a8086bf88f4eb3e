// Package log provides configurable logging for routinepanel with
// console and file backends.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config holds all logging configuration.
type Config struct {
	Mode   string // "console", "file"
	Level  string // "debug", "info", "warn", "error"
	Format string // "text", "json"

	// File-specific
	FilePath   string
	MaxSizeMB  int // Rotate when file exceeds this size
	MaxAgeDays int // Delete rotated files older than this
	MaxBackups int // Keep at most this many rotated files
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:       "console",
		Level:      "info",
		Format:     "text",
		FilePath:   "routinepanel.log",
		MaxSizeMB:  100,
		MaxAgeDays: 7,
		MaxBackups: 3,
	}
}

// ParseLevel converts a string level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewConsoleHandler creates a handler that writes to the given writer,
// as text or JSON per the config.
func NewConsoleHandler(w io.Writer, cfg *Config, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

var (
	defaultLogger *slog.Logger
	mu            sync.RWMutex
)

// Init initializes the global logger with the given configuration.
func Init(cfg *Config) error {
	mu.Lock()
	defer mu.Unlock()

	var handler slog.Handler
	level := ParseLevel(cfg.Level)

	if cfg.Mode == "file" {
		h, err := NewFileHandler(cfg, level)
		if err != nil {
			return err
		}
		handler = h
	} else {
		handler = NewConsoleHandler(os.Stdout, cfg, level)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return nil
}

// Logger returns the current default logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if defaultLogger == nil {
		return slog.Default()
	}
	return defaultLogger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
