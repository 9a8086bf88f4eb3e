package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileHandler writes logs to a file with size-based rotation.
type FileHandler struct {
	mu         sync.Mutex
	file       *os.File
	path       string
	maxSize    int64 // bytes
	maxAge     int   // days
	maxBackups int
	size       int64
	format     string
	level      slog.Level
	inner      slog.Handler
}

// NewFileHandler creates a file handler with rotation.
func NewFileHandler(cfg *Config, level slog.Level) (*FileHandler, error) {
	dir := filepath.Dir(cfg.FilePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	maxSize := int64(cfg.MaxSizeMB) * 1024 * 1024
	if maxSize < 1024 {
		maxSize = 1024 // minimum 1KB for testing
	}

	h := &FileHandler{
		file:       file,
		path:       cfg.FilePath,
		maxSize:    maxSize,
		maxAge:     cfg.MaxAgeDays,
		maxBackups: cfg.MaxBackups,
		size:       info.Size(),
		format:     cfg.Format,
		level:      level,
	}
	h.inner = h.newInner(file)

	return h, nil
}

// newInner builds the formatting handler for the current file.
func (h *FileHandler) newInner(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: h.level}
	if h.format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// clone copies the handler with a replacement inner handler.
func (h *FileHandler) clone(inner slog.Handler) *FileHandler {
	return &FileHandler{
		file:       h.file,
		path:       h.path,
		maxSize:    h.maxSize,
		maxAge:     h.maxAge,
		maxBackups: h.maxBackups,
		size:       h.size,
		format:     h.format,
		level:      h.level,
		inner:      inner,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *FileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle writes the record to the file, rotating if necessary.
func (h *FileHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size >= h.maxSize {
		if err := h.rotate(); err != nil {
			return err
		}
	}

	pos, _ := h.file.Seek(0, io.SeekCurrent)
	err := h.inner.Handle(ctx, r)
	newPos, _ := h.file.Seek(0, io.SeekCurrent)
	h.size += newPos - pos

	return err
}

// WithAttrs returns a new handler with the given attributes.
func (h *FileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clone(h.inner.WithAttrs(attrs))
}

// WithGroup returns a new handler with the given group.
func (h *FileHandler) WithGroup(name string) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clone(h.inner.WithGroup(name))
}

// rotate closes the current file, renames it with a timestamp suffix,
// and opens a fresh file in its place.
func (h *FileHandler) rotate() error {
	h.file.Close()

	timestamp := time.Now().Format("2006-01-02T15-04-05")
	backupPath := h.path + "." + timestamp
	if err := os.Rename(h.path, backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}

	h.cleanOldBackups()

	file, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("create new log file: %w", err)
	}

	h.file = file
	h.size = 0
	h.inner = h.newInner(file)
	return nil
}

// cleanOldBackups removes rotated files exceeding maxBackups or older
// than maxAge days.
func (h *FileHandler) cleanOldBackups() {
	matches, err := filepath.Glob(h.path + ".*")
	if err != nil {
		return
	}

	// Newest first
	sort.Slice(matches, func(i, j int) bool {
		fi, _ := os.Stat(matches[i])
		fj, _ := os.Stat(matches[j])
		if fi == nil || fj == nil {
			return false
		}
		return fi.ModTime().After(fj.ModTime())
	})

	cutoff := time.Now().AddDate(0, 0, -h.maxAge)

	for i, path := range matches {
		if i >= h.maxBackups {
			os.Remove(path)
			continue
		}
		info, err := os.Stat(path)
		if err == nil && info.ModTime().Before(cutoff) {
			os.Remove(path)
		}
	}
}

// Close closes the file handler.
func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file != nil {
		return h.file.Close()
	}
	return nil
}
