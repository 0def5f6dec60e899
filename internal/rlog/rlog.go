// Package rlog provides the process-wide structured logger for rcl.
package rlog

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	current *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init points the process logger at the given file path, creating it (and
// its parent directory, via the caller) if necessary. Logging failures here
// are non-fatal: rcl falls back to a discard logger so a read-only data
// directory never blocks search or add mode.
func Init(path string, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		mu.Lock()
		current = slog.New(slog.NewTextHandler(io.Discard, nil))
		mu.Unlock()
		return
	}

	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	mu.Lock()
	current = slog.New(h)
	mu.Unlock()
}

// L returns the current process logger.
func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Warn logs a storage-transient or terminal-transient condition: the loop
// continues after this call.
func Warn(msg string, args ...any) { L().Warn(msg, args...) }

// Error logs a storage-fatal or terminal-fatal condition. The caller is
// expected to abort the process immediately after calling Error.
func Error(msg string, args ...any) { L().Error(msg, args...) }

// Debug logs low-volume diagnostic detail (e.g. rebuild timings).
func Debug(msg string, args ...any) { L().Debug(msg, args...) }
