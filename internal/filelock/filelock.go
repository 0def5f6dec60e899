// Package filelock provides advisory cross-process file locking, used to
// guard the one-time history-file import so two concurrent invocations of
// rcl search never import the same HISTFILE twice.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock wraps a gofrs/flock advisory lock on a single path.
type Lock struct {
	fl   *flock.Flock
	path string
}

// New returns a Lock for the given path. The lock file is created lazily on
// the first TryLock call.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path), path: path}
}

// TryLock attempts to acquire the lock without blocking. It reports whether
// the lock was acquired.
func (l *Lock) TryLock() (bool, error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("filelock: try lock %s: %w", l.path, err)
	}
	return ok, nil
}

// Unlock releases the lock. Safe to call even if TryLock did not succeed.
func (l *Lock) Unlock() error {
	if !l.fl.Locked() {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("filelock: unlock %s: %w", l.path, err)
	}
	return nil
}

// AtomicWrite writes data to path via a temp-file-then-rename so readers
// never observe a partial write.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("filelock: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("filelock: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("filelock: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("filelock: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filelock: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("filelock: rename temp file to %s: %w", path, err)
	}
	tmp = nil
	return nil
}
