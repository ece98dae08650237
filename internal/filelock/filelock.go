// Package filelock provides the registry lock and atomic file replacement used
// when rewriting files inside the source tree.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to a file path to derive its lock file
const LockSuffix = ".lock"

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Lock acquires an exclusive lock, blocking until it is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock without blocking.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// WithLock runs fn while holding the lock derived from path. An unlock
// failure is reported when fn itself succeeded.
func WithLock(path string, fn func() error) (err error) {
	lock := NewFileLock(path + LockSuffix)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return fn()
}

// AtomicWrite writes data to path through a temp file in the same directory
// followed by a rename, so readers never observe a partial file.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// renamed into place, nothing left to clean up
	tempFile = nil
	return nil
}
