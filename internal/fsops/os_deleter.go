package fsops

import (
	"os"

	"hdf-eco-tool/internal/filelock"
)

// OSDeleter implements Deleter using real os package calls
type OSDeleter struct{}

func (OSDeleter) Remove(path string) error {
	return os.Remove(path)
}

func (OSDeleter) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// OSWriter replaces files atomically, keeping the existing permission bits
type OSWriter struct{}

func (OSWriter) WriteFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return filelock.AtomicWrite(path, data, perm)
}
