// Package disk measures the space held by the files and directories a delete
// run removes.
package disk

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// PathStats holds the usage of one path
type PathStats struct {
	UsedBytes int64
	FileCount int64
}

// ScanPath walks path and sums the sizes of the regular files beneath it.
// A regular file counts itself; symlinks are not followed. A missing path
// yields zero stats.
func ScanPath(path string) (*PathStats, error) {
	stats := &PathStats{}

	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats, nil
		}
		return nil, err
	}

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}

		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			stats.UsedBytes += info.Size()
			stats.FileCount++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
