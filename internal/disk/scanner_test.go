package disk

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanPath(t *testing.T) {
	root := t.TempDir()
	files := map[string]int{
		"a.c":           10,
		"sub/b.c":       20,
		"sub/deep/c.hc": 5,
	}
	for rel, size := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	stats, err := ScanPath(root)
	if err != nil {
		t.Fatalf("ScanPath failed: %v", err)
	}
	if stats.UsedBytes != 35 {
		t.Errorf("Expected 35 bytes, got %d", stats.UsedBytes)
	}
	if stats.FileCount != 3 {
		t.Errorf("Expected 3 files, got %d", stats.FileCount)
	}

	single, err := ScanPath(filepath.Join(root, "sub", "b.c"))
	if err != nil {
		t.Fatalf("ScanPath on file failed: %v", err)
	}
	if single.UsedBytes != 20 || single.FileCount != 1 {
		t.Errorf("Expected 20 bytes in 1 file, got %+v", single)
	}
}

func TestScanPathMissing(t *testing.T) {
	stats, err := ScanPath(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected no error for missing path, got %v", err)
	}
	if stats.UsedBytes != 0 || stats.FileCount != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestScanPathIgnoresSymlinkTargets(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "big.bin")
	if err := os.WriteFile(outside, make([]byte, 100), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	stats, err := ScanPath(root)
	if err != nil {
		t.Fatalf("ScanPath failed: %v", err)
	}
	if stats.UsedBytes != 0 {
		t.Errorf("Symlink target must not be counted, got %d bytes", stats.UsedBytes)
	}
}
