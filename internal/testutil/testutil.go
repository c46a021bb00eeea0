// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// TempDir returns a new temporary directory with symlinks resolved, so paths
// derived from it compare equal to paths a loader resolved itself.
func TempDir(t testing.TB) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

// WriteTree writes files below root. Keys are slash-separated relative
// paths; parent directories are created as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// NewTree writes files into a fresh TempDir and returns it.
func NewTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := TempDir(t)
	WriteTree(t, root, files)
	return root
}

// WheelNames returns the entry names of the archive at path in archive order.
func WheelNames(t testing.TB, path string) []string {
	t.Helper()
	zr := openZip(t, path)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

// ReadWheel returns the content of every entry of the archive at path.
func ReadWheel(t testing.TB, path string) map[string]string {
	t.Helper()
	zr := openZip(t, path)
	contents := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		contents[f.Name] = string(data)
	}
	return contents
}

func openZip(t testing.TB, path string) *zip.ReadCloser {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open archive %s: %v", path, err)
	}
	t.Cleanup(func() { _ = zr.Close() })
	return zr
}
