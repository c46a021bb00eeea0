// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"fmt"
	"os"
	"path/filepath"
)

// Create opens a new wheel at path, hands a Recorder to fill, and closes the
// archive on every exit path. The partial file is removed when fill or any
// close fails.
func Create(path string, fill func(*Recorder) error, opts ...RecorderOption) (err error) {
	if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
		return &ArchiveWriteError{Path: path, Err: fmt.Errorf("create output directory: %w", mkErr)}
	}

	f, err := os.Create(path)
	if err != nil {
		return &ArchiveWriteError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &ArchiveWriteError{Path: path, Err: closeErr}
		}
		if err != nil {
			_ = os.Remove(path) // Best-effort cleanup
		}
	}()

	rec := NewRecorder(f, opts...)
	if err := fill(rec); err != nil {
		_ = rec.Close()
		return err
	}
	return rec.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
