// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Verify opens the wheel at wheelPath and checks it against its RECORD.
// It returns the parsed RECORD entries.
func Verify(wheelPath string) (_ []RecordEntry, err error) {
	zr, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		// Read-only handle; a close error does not change the verdict.
		_ = zr.Close()
	}()

	return VerifyReader(&zr.Reader)
}

// VerifyReader checks that every file in the archive appears in RECORD
// exactly as written: same SHA-256 digest, same size. Unhashed RECORD lines
// are only allowed for RECORD itself and signature files.
func VerifyReader(zr *zip.Reader) ([]RecordEntry, error) {
	files := make(map[string]*zip.File, len(zr.File))
	var recordFile *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files[f.Name] = f
		if isRecordPath(f.Name) {
			recordFile = f
		}
	}
	if recordFile == nil {
		return nil, ErrMissingRecord
	}

	rc, err := recordFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", recordFile.Name, err)
	}
	entries, err := ReadRecord(rc)
	_ = rc.Close()
	if err != nil {
		return nil, err
	}

	listed := make(map[string]bool, len(entries))
	for _, e := range entries {
		listed[e.Path] = true

		f, ok := files[e.Path]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingEntry, e.Path)
		}
		if e.Digest == "" {
			if e.Path != recordFile.Name && !isSignature(e.Path) {
				return nil, fmt.Errorf("%w: %s has no hash", ErrMalformedRecord, e.Path)
			}
			continue
		}
		if err := checkEntry(f, e); err != nil {
			return nil, err
		}
	}

	for name := range files {
		if !listed[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnrecordedFile, name)
		}
	}
	return entries, nil
}

func checkEntry(f *zip.File, e RecordEntry) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}

	if got := int64(len(data)); got != e.Size {
		return &MismatchError{Path: e.Path, Field: "size", Expected: strconv.FormatInt(e.Size, 10), Got: strconv.FormatInt(got, 10)}
	}
	if got := Digest(data); got != e.Digest {
		return &MismatchError{Path: e.Path, Field: "hash", Expected: e.Digest, Got: got}
	}
	return nil
}

// isRecordPath matches "<name>-<version>.dist-info/RECORD" at the archive root.
func isRecordPath(name string) bool {
	dir, file := path.Split(name)
	return file == "RECORD" && strings.Count(dir, "/") == 1 && strings.HasSuffix(dir, ".dist-info/")
}

func isSignature(name string) bool {
	return strings.HasSuffix(name, "/RECORD.jws") || strings.HasSuffix(name, "/RECORD.p7s")
}
