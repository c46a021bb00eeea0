// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"errors"
	"fmt"
)

var (
	// ErrArchiveWrite is the sentinel error wrapped by ArchiveWriteError.
	ErrArchiveWrite = errors.New("archive write failed")
	// ErrInvalidArchivePath is returned for empty, absolute, or escaping entry names.
	ErrInvalidArchivePath = errors.New("invalid archive path")
	// ErrDuplicateEntry is returned when the same archive path is written twice.
	ErrDuplicateEntry = errors.New("duplicate archive entry")
	// ErrRecordWritten is returned when writing after the RECORD file.
	ErrRecordWritten = errors.New("RECORD already written")

	// ErrMissingRecord is returned when a wheel has no .dist-info/RECORD.
	ErrMissingRecord = errors.New("wheel has no RECORD file")
	// ErrMalformedRecord is returned when a RECORD line cannot be parsed.
	ErrMalformedRecord = errors.New("malformed RECORD")
	// ErrHashMismatch indicates an entry's SHA-256 digest differs from RECORD.
	ErrHashMismatch = errors.New("hash mismatch")
	// ErrSizeMismatch indicates an entry's size differs from RECORD.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrUnrecordedFile indicates an archive entry that RECORD does not list.
	ErrUnrecordedFile = errors.New("file not listed in RECORD")
	// ErrMissingEntry indicates a RECORD line without a matching archive entry.
	ErrMissingEntry = errors.New("RECORD entry missing from archive")
)

type (
	// ArchiveWriteError reports a failed write into the wheel. The archive is
	// left in an undefined state and must be discarded.
	// It matches both ErrArchiveWrite and the underlying cause with errors.Is().
	ArchiveWriteError struct {
		Path string
		Err  error
	}

	// MismatchError describes a RECORD entry that does not match the archive.
	// It wraps ErrHashMismatch or ErrSizeMismatch.
	MismatchError struct {
		Path     string
		Field    string // "hash" or "size"
		Expected string
		Got      string
	}
)

// Error implements the error interface for ArchiveWriteError.
func (e *ArchiveWriteError) Error() string {
	return fmt.Sprintf("failed to write %s into wheel: %v", e.Path, e.Err)
}

// Unwrap returns ErrArchiveWrite and the underlying cause.
func (e *ArchiveWriteError) Unwrap() []error { return []error{ErrArchiveWrite, e.Err} }

// Error implements the error interface for MismatchError.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s mismatch for %s\nExpected: %s\nGot:      %s", e.Field, e.Path, e.Expected, e.Got)
}

// Unwrap returns the sentinel matching Field.
func (e *MismatchError) Unwrap() error {
	if e.Field == "size" {
		return ErrSizeMismatch
	}
	return ErrHashMismatch
}

// IsIntegrityError reports whether err means the wheel was readable but
// its content disagrees with its RECORD (or it has none).
func IsIntegrityError(err error) bool {
	for _, target := range []error{
		ErrMissingRecord,
		ErrMalformedRecord,
		ErrHashMismatch,
		ErrSizeMismatch,
		ErrUnrecordedFile,
		ErrMissingEntry,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
