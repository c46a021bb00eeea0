// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrSchema is the sentinel error wrapped by SchemaError.
	ErrSchema = errors.New("schema validation failed")
	// ErrFileTooLarge is the sentinel error wrapped by FileTooLargeError.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// Issue is one problem reported by CUE.
	Issue struct {
		// Path is the field path in JSON notation, e.g. "ui.verbose" or
		// "excludes[1]". Empty for document-level problems.
		Path    string
		Message string
	}

	// SchemaError lists every issue found in one file.
	// It wraps ErrSchema and the CUE error it was built from.
	SchemaError struct {
		File   string
		Issues []Issue
		Err    error
	}

	// FileTooLargeError is returned when a document exceeds the size limit.
	// It wraps ErrFileTooLarge for errors.Is() compatibility.
	FileTooLargeError struct {
		File  string
		Size  int64
		Limit int64
	}
)

// Error implements the error interface for SchemaError.
func (e *SchemaError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			lines = append(lines, is.Message)
			continue
		}
		lines = append(lines, is.Path+": "+is.Message)
	}
	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.File, lines[0])
	}
	return fmt.Sprintf("%s: %d problems:\n  %s", e.File, len(lines), strings.Join(lines, "\n  "))
}

// Unwrap returns ErrSchema and the underlying CUE error.
func (e *SchemaError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSchema}
	}
	return []error{ErrSchema, e.Err}
}

// Error implements the error interface for FileTooLargeError.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds the %d byte limit", e.File, e.Size, e.Limit)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts a CUE error into a *SchemaError for file. Errors that
// did not come from CUE are wrapped with the file name.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors wraps any error into a list, so plain Go errors are
	// told apart by type.
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", file, err)
	}

	schemaErr := &SchemaError{File: file, Err: err}
	for _, e := range cueerrors.Errors(err) {
		p := formatPath(e.Path())
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if msg == "" {
			msg = e.Error()
		}
		schemaErr.Issues = append(schemaErr.Issues, Issue{Path: p, Message: msg})
	}
	return schemaErr
}

// formatPath joins CUE selectors, rendering numeric ones as list indexes.
// Leading definition selectors such as #Config are dropped: issues are
// reported against the user's document, not the schema.
func formatPath(selectors []string) string {
	for len(selectors) > 0 && strings.HasPrefix(selectors[0], "#") {
		selectors = selectors[1:]
	}

	var sb strings.Builder
	for i, sel := range selectors {
		if i > 0 && isIndex(sel) {
			sb.WriteString("[" + sel + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(sel)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileTooLargeError when data is larger than limit.
func CheckFileSize(data []byte, limit int64, file string) error {
	if size := int64(len(data)); size > limit {
		return &FileTooLargeError{File: file, Size: size, Limit: limit}
	}
	return nil
}
