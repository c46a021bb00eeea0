// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPyproject is returned when the project directory has no pyproject.toml.
	ErrNoPyproject = errors.New("pyproject.toml not found")
	// ErrMissingField is the sentinel error wrapped by MissingFieldError.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidEditableBackend is the sentinel error wrapped by InvalidEditableBackendError.
	ErrInvalidEditableBackend = errors.New("invalid editable backend")
)

type (
	// MissingFieldError is returned when a required [project] key is absent.
	// It wraps ErrMissingField for errors.Is() compatibility.
	MissingFieldError struct {
		Field string
	}

	// InvalidEditableBackendError is returned when an EditableBackend value
	// is not recognized.
	// It wraps ErrInvalidEditableBackend for errors.Is() compatibility.
	InvalidEditableBackendError struct {
		Value EditableBackend
	}
)

// Error implements the error interface for MissingFieldError.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Unwrap returns ErrMissingField for errors.Is() compatibility.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Error implements the error interface for InvalidEditableBackendError.
func (e *InvalidEditableBackendError) Error() string {
	return fmt.Sprintf("invalid editable backend %q (valid: %s, %s)", e.Value, EditableBackendPath, EditableBackendEditables)
}

// Unwrap returns ErrInvalidEditableBackend for errors.Is() compatibility.
func (e *InvalidEditableBackendError) Unwrap() error { return ErrInvalidEditableBackend }
