// SPDX-License-Identifier: MPL-2.0

package editables

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
	ErrInvalidPackageName = errors.New("invalid package name")
	// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid redirection target")
	// ErrDuplicateRedirection is the sentinel error wrapped by DuplicateRedirectionError.
	ErrDuplicateRedirection = errors.New("duplicate redirection")
)

type (
	// PackageName is an importable Python package or module name.
	// Only top-level names (no "." separator) can be redirected.
	PackageName string

	// InvalidPackageNameError is returned when a redirection is requested
	// for an empty or dotted (non top-level) name.
	// It wraps ErrInvalidPackageName for errors.Is() compatibility.
	InvalidPackageNameError struct {
		Name PackageName
	}

	// InvalidTargetError is returned when a redirection target resolves to
	// neither a regular file nor a directory holding an __init__.py.
	// It wraps ErrInvalidTarget for errors.Is() compatibility.
	InvalidTargetError struct {
		Name     PackageName
		Target   string // as requested, relative to the project directory
		Resolved string // absolute path that was checked
	}

	// DuplicateRedirectionError is returned when a name is mapped twice.
	// It wraps ErrDuplicateRedirection for errors.Is() compatibility.
	DuplicateRedirectionError struct {
		Name     PackageName
		Existing string
	}
)

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// IsTopLevel reports whether the name contains no package separator.
func (n PackageName) IsTopLevel() bool {
	return !strings.Contains(string(n), PackageSeparator)
}

// IsValid returns whether the PackageName can be redirected.
// A valid name is non-empty and top-level.
func (n PackageName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" || !n.IsTopLevel() {
		return false, []error{&InvalidPackageNameError{Name: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPackageNameError.
func (e *InvalidPackageNameError) Error() string {
	if e.Name == "" {
		return "cannot map an empty package name"
	}
	return fmt.Sprintf("cannot map %s as it is not a top-level package", e.Name)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// Error implements the error interface for InvalidTargetError.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("%s is not a valid Python package or module (resolved to %s)", e.Target, e.Resolved)
}

// Unwrap returns ErrInvalidTarget for errors.Is() compatibility.
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }

// Error implements the error interface for DuplicateRedirectionError.
func (e *DuplicateRedirectionError) Error() string {
	return fmt.Sprintf("%s is already redirected to %s", e.Name, e.Existing)
}

// Unwrap returns ErrDuplicateRedirection for errors.Is() compatibility.
func (e *DuplicateRedirectionError) Unwrap() error { return ErrDuplicateRedirection }
