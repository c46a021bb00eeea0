// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/editwheel/editwheel/pkg/pyproject"

	"github.com/klauspost/compress/flate"
)

const (
	// DefaultDistDir is the default output directory.
	DefaultDistDir = "dist"
)

var (
	// ErrInvalidCompressionLevel is the sentinel error wrapped by InvalidCompressionLevelError.
	ErrInvalidCompressionLevel = errors.New("invalid compression level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config holds the user settings.
	Config struct {
		DistDir          string                    `json:"dist_dir" mapstructure:"dist_dir"`
		EditableBackend  pyproject.EditableBackend `json:"editable_backend" mapstructure:"editable_backend"`
		CompressionLevel int                       `json:"compression_level" mapstructure:"compression_level"`
		UI               UIConfig                  `json:"ui" mapstructure:"ui"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidCompressionLevelError is returned for a level flate does not accept.
	// It wraps ErrInvalidCompressionLevel for errors.Is() compatibility.
	InvalidCompressionLevelError struct {
		Value int
	}

	// InvalidConfigError collects every invalid field of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		DistDir:          DefaultDistDir,
		EditableBackend:  pyproject.EditableBackendPath,
		CompressionLevel: flate.DefaultCompression,
	}
}

// Validate checks the values the CUE schema cannot see, i.e. those that
// came from defaults or environment variables.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DistDir) == "" {
		errs = append(errs, errors.New("dist_dir must not be empty"))
	}
	if ok, backendErrs := c.EditableBackend.IsValid(); !ok {
		errs = append(errs, backendErrs...)
	}
	if c.CompressionLevel < flate.HuffmanOnly || c.CompressionLevel > flate.BestCompression {
		errs = append(errs, &InvalidCompressionLevelError{Value: c.CompressionLevel})
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidCompressionLevelError.
func (e *InvalidCompressionLevelError) Error() string {
	return fmt.Sprintf("compression level %d is outside %d..%d", e.Value, flate.HuffmanOnly, flate.BestCompression)
}

// Unwrap returns ErrInvalidCompressionLevel for errors.Is() compatibility.
func (e *InvalidCompressionLevelError) Unwrap() error { return ErrInvalidCompressionLevel }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
