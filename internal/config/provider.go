// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from.
	LoadOptions struct {
		// ConfigFilePath forces a specific file. It must exist.
		ConfigFilePath string
		// ConfigDirPath replaces the platform configuration directory.
		ConfigDirPath string
	}

	// Loaded is a resolved configuration and the file it came from.
	Loaded struct {
		Config *Config
		// Path is empty when no file was found and only defaults and
		// environment variables apply.
		Path string
	}

	// Provider loads configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Loaded, error)
	}

	fileProvider struct{}
)

// NewProvider returns a Provider that reads CUE files from disk.
func NewProvider() Provider {
	return fileProvider{}
}

// Load resolves the configuration for opts.
func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: path}, nil
}
