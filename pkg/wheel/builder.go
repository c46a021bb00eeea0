// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/editwheel/editwheel/pkg/pyproject"

	"github.com/charmbracelet/log"
)

const (
	// Tag is the compatibility tag of pure-Python wheels.
	Tag = "py3-none-any"

	metadataVersion = "2.1"
	wheelVersion    = "1.0"
)

type (
	// Builder performs a regular wheel build. Its steps are exported so an
	// editable build can run them with its own file selection in between.
	Builder struct {
		meta      *pyproject.Metadata
		logger    *log.Logger
		generator string
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)
)

// WithBuilderLogger sets the logger used for build progress.
func WithBuilderLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithGenerator sets the Generator value written into the WHEEL file.
func WithGenerator(generator string) BuilderOption {
	return func(b *Builder) {
		if generator != "" {
			b.generator = generator
		}
	}
}

// NewBuilder creates a Builder for meta.
func NewBuilder(meta *pyproject.Metadata, opts ...BuilderOption) *Builder {
	b := &Builder{
		meta:      meta,
		logger:    log.New(io.Discard),
		generator: "editwheel",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Metadata returns the project metadata the builder writes.
func (b *Builder) Metadata() *pyproject.Metadata { return b.meta }

// WheelName returns "<name>-<version>-py3-none-any.whl".
func (b *Builder) WheelName() string {
	return fmt.Sprintf("%s-%s-%s.whl", b.meta.DistName(), b.meta.DistVersion(), Tag)
}

// DistInfo returns the name of the .dist-info directory.
func (b *Builder) DistInfo() string {
	return fmt.Sprintf("%s-%s.dist-info", b.meta.DistName(), b.meta.DistVersion())
}

// SelectFiles lists the files of every discovered top-level package and
// module. Compiled bytecode and excluded sub-packages are left out.
func (b *Builder) SelectFiles() ([]SourceFile, error) {
	base := filepath.Join(b.meta.Root, b.meta.PackageDir)

	var files []SourceFile
	for _, pkg := range b.meta.Packages {
		if strings.Contains(pkg, ".") {
			continue
		}
		found, err := b.packageFiles(base, pkg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	for _, module := range b.meta.PyModules {
		name := module + SourceExtension
		files = append(files, SourceFile{ArcPath: name, Path: filepath.Join(base, name)})
	}
	return files, nil
}

func (b *Builder) packageFiles(base, pkg string) ([]SourceFile, error) {
	var files []SourceFile
	err := filepath.WalkDir(filepath.Join(base, pkg), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		if d.IsDir() {
			name := d.Name()
			if name == "__pycache__" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if b.isExcludedPackage(path, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if ext := filepath.Ext(path); ext == ".pyc" || ext == ".pyo" || !d.Type().IsRegular() {
			return nil
		}
		files = append(files, SourceFile{ArcPath: filepath.ToSlash(rel), Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect files of package %s: %w", pkg, err)
	}
	return files, nil
}

// isExcludedPackage reports whether dir is a regular package that
// discovery did not list, i.e. one the project excludes.
func (b *Builder) isExcludedPackage(dir, rel string) bool {
	if !fileExists(filepath.Join(dir, "__init__.py")) {
		return false
	}
	dotted := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
	return !slices.Contains(b.meta.Packages, dotted)
}

// WriteBody writes files into the wheel root.
func (b *Builder) WriteBody(rec *Recorder, files []SourceFile) error {
	for _, f := range files {
		if err := rec.AddFile(f.ArcPath, f.Path); err != nil {
			return err
		}
	}
	return nil
}

// WriteMetadata writes METADATA and WHEEL, then RECORD. It must be the last
// step of a build.
func (b *Builder) WriteMetadata(rec *Recorder) error {
	distInfo := b.DistInfo()
	b.logger.Debug("Writing metadata", "dist_info", distInfo)

	if err := rec.AddContent(distInfo+"/METADATA", b.formatMetadata()); err != nil {
		return err
	}
	if err := rec.AddContent(distInfo+"/WHEEL", b.formatWheel()); err != nil {
		return err
	}
	return rec.WriteRecord(distInfo + "/RECORD")
}

// Build writes a regular wheel into distDir and returns its path.
func (b *Builder) Build(distDir string, opts ...RecorderOption) (string, error) {
	target := filepath.Join(distDir, b.WheelName())
	err := Create(target, func(rec *Recorder) error {
		files, err := b.SelectFiles()
		if err != nil {
			return err
		}
		if err := b.WriteBody(rec, files); err != nil {
			return err
		}
		return b.WriteMetadata(rec)
	}, append([]RecorderOption{WithLogger(b.logger)}, opts...)...)
	if err != nil {
		return "", err
	}
	return target, nil
}

func (b *Builder) formatMetadata() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Metadata-Version: %s\n", metadataVersion)
	fmt.Fprintf(&sb, "Name: %s\n", b.meta.Name)
	fmt.Fprintf(&sb, "Version: %s\n", b.meta.Version)
	if b.meta.Description != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", b.meta.Description)
	}
	if b.meta.RequiresPython != "" {
		fmt.Fprintf(&sb, "Requires-Python: %s\n", b.meta.RequiresPython)
	}
	for _, dep := range b.meta.Dependencies {
		fmt.Fprintf(&sb, "Requires-Dist: %s\n", dep)
	}
	return sb.String()
}

func (b *Builder) formatWheel() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Wheel-Version: %s\n", wheelVersion)
	fmt.Fprintf(&sb, "Generator: %s\n", b.generator)
	sb.WriteString("Root-Is-Purelib: true\n")
	fmt.Fprintf(&sb, "Tag: %s\n", Tag)
	return sb.String()
}
