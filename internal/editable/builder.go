// SPDX-License-Identifier: MPL-2.0

package editable

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/editwheel/editwheel/pkg/editables"
	"github.com/editwheel/editwheel/pkg/pyproject"
	"github.com/editwheel/editwheel/pkg/wheel"

	"github.com/charmbracelet/log"
)

// ErrBuilderUsed is returned when Build is called on a builder that already ran.
var ErrBuilderUsed = errors.New("editable builder can only build once")

type (
	// Base is the regular wheel build that an editable build extends.
	// *wheel.Builder implements it.
	Base interface {
		WheelName() string
		SelectFiles() ([]wheel.SourceFile, error)
		WriteBody(rec *wheel.Recorder, files []wheel.SourceFile) error
		WriteMetadata(rec *wheel.Recorder) error
	}

	// StepError reports the transition that failed.
	StepError struct {
		// From is the last state reached before the failure.
		From State
		Err  error
	}

	// Builder drives one editable build. It is single use and not safe for
	// concurrent use.
	Builder struct {
		meta    *pyproject.Metadata
		base    Base
		project *editables.Project
		backend pyproject.EditableBackend
		logger  *log.Logger
		state   State
	}

	// Option configures a Builder.
	Option func(*Builder)
)

// Error implements the error interface for StepError.
func (e *StepError) Error() string {
	return fmt.Sprintf("editable build failed after %s: %v", e.From, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *log.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithBackend overrides the editable backend declared in pyproject.toml.
func WithBackend(backend pyproject.EditableBackend) Option {
	return func(b *Builder) {
		if backend != "" {
			b.backend = backend
		}
	}
}

// New creates an editable Builder for meta on top of base. base must write
// the same metadata object, since the builder appends the runtime
// requirement to meta.Dependencies before base.WriteMetadata runs.
func New(meta *pyproject.Metadata, base Base, opts ...Option) *Builder {
	b := &Builder{
		meta:    meta,
		base:    base,
		project: editables.NewProject(meta.Name, meta.Root),
		backend: meta.EditableBackend,
		logger:  log.New(io.Discard),
		state:   StateInit,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.backend == "" {
		b.backend = pyproject.EditableBackendPath
	}
	return b
}

// State returns the current build state.
func (b *Builder) State() State { return b.state }

// Project returns the redirection state collected by the build.
func (b *Builder) Project() *editables.Project { return b.project }

// Build writes the editable wheel content into rec, up to and including
// RECORD. The caller closes the archive.
func (b *Builder) Build(rec *wheel.Recorder) error {
	if b.state != StateInit {
		return ErrBuilderUsed
	}
	if ok, errs := b.backend.IsValid(); !ok {
		return b.fail(errs[0])
	}

	if err := b.mapPackages(); err != nil {
		return b.fail(err)
	}
	b.advance(StatePackagesMapped)

	files, err := b.base.SelectFiles()
	if err != nil {
		return b.fail(err)
	}
	files = wheel.FilterSource(files)
	b.advance(StateFilesSelected)

	if err := b.base.WriteBody(rec, files); err != nil {
		return b.fail(err)
	}
	b.advance(StateBodyWritten)

	for _, artifact := range b.project.Files() {
		if err := rec.AddContent(artifact.Name, artifact.Content); err != nil {
			return b.fail(err)
		}
	}
	b.advance(StateShimsWritten)

	b.meta.AddDependencies(b.project.Dependencies()...)
	if err := b.base.WriteMetadata(rec); err != nil {
		return b.fail(err)
	}
	b.advance(StateMetadataFinalized)

	return nil
}

// BuildWheel creates the editable wheel in distDir and returns its path.
// The archive is closed, or removed on failure, before BuildWheel returns.
func (b *Builder) BuildWheel(distDir string, opts ...wheel.RecorderOption) (string, error) {
	if b.state != StateInit {
		return "", ErrBuilderUsed
	}
	target := filepath.Join(distDir, b.base.WheelName())
	opts = append([]wheel.RecorderOption{wheel.WithLogger(b.logger)}, opts...)

	if err := wheel.Create(target, b.Build, opts...); err != nil {
		switch b.state {
		case StateInit:
			// The archive could not be opened; no step ran.
			b.state = StateFailed
			return "", err
		case StateMetadataFinalized:
			// Every step succeeded but closing the archive did not.
			return "", b.fail(err)
		default:
			return "", err
		}
	}
	b.advance(StateDone)
	return target, nil
}

// mapPackages redirects every top-level package and module. Dotted names
// are skipped: sub-packages load through their redirected parent. With the
// path backend nothing is redirected and the package directory goes on
// the search path instead.
func (b *Builder) mapPackages() error {
	if b.backend == pyproject.EditableBackendPath {
		b.project.AddToPath(b.meta.PackageDir)
		return nil
	}

	paths := b.meta.PackagePaths()
	for _, pkg := range paths.Packages {
		if !editables.PackageName(pkg).IsTopLevel() {
			continue
		}
		if err := b.project.Map(pkg, filepath.Join(b.meta.PackageDir, pkg)); err != nil {
			return err
		}
	}
	for _, module := range paths.PyModules {
		if !editables.PackageName(module).IsTopLevel() {
			continue
		}
		if err := b.project.Map(module, filepath.Join(b.meta.PackageDir, module+wheel.SourceExtension)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) advance(next State) {
	b.state = next
	b.logger.Debug("Editable build", "state", next)
}

func (b *Builder) fail(err error) error {
	from := b.state
	b.state = StateFailed
	b.logger.Debug("Editable build", "state", StateFailed, "after", from)
	return &StepError{From: from, Err: err}
}
