// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FileName is the project configuration file name.
	FileName = "pyproject.toml"

	// EditableBackendPath puts the package directory on sys.path through the
	// .pth file. No runtime dependency is added.
	EditableBackendPath EditableBackend = "path"
	// EditableBackendEditables redirects every top-level package and module
	// through the "editables" import finder.
	EditableBackendEditables EditableBackend = "editables"

	// defaultPackageDir is used when [tool.pdm.build] sets no package-dir
	// and the project has a directory of that name.
	defaultPackageDir = "src"
)

// distNameRegex matches runs of characters that wheel file names fold into "_".
var distNameRegex = regexp.MustCompile(`[-_.]+`)

type (
	// EditableBackend selects how an editable wheel exposes the sources.
	EditableBackend string

	// Metadata is the resolved build input of a project.
	Metadata struct {
		// Root is the absolute project directory.
		Root string

		Name           string
		Version        string
		Description    string
		RequiresPython string
		// Dependencies is the Requires-Dist list. Builders may append to it.
		Dependencies []string

		// PackageDir is the directory, relative to Root, that holds the
		// importable packages ("." for a flat layout).
		PackageDir string
		// Packages lists discovered packages as dotted names, parents first.
		Packages []string
		// PyModules lists top-level modules found directly in PackageDir.
		PyModules []string
		// Excludes lists dotted package names (or glob patterns) that
		// discovery skipped.
		Excludes []string

		// EditableBackend is empty when the project does not choose one.
		EditableBackend EditableBackend
	}

	// PackagePaths groups the discovered importable names.
	PackagePaths struct {
		Packages  []string
		PyModules []string
	}

	document struct {
		Project projectTable `toml:"project"`
		Tool    struct {
			PDM struct {
				Build buildTable `toml:"build"`
			} `toml:"pdm"`
		} `toml:"tool"`
	}

	projectTable struct {
		Name           string   `toml:"name"`
		Version        string   `toml:"version"`
		Description    string   `toml:"description"`
		RequiresPython string   `toml:"requires-python"`
		Dependencies   []string `toml:"dependencies"`
	}

	buildTable struct {
		PackageDir      string   `toml:"package-dir"`
		Includes        []string `toml:"includes"`
		Excludes        []string `toml:"excludes"`
		EditableBackend string   `toml:"editable-backend"`
	}
)

// String returns the string representation of the EditableBackend.
func (b EditableBackend) String() string { return string(b) }

// IsValid returns whether the EditableBackend is one of the defined backends.
func (b EditableBackend) IsValid() (bool, []error) {
	switch b {
	case EditableBackendPath, EditableBackendEditables:
		return true, nil
	default:
		return false, []error{&InvalidEditableBackendError{Value: b}}
	}
}

// Load reads dir/pyproject.toml and discovers the project's packages.
func Load(dir string) (*Metadata, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	// Generated .pth and bootstrap paths resolve symlinks; Root must agree.
	if resolved, evalErr := filepath.EvalSymlinks(root); evalErr == nil {
		root = resolved
	}

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoPyproject, root)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Parse(data, root)
}

// Parse decodes pyproject.toml content for the project at root and runs
// package discovery below its package directory.
func Parse(data []byte, root string) (*Metadata, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %w", FileName, row, col, err)
		}
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}

	if strings.TrimSpace(doc.Project.Name) == "" {
		return nil, &MissingFieldError{Field: "project.name"}
	}
	if strings.TrimSpace(doc.Project.Version) == "" {
		return nil, &MissingFieldError{Field: "project.version"}
	}

	build := doc.Tool.PDM.Build
	backend := EditableBackend(build.EditableBackend)
	if backend != "" {
		if ok, errs := backend.IsValid(); !ok {
			return nil, errs[0]
		}
	}

	meta := &Metadata{
		Root:            root,
		Name:            doc.Project.Name,
		Version:         doc.Project.Version,
		Description:     doc.Project.Description,
		RequiresPython:  doc.Project.RequiresPython,
		Dependencies:    slices.Clone(doc.Project.Dependencies),
		PackageDir:      resolvePackageDir(root, build.PackageDir),
		Excludes:        slices.Clone(build.Excludes),
		EditableBackend: backend,
	}

	packages, modules, err := Discover(filepath.Join(root, meta.PackageDir), build.Includes, build.Excludes)
	if err != nil {
		return nil, err
	}
	meta.Packages = packages
	meta.PyModules = modules

	return meta, nil
}

// PackagePaths returns copies of the discovered package and module names.
func (m *Metadata) PackagePaths() PackagePaths {
	return PackagePaths{
		Packages:  slices.Clone(m.Packages),
		PyModules: slices.Clone(m.PyModules),
	}
}

// AddDependencies appends requirements that are not already declared.
func (m *Metadata) AddDependencies(deps ...string) {
	for _, dep := range deps {
		if !slices.Contains(m.Dependencies, dep) {
			m.Dependencies = append(m.Dependencies, dep)
		}
	}
}

// DistName returns the project name as used in wheel file names.
func (m *Metadata) DistName() string {
	return strings.ToLower(distNameRegex.ReplaceAllString(m.Name, "_"))
}

// DistVersion returns the version as used in wheel file names.
func (m *Metadata) DistVersion() string {
	return strings.ReplaceAll(m.Version, "-", "_")
}

// resolvePackageDir returns the configured package-dir, or "src" when that
// directory exists, or ".".
func resolvePackageDir(root, configured string) string {
	if configured != "" {
		return filepath.Clean(filepath.FromSlash(configured))
	}
	if info, err := os.Stat(filepath.Join(root, defaultPackageDir)); err == nil && info.IsDir() {
		return defaultPackageDir
	}
	return "."
}
