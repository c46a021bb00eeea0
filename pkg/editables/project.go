// SPDX-License-Identifier: MPL-2.0

package editables

import (
	"os"
	"path/filepath"
	"slices"
)

const (
	// PackageSeparator separates the components of a dotted Python name.
	PackageSeparator = "."
	// InitFile is the file that makes a directory a regular Python package.
	InitFile = "__init__.py"
)

type (
	// Redirection binds a top-level importable name to the absolute path of
	// the file the import system should load for it.
	Redirection struct {
		Name PackageName
		Path string
	}

	// Project accumulates the redirections and search-path entries of one
	// editable build. A Project is not safe for concurrent use; each build
	// owns its own instance.
	Project struct {
		name string
		dir  string

		redirections []Redirection
		index        map[PackageName]int
		pathEntries  []string
	}
)

// NewProject creates an empty Project. name is the distribution name used
// for the generated file names; dir is the project root that relative
// targets are resolved against.
func NewProject(name, dir string) *Project {
	return &Project{
		name:  name,
		dir:   dir,
		index: make(map[PackageName]int),
	}
}

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// Dir returns the project root directory.
func (p *Project) Dir() string { return p.dir }

// Map redirects the top-level package or module name to target, a path
// relative to the project root. A directory target is resolved to its
// __init__.py. The resolved path must be an existing regular file.
func (p *Project) Map(name, target string) error {
	pkg := PackageName(name)
	if ok, errs := pkg.IsValid(); !ok {
		return errs[0]
	}

	absTarget := p.makeAbsolute(target)
	if isDir(absTarget) {
		absTarget = filepath.Join(absTarget, InitFile)
	}
	if !isRegularFile(absTarget) {
		return &InvalidTargetError{Name: pkg, Target: target, Resolved: absTarget}
	}

	if i, exists := p.index[pkg]; exists {
		return &DuplicateRedirectionError{Name: pkg, Existing: p.redirections[i].Path}
	}

	p.index[pkg] = len(p.redirections)
	p.redirections = append(p.redirections, Redirection{Name: pkg, Path: absTarget})
	return nil
}

// AddToPath appends dir, resolved against the project root, to the search
// path written into the .pth file. The directory does not have to exist.
func (p *Project) AddToPath(dir string) {
	p.pathEntries = append(p.pathEntries, p.makeAbsolute(dir))
}

// Redirections returns the mapped redirections in insertion order.
func (p *Project) Redirections() []Redirection {
	return slices.Clone(p.redirections)
}

// PathEntries returns the search-path entries in insertion order.
func (p *Project) PathEntries() []string {
	return slices.Clone(p.pathEntries)
}

// HasRedirections reports whether at least one name has been mapped.
func (p *Project) HasRedirections() bool {
	return len(p.redirections) > 0
}

// makeAbsolute joins path onto the project root and resolves symlinks when
// the path exists. Absolute paths replace the root.
func (p *Project) makeAbsolute(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
