// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const initFile = "__init__.py"

var (
	identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// ignoredModules are top-level scripts that are never part of a distribution.
	ignoredModules = map[string]bool{
		"setup":    true,
		"conftest": true,
	}
)

// Discover lists the regular packages (directories with an __init__.py) and
// top-level modules below base. Packages are returned as dotted names in
// depth-first, lexical order, so a parent always precedes its sub-packages.
//
// includes, when non-empty, restricts the top-level names that are kept.
// excludes drops matching dotted names together with everything below them.
// Both accept doublestar patterns matched against the dotted name.
func Discover(base string, includes, excludes []string) (packages, modules []string, err error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if !isImportable(name) || !matchesIncludes(name, includes) || matchesAny(name, excludes) {
				continue
			}
			dir := filepath.Join(base, name)
			if !hasInit(dir) {
				continue
			}
			found, walkErr := walkPackage(dir, name, excludes)
			if walkErr != nil {
				return nil, nil, walkErr
			}
			packages = append(packages, found...)
			continue
		}

		module, ok := strings.CutSuffix(name, ".py")
		if !ok || !entry.Type().IsRegular() || !isImportable(module) || ignoredModules[module] {
			continue
		}
		if !matchesIncludes(module, includes) || matchesAny(module, excludes) {
			continue
		}
		modules = append(modules, module)
	}

	return packages, modules, nil
}

func walkPackage(dir, dotted string, excludes []string) ([]string, error) {
	packages := []string{dotted}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package %s: %w", dotted, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !isImportable(entry.Name()) {
			continue
		}
		child := dotted + "." + entry.Name()
		childDir := filepath.Join(dir, entry.Name())
		if matchesAny(child, excludes) || !hasInit(childDir) {
			continue
		}
		found, err := walkPackage(childDir, child, excludes)
		if err != nil {
			return nil, err
		}
		packages = append(packages, found...)
	}
	return packages, nil
}

func isImportable(name string) bool {
	return identifierRegex.MatchString(name) && name != "__pycache__"
}

func hasInit(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, initFile))
	return err == nil && info.Mode().IsRegular()
}

func matchesIncludes(name string, includes []string) bool {
	return len(includes) == 0 || matchesAny(name, includes)
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
