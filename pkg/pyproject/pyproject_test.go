// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s) error: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", rel, err)
		}
	}
}

func TestLoadResolvesSymlinkedRoot(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	writeTree(t, target, map[string]string{
		"pyproject.toml":      "[project]\nname = \"foo\"\nversion = \"1\"\n",
		"src/foo/__init__.py": "",
	})
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	meta, err := Load(link)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want, err := filepath.EvalSymlinks(target)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Root != want {
		t.Errorf("Root = %q, want %q", meta.Root, want)
	}
}

func TestLoadSrcLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pyproject.toml": `
[project]
name = "foo"
version = "1.0.0"
description = "A test project"
requires-python = ">=3.9"
dependencies = ["requests>=2"]
`,
		"src/foo/__init__.py":          "",
		"src/foo/core.py":              "",
		"src/foo/sub/__init__.py":      "",
		"src/foo/sub/deep/__init__.py": "",
		"src/foo/data/config.json":     "{}",
		"src/helper.py":                "",
		"src/setup.py":                 "",
		"src/not_a_package/readme.txt": "",
		"src/__pycache__/x.pyc":        "",
	})

	meta, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if meta.Name != "foo" || meta.Version != "1.0.0" || meta.Description != "A test project" || meta.RequiresPython != ">=3.9" {
		t.Errorf("unexpected project fields: %+v", meta)
	}
	if meta.PackageDir != "src" {
		t.Errorf("PackageDir = %q, want %q", meta.PackageDir, "src")
	}
	if meta.EditableBackend != "" {
		t.Errorf("EditableBackend = %q, want unset", meta.EditableBackend)
	}

	want := PackagePaths{
		Packages:  []string{"foo", "foo.sub", "foo.sub.deep"},
		PyModules: []string{"helper"},
	}
	if diff := cmp.Diff(want, meta.PackagePaths()); diff != "" {
		t.Errorf("PackagePaths() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"requests>=2"}, meta.Dependencies); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFlatLayoutWithBuildTable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pyproject.toml": `
[project]
name = "My.Project"
version = "2.0-beta"

[tool.pdm.build]
excludes = ["tests*", "bar.internal"]
editable-backend = "editables"
`,
		"bar/__init__.py":          "",
		"bar/internal/__init__.py": "",
		"bar/public/__init__.py":   "",
		"tests/__init__.py":        "",
		"tests_extra/__init__.py":  "",
		"conftest.py":              "",
		"single.py":                "",
	})

	meta, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if meta.PackageDir != "." {
		t.Errorf("PackageDir = %q, want %q", meta.PackageDir, ".")
	}
	if meta.EditableBackend != EditableBackendEditables {
		t.Errorf("EditableBackend = %q, want %q", meta.EditableBackend, EditableBackendEditables)
	}
	want := PackagePaths{
		Packages:  []string{"bar", "bar.public"},
		PyModules: []string{"single"},
	}
	if diff := cmp.Diff(want, meta.PackagePaths()); diff != "" {
		t.Errorf("PackagePaths() mismatch (-want +got):\n%s", diff)
	}
	if got, want := meta.DistName(), "my_project"; got != want {
		t.Errorf("DistName() = %q, want %q", got, want)
	}
	if got, want := meta.DistVersion(), "2.0_beta"; got != want {
		t.Errorf("DistVersion() = %q, want %q", got, want)
	}
}

func TestLoadIncludesRestrictTopLevelNames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pyproject.toml": `
[project]
name = "pick"
version = "0.1"

[tool.pdm.build]
package-dir = "lib"
includes = ["keep", "keep_mod"]
`,
		"lib/keep/__init__.py": "",
		"lib/drop/__init__.py": "",
		"lib/keep_mod.py":      "",
		"lib/drop_mod.py":      "",
	})

	meta, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := PackagePaths{Packages: []string{"keep"}, PyModules: []string{"keep_mod"}}
	if diff := cmp.Diff(want, meta.PackagePaths()); diff != "" {
		t.Errorf("PackagePaths() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"missing name", "[project]\nversion = \"1\"\n", ErrMissingField},
		{"missing version", "[project]\nname = \"x\"\n", ErrMissingField},
		{"bad backend", "[project]\nname = \"x\"\nversion = \"1\"\n[tool.pdm.build]\neditable-backend = \"magic\"\n", ErrInvalidEditableBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeTree(t, root, map[string]string{"pyproject.toml": tt.content})

			if _, err := Load(root); !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoPyproject) {
		t.Errorf("Load() error = %v, want ErrNoPyproject", err)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"pyproject.toml": "[project\nname = "})

	if _, err := Load(root); err == nil {
		t.Fatal("Load() should fail on malformed TOML")
	}
}

func TestAddDependenciesSkipsDuplicates(t *testing.T) {
	t.Parallel()

	meta := &Metadata{Dependencies: []string{"requests"}}
	meta.AddDependencies("editables", "requests", "editables")

	if diff := cmp.Diff([]string{"requests", "editables"}, meta.Dependencies); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
}
