// SPDX-License-Identifier: MPL-2.0

package editable

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/editwheel/editwheel/internal/testutil"
	"github.com/editwheel/editwheel/pkg/editables"
	"github.com/editwheel/editwheel/pkg/pyproject"
	"github.com/editwheel/editwheel/pkg/wheel"

	"github.com/google/go-cmp/cmp"
)

func newProject(t *testing.T, files map[string]string) *pyproject.Metadata {
	t.Helper()

	meta, err := pyproject.Load(testutil.NewTree(t, files))
	if err != nil {
		t.Fatalf("pyproject.Load() error: %v", err)
	}
	return meta
}

func recordPaths(t *testing.T, wheelPath string) []string {
	t.Helper()

	entries, err := wheel.Verify(wheelPath)
	if err != nil {
		t.Fatalf("wheel.Verify() error: %v", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// Project foo, package foo in src/foo/__init__.py, redirected through editables.
func TestScenarioRedirectedPackage(t *testing.T) {
	t.Parallel()

	meta := newProject(t, map[string]string{
		"pyproject.toml": `
[project]
name = "foo"
version = "1.0"

[tool.pdm.build]
editable-backend = "editables"
`,
		"src/foo/__init__.py": "",
		"src/foo/data.json":   "{}",
	})

	b := New(meta, wheel.NewBuilder(meta))
	path, err := b.BuildWheel(t.TempDir())
	if err != nil {
		t.Fatalf("BuildWheel() error: %v", err)
	}
	if b.State() != StateDone {
		t.Errorf("State() = %s, want %s", b.State(), StateDone)
	}

	initPath := filepath.Join(meta.Root, "src", "foo", "__init__.py")
	contents := testutil.ReadWheel(t, path)

	if got, want := contents["foo.pth"], "import _foo"; got != want {
		t.Errorf("foo.pth = %q, want %q", got, want)
	}
	wantBootstrap := strings.Join([]string{
		"from editables.redirector import RedirectingFinder as F",
		"F.install()",
		"F.map_module('foo', '" + initPath + "')",
	}, "\n")
	if got := contents["_foo.py"]; got != wantBootstrap {
		t.Errorf("_foo.py = %q, want %q", got, wantBootstrap)
	}
	if !strings.Contains(contents["foo-1.0.dist-info/METADATA"], "Requires-Dist: editables\n") {
		t.Errorf("METADATA must require editables:\n%s", contents["foo-1.0.dist-info/METADATA"])
	}
	if diff := cmp.Diff([]string{"editables"}, meta.Dependencies); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}

	want := []string{
		"foo/data.json",
		"foo.pth",
		"_foo.py",
		"foo-1.0.dist-info/METADATA",
		"foo-1.0.dist-info/WHEEL",
		"foo-1.0.dist-info/RECORD",
	}
	if diff := cmp.Diff(want, recordPaths(t, path)); diff != "" {
		t.Errorf("RECORD mismatch (-want +got):\n%s", diff)
	}
}

// Project bar, nothing redirected, search path src.
func TestScenarioSearchPathOnly(t *testing.T) {
	t.Parallel()

	meta := newProject(t, map[string]string{
		"pyproject.toml": `
[project]
name = "bar"
version = "0.1"
`,
		"src/bar/__init__.py": "",
		"src/bar/core.py":     "",
	})

	b := New(meta, wheel.NewBuilder(meta))
	path, err := b.BuildWheel(t.TempDir())
	if err != nil {
		t.Fatalf("BuildWheel() error: %v", err)
	}

	contents := testutil.ReadWheel(t, path)
	if got, want := contents["bar.pth"], filepath.Join(meta.Root, "src"); got != want {
		t.Errorf("bar.pth = %q, want %q", got, want)
	}
	if _, ok := contents["_bar.py"]; ok {
		t.Error("no bootstrap module expected without redirections")
	}
	if strings.Contains(contents["bar-0.1.dist-info/METADATA"], "Requires-Dist") {
		t.Errorf("no dependency expected:\n%s", contents["bar-0.1.dist-info/METADATA"])
	}

	want := []string{
		"bar.pth",
		"bar-0.1.dist-info/METADATA",
		"bar-0.1.dist-info/WHEEL",
		"bar-0.1.dist-info/RECORD",
	}
	if diff := cmp.Diff(want, recordPaths(t, path)); diff != "" {
		t.Errorf("RECORD mismatch (-want +got):\n%s", diff)
	}
}

func TestModulesAndSubPackages(t *testing.T) {
	t.Parallel()

	meta := newProject(t, map[string]string{
		"pyproject.toml": `
[project]
name = "multi"
version = "2"
dependencies = ["attrs"]

[tool.pdm.build]
package-dir = "lib"
editable-backend = "editables"
`,
		"lib/alpha/__init__.py":     "",
		"lib/alpha/sub/__init__.py": "",
		"lib/beta.py":               "",
	})

	b := New(meta, wheel.NewBuilder(meta))
	if _, err := b.BuildWheel(t.TempDir()); err != nil {
		t.Fatalf("BuildWheel() error: %v", err)
	}

	want := []editables.Redirection{
		{Name: "alpha", Path: filepath.Join(meta.Root, "lib", "alpha", "__init__.py")},
		{Name: "beta", Path: filepath.Join(meta.Root, "lib", "beta.py")},
	}
	if diff := cmp.Diff(want, b.Project().Redirections()); diff != "" {
		t.Errorf("Redirections() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"attrs", "editables"}, meta.Dependencies); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestWithBackendOverridesProject(t *testing.T) {
	t.Parallel()

	meta := newProject(t, map[string]string{
		"pyproject.toml":      "[project]\nname = \"foo\"\nversion = \"1\"\n",
		"src/foo/__init__.py": "",
	})

	b := New(meta, wheel.NewBuilder(meta), WithBackend(pyproject.EditableBackendEditables))
	if _, err := b.BuildWheel(t.TempDir()); err != nil {
		t.Fatalf("BuildWheel() error: %v", err)
	}
	if !b.Project().HasRedirections() {
		t.Error("editables backend must redirect foo")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	t.Parallel()

	meta := newProject(t, map[string]string{
		"pyproject.toml":      "[project]\nname = \"foo\"\nversion = \"1\"\n",
		"src/foo/__init__.py": "",
	})

	b := New(meta, wheel.NewBuilder(meta))
	dist := t.TempDir()
	path, err := b.BuildWheel(dist)
	if err != nil {
		t.Fatalf("BuildWheel() error: %v", err)
	}
	if _, err := b.BuildWheel(dist); !errors.Is(err, ErrBuilderUsed) {
		t.Errorf("second BuildWheel() error = %v, want ErrBuilderUsed", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("first wheel must survive a rejected rebuild: %v", err)
	}
}

// fakeBase is a Base whose steps can fail on demand.
type fakeBase struct {
	files       []wheel.SourceFile
	selectErr   error
	bodyErr     error
	metadataErr error

	gotBody []wheel.SourceFile
}

func (f *fakeBase) WheelName() string { return "fake-1-py3-none-any.whl" }

func (f *fakeBase) SelectFiles() ([]wheel.SourceFile, error) {
	return f.files, f.selectErr
}

func (f *fakeBase) WriteBody(_ *wheel.Recorder, files []wheel.SourceFile) error {
	f.gotBody = files
	return f.bodyErr
}

func (f *fakeBase) WriteMetadata(rec *wheel.Recorder) error {
	if f.metadataErr != nil {
		return f.metadataErr
	}
	return rec.WriteRecord("fake-1.dist-info/RECORD")
}

func TestBuildPassesFilteredFilesToBase(t *testing.T) {
	t.Parallel()

	meta := &pyproject.Metadata{Name: "fake", Version: "1", Root: t.TempDir(), PackageDir: "."}
	base := &fakeBase{files: []wheel.SourceFile{
		{ArcPath: "fake/__init__.py"},
		{ArcPath: "fake/logo.png"},
		{ArcPath: "fake/util.py"},
	}}

	b := New(meta, base)
	if err := b.Build(wheel.NewRecorder(io.Discard)); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if diff := cmp.Diff([]wheel.SourceFile{{ArcPath: "fake/logo.png"}}, base.gotBody); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if b.State() != StateMetadataFinalized {
		t.Errorf("State() = %s, want %s", b.State(), StateMetadataFinalized)
	}
}

func TestBuildFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name     string
		base     *fakeBase
		backend  pyproject.EditableBackend
		packages []string
		wantErr  error
		wantFrom State
	}{
		{
			name:     "invalid target",
			base:     &fakeBase{},
			backend:  pyproject.EditableBackendEditables,
			packages: []string{"missing"},
			wantErr:  editables.ErrInvalidTarget,
			wantFrom: StateInit,
		},
		{
			name:     "select files",
			base:     &fakeBase{selectErr: boom},
			wantErr:  boom,
			wantFrom: StatePackagesMapped,
		},
		{
			name:     "write body",
			base:     &fakeBase{bodyErr: boom},
			wantErr:  boom,
			wantFrom: StateFilesSelected,
		},
		{
			name:     "write metadata",
			base:     &fakeBase{metadataErr: boom},
			wantErr:  boom,
			wantFrom: StateShimsWritten,
		},
		{
			name:     "unknown backend",
			base:     &fakeBase{},
			backend:  "magic",
			wantErr:  pyproject.ErrInvalidEditableBackend,
			wantFrom: StateInit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meta := &pyproject.Metadata{
				Name:       "fake",
				Version:    "1",
				Root:       t.TempDir(),
				PackageDir: ".",
				Packages:   tt.packages,
			}
			b := New(meta, tt.base, WithBackend(tt.backend))

			err := b.Build(wheel.NewRecorder(io.Discard))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			var stepErr *StepError
			if !errors.As(err, &stepErr) || stepErr.From != tt.wantFrom {
				t.Errorf("Build() error = %v, want failure after %s", err, tt.wantFrom)
			}
			if b.State() != StateFailed {
				t.Errorf("State() = %s, want %s", b.State(), StateFailed)
			}
			if err := b.Build(wheel.NewRecorder(io.Discard)); !errors.Is(err, ErrBuilderUsed) {
				t.Errorf("Build() after failure error = %v, want ErrBuilderUsed", err)
			}
		})
	}
}

func TestBuildWheelFailureRemovesArchive(t *testing.T) {
	t.Parallel()

	meta := &pyproject.Metadata{Name: "fake", Version: "1", Root: t.TempDir(), PackageDir: "."}
	dist := t.TempDir()

	b := New(meta, &fakeBase{bodyErr: errors.New("disk full")})
	if _, err := b.BuildWheel(dist); err == nil {
		t.Fatal("BuildWheel() should fail")
	}
	if _, err := os.Stat(filepath.Join(dist, "fake-1-py3-none-any.whl")); !os.IsNotExist(err) {
		t.Errorf("partial wheel must be removed, Stat() error = %v", err)
	}
}

func TestBuildWheelUnopenableArchive(t *testing.T) {
	t.Parallel()

	meta := &pyproject.Metadata{Name: "fake", Version: "1", Root: t.TempDir(), PackageDir: "."}
	blocker := filepath.Join(t.TempDir(), "dist")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	base := &fakeBase{}
	b := New(meta, base)
	_, err := b.BuildWheel(blocker)
	if !errors.Is(err, wheel.ErrArchiveWrite) {
		t.Fatalf("BuildWheel() error = %v, want ErrArchiveWrite", err)
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		t.Errorf("BuildWheel() error = %v, no build step ran", err)
	}
	if b.State() != StateFailed {
		t.Errorf("State() = %s, want %s", b.State(), StateFailed)
	}
	if base.gotBody != nil {
		t.Errorf("body written although the archive never opened: %v", base.gotBody)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if got := StateShimsWritten.String(); got != "shims-written" {
		t.Errorf("String() = %q", got)
	}
	if got := State(42).String(); got != "state(42)" {
		t.Errorf("String() = %q", got)
	}
	if !StateDone.IsTerminal() || !StateFailed.IsTerminal() || StateBodyWritten.IsTerminal() {
		t.Error("only Done and Failed are terminal")
	}
}
