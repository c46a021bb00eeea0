// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/editwheel/editwheel/internal/config"
	"github.com/editwheel/editwheel/internal/issue"
	"github.com/editwheel/editwheel/internal/testutil"
	"github.com/editwheel/editwheel/pkg/cueutil"
	"github.com/editwheel/editwheel/pkg/editables"
	"github.com/editwheel/editwheel/pkg/pyproject"
	"github.com/editwheel/editwheel/pkg/wheel"
)

// staticConfig is a config.Provider that ignores the user's files.
type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Loaded, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &config.Loaded{Config: s.cfg}, nil
}

func runCLI(t *testing.T, provider config.Provider, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func newProjectDir(t *testing.T, name string) string {
	t.Helper()
	return testutil.NewTree(t, map[string]string{
		"pyproject.toml":               "[project]\nname = \"" + name + "\"\nversion = \"1.0\"\n",
		"src/" + name + "/__init__.py": "",
		"src/" + name + "/core.py":     "X = 1\n",
	})
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantNot []string
	}{
		{
			name:    "regular",
			want:    []string{"foo/__init__.py", "foo/core.py"},
			wantNot: []string{"foo.pth"},
		},
		{
			name:    "editable path backend",
			args:    []string{"--editable"},
			want:    []string{"foo.pth"},
			wantNot: []string{"foo/core.py", "_foo.py"},
		},
		{
			name:    "editable editables backend",
			args:    []string{"--editable", "--backend", "editables"},
			want:    []string{"foo.pth", "_foo.py"},
			wantNot: []string{"foo/__init__.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := newProjectDir(t, "foo")
			args := append([]string{"build", dir}, tt.args...)
			stdout, _, err := runCLI(t, staticConfig{cfg: config.DefaultConfig()}, args...)
			if err != nil {
				t.Fatalf("build error: %v", err)
			}

			path := filepath.Join(dir, "dist", "foo-1.0-py3-none-any.whl")
			if !strings.Contains(stdout, path) {
				t.Errorf("stdout should name %s, got %q", path, stdout)
			}
			names := strings.Join(testutil.WheelNames(t, path), "\n") + "\n"
			for _, w := range tt.want {
				if !strings.Contains(names, w+"\n") {
					t.Errorf("wheel lacks %s:\n%s", w, names)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(names, w+"\n") {
					t.Errorf("wheel should not contain %s:\n%s", w, names)
				}
			}
		})
	}
}

func TestBuildCommandUsesConfig(t *testing.T) {
	t.Parallel()

	dir := newProjectDir(t, "foo")
	cfg := config.DefaultConfig()
	cfg.DistDir = "wheels"
	cfg.EditableBackend = pyproject.EditableBackendEditables

	if _, _, err := runCLI(t, staticConfig{cfg: cfg}, "build", "--editable", dir); err != nil {
		t.Fatalf("build error: %v", err)
	}
	names := testutil.WheelNames(t, filepath.Join(dir, "wheels", "foo-1.0-py3-none-any.whl"))
	if !strings.Contains(strings.Join(names, " "), "_foo.py") {
		t.Errorf("configured editables backend not applied: %v", names)
	}
}

func TestBuildCommandErrors(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCLI(t, staticConfig{cfg: config.DefaultConfig()}, "build", t.TempDir())
	if !errors.Is(err, pyproject.ErrNoPyproject) {
		t.Fatalf("build error = %v, want ErrNoPyproject", err)
	}
	if !strings.Contains(stderr, "No pyproject.toml found") {
		t.Errorf("stderr should hold the guidance, got %q", stderr)
	}

	cfgErr := errors.New("broken config")
	_, _, err = runCLI(t, staticConfig{err: cfgErr}, "build", newProjectDir(t, "foo"))
	if !errors.Is(err, cfgErr) {
		t.Errorf("build error = %v, want config error", err)
	}
}

func TestInspectCommand(t *testing.T) {
	t.Parallel()

	dir := newProjectDir(t, "foo")
	if _, _, err := runCLI(t, staticConfig{cfg: config.DefaultConfig()}, "build", dir); err != nil {
		t.Fatalf("build error: %v", err)
	}

	stdout, _, err := runCLI(t, nil, "inspect", filepath.Join(dir, "dist", "foo-1.0-py3-none-any.whl"))
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"RECORD", "foo/core.py", "sha256=", "OK 5 entries verified"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout lacks %q:\n%s", want, stdout)
		}
	}

	_, _, err = runCLI(t, nil, "inspect", filepath.Join(dir, "pyproject.toml"))
	if err == nil || exitCode(err) != exitFailure {
		t.Errorf("inspect of a non-wheel error = %v, want exit code %d", err, exitFailure)
	}
}

func TestInspectTamperedWheel(t *testing.T) {
	t.Parallel()

	record, err := wheel.FormatRecord([]wheel.RecordEntry{
		{Path: "a.txt", Digest: wheel.Digest([]byte("hello")), Size: 5},
	}, "x-1.dist-info/RECORD")
	if err != nil {
		t.Fatalf("FormatRecord() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "x-1-py3-none-any.whl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range map[string][]byte{"a.txt": []byte("HELLO"), "x-1.dist-info/RECORD": record} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	_, _, err = runCLI(t, nil, "inspect", path)
	if !errors.Is(err, wheel.ErrHashMismatch) || exitCode(err) != exitVerifyFailed {
		t.Errorf("inspect error = %v (exit %d), want hash mismatch with exit %d", err, exitCode(err), exitVerifyFailed)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, staticConfig{cfg: config.DefaultConfig()}, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	for _, want := range []string{"(using defaults)", "dist_dir: dist", "editable_backend: path", "compression_level: -1", "verbose: false"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout lacks %q:\n%s", want, stdout)
		}
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want issue.Id
	}{
		{fmt.Errorf("x: %w", pyproject.ErrNoPyproject), issue.PyprojectNotFoundId},
		{&pyproject.MissingFieldError{Field: "project.name"}, issue.PyprojectInvalidId},
		{&pyproject.InvalidEditableBackendError{Value: "x"}, issue.EditableBackendInvalidId},
		{&editables.InvalidTargetError{Name: "foo"}, issue.InvalidRedirectionId},
		{&editables.DuplicateRedirectionError{Name: "foo"}, issue.InvalidRedirectionId},
		{&cueutil.SchemaError{File: "c.cue"}, issue.ConfigLoadFailedId},
		{&config.InvalidConfigError{FieldErrors: []error{&pyproject.InvalidEditableBackendError{Value: "symlink"}}}, issue.ConfigLoadFailedId},
		{issue.NewErrorContext().WithOperation("validate configuration").Wrap(
			&config.InvalidConfigError{FieldErrors: []error{&pyproject.InvalidEditableBackendError{Value: "x"}}},
		).BuildError(), issue.ConfigLoadFailedId},
		{&wheel.MismatchError{Path: "a", Field: "size"}, issue.WheelVerifyFailedId},
		{wheel.ErrMissingRecord, issue.WheelVerifyFailedId},
		{&wheel.ArchiveWriteError{Path: "x.whl", Err: os.ErrPermission}, issue.WheelWriteFailedId},
		{&wheel.MismatchError{Path: "a", Field: "hash"}, issue.WheelVerifyFailedId},
		{errors.New("other"), 0},
	}
	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("classifyError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestResolveBackend(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{EditableBackend: pyproject.EditableBackendPath}
	declared := &pyproject.Metadata{EditableBackend: pyproject.EditableBackendEditables}
	undeclared := &pyproject.Metadata{}

	if got := resolveBackend(declared, cfg, "path"); got != pyproject.EditableBackendPath {
		t.Errorf("flag should win, got %s", got)
	}
	if got := resolveBackend(declared, cfg, ""); got != pyproject.EditableBackendEditables {
		t.Errorf("pyproject should win over config, got %s", got)
	}
	if got := resolveBackend(undeclared, cfg, ""); got != pyproject.EditableBackendPath {
		t.Errorf("config should apply last, got %s", got)
	}
}

func TestResolveDistDir(t *testing.T) {
	t.Parallel()

	meta := &pyproject.Metadata{Root: filepath.FromSlash("/proj")}
	cfg := &config.Config{DistDir: "dist"}

	if got, want := resolveDistDir(meta, cfg, ""), filepath.Join(meta.Root, "dist"); got != want {
		t.Errorf("resolveDistDir() = %q, want %q", got, want)
	}
	abs := filepath.Join(t.TempDir(), "out")
	if got := resolveDistDir(meta, cfg, abs); got != abs {
		t.Errorf("resolveDistDir() = %q, want %q", got, abs)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"plain error", errors.New("boom"), exitFailure},
		{"exit error", &ExitError{Code: exitVerifyFailed, Err: wheel.ErrHashMismatch}, exitVerifyFailed},
		{"wrapped exit error", fmt.Errorf("inspect: %w", &ExitError{Code: 3}), 3},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}

	if msg := (&ExitError{Code: 4}).Error(); msg != "exit status 4" {
		t.Errorf("ExitError.Error() = %q", msg)
	}
}
