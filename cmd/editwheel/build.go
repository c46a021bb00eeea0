// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/editwheel/editwheel/internal/config"
	"github.com/editwheel/editwheel/internal/editable"
	"github.com/editwheel/editwheel/internal/issue"
	"github.com/editwheel/editwheel/internal/watch"
	"github.com/editwheel/editwheel/pkg/pyproject"
	"github.com/editwheel/editwheel/pkg/wheel"

	"github.com/spf13/cobra"
)

type buildOptions struct {
	dir      string
	editable bool
	distDir  string
	backend  string
	watch    bool
	debounce time.Duration
}

func newBuildCommand(app *App) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [DIR]",
		Short: "Build a wheel for the project in DIR",
		Long: `Build a wheel for the project in DIR (default: the current directory).

With --editable the wheel holds no Python sources. The editable backend is
taken from --backend, then from [tool.pdm.build] editable-backend in
pyproject.toml, then from the editable_backend configuration key.

With --watch the wheel is rebuilt whenever a project file changes, until
interrupted. Editable builds skip rebuilds for edits to existing modules.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dir = "."
			if len(args) == 1 {
				opts.dir = args[0]
			}
			err := runBuild(cmd.Context(), app, opts)
			if err != nil {
				app.reportError(err)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&opts.editable, "editable", "e", false, "build an editable wheel")
	cmd.Flags().StringVarP(&opts.distDir, "dist-dir", "d", "", "output directory, relative to the project (default from config: dist)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "editable backend: path or editables")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild when project files change")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")

	return cmd
}

func runBuild(ctx context.Context, app *App, opts buildOptions) error {
	loaded, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	meta, err := buildOnce(app, cfg, opts)
	if !opts.watch {
		return err
	}
	if err != nil {
		if meta == nil {
			// Without a project there is nothing to watch.
			return err
		}
		app.reportError(err)
	}
	return watchAndRebuild(ctx, app, cfg, meta, opts)
}

// buildOnce loads the project from disk and writes one wheel. The returned
// metadata is nil only when the project could not be loaded.
func buildOnce(app *App, cfg *config.Config, opts buildOptions) (*pyproject.Metadata, error) {
	logger := app.logger()

	meta, err := pyproject.Load(opts.dir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load project").
			WithResource(opts.dir).
			Wrap(err).
			BuildError()
	}
	logger.Debug("Loaded project", "name", meta.Name, "version", meta.Version, "package_dir", meta.PackageDir, "packages", meta.Packages, "modules", meta.PyModules)

	distDir := resolveDistDir(meta, cfg, opts.distDir)
	recOpts := []wheel.RecorderOption{wheel.WithCompressionLevel(cfg.CompressionLevel)}
	base := wheel.NewBuilder(meta,
		wheel.WithBuilderLogger(logger),
		wheel.WithGenerator(config.AppName+" "+Version),
	)

	var out string
	if opts.editable {
		builder := editable.New(meta, base,
			editable.WithLogger(logger),
			editable.WithBackend(resolveBackend(meta, cfg, opts.backend)),
		)
		out, err = builder.BuildWheel(distDir, recOpts...)
		for _, r := range builder.Project().Redirections() {
			logger.Debug("Redirected", "package", r.Name, "path", r.Path)
		}
	} else {
		out, err = base.Build(distDir, recOpts...)
	}
	if err != nil {
		return meta, issue.NewErrorContext().
			WithOperation("build wheel").
			WithResource(meta.Root).
			Wrap(err).
			BuildError()
	}

	app.printf("%s %s\n", SuccessStyle.Render("Built"), PathStyle.Render(out))
	return meta, nil
}

// watchAndRebuild rebuilds the wheel whenever a change can alter its
// content, until ctx is canceled. The output directory is never watched.
func watchAndRebuild(ctx context.Context, app *App, cfg *config.Config, meta *pyproject.Metadata, opts buildOptions) error {
	logger := app.logger()

	var ignore []string
	if rel, ok := relativeTo(meta.Root, resolveDistDir(meta, cfg, opts.distDir)); ok {
		ignore = append(ignore, rel, rel+"/**")
	}
	pkgDir := filepath.ToSlash(meta.PackageDir)

	w, err := watch.New(watch.Config{
		Dir:      meta.Root,
		Ignore:   ignore,
		Debounce: opts.debounce,
		Logger:   logger,
		OnChange: func(_ context.Context, changed []string) error {
			if !rebuildNeeded(opts.editable, pkgDir, changed) {
				logger.Debug("Skipping rebuild", "paths", changed)
				return nil
			}
			logger.Info("Rebuilding", "paths", changed)
			if _, err := buildOnce(app, cfg, opts); err != nil {
				app.reportError(err)
			}
			return nil
		},
	})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("watch project").
			WithResource(meta.Root).
			Wrap(err).
			BuildError()
	}

	app.printf("%s %s\n", SubtitleStyle.Render("Watching"), PathStyle.Render(meta.Root))
	return w.Run(ctx)
}

// rebuildNeeded reports whether any changed path can alter the wheel.
// A regular wheel depends on every file. An editable wheel only carries
// non-Python files, so a source edit needs no rebuild unless it adds a
// package (__init__.py) or a top-level module directly in pkgDir.
func rebuildNeeded(editable bool, pkgDir string, changed []string) bool {
	if !editable {
		return len(changed) > 0
	}
	for _, p := range changed {
		if !strings.HasSuffix(p, wheel.SourceExtension) {
			return true
		}
		if path.Base(p) == "__init__.py" || path.Dir(p) == pkgDir {
			return true
		}
	}
	return false
}

// relativeTo returns target relative to root, slash separated, when
// target lies inside root.
func relativeTo(root, target string) (string, bool) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// resolveDistDir returns the flag value, else the configured directory.
// Relative directories are resolved against the project root.
func resolveDistDir(meta *pyproject.Metadata, cfg *config.Config, flag string) string {
	dir := flag
	if dir == "" {
		dir = cfg.DistDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(meta.Root, dir)
}

// resolveBackend applies the precedence flag, pyproject.toml, configuration.
func resolveBackend(meta *pyproject.Metadata, cfg *config.Config, flag string) pyproject.EditableBackend {
	switch {
	case flag != "":
		return pyproject.EditableBackend(flag)
	case meta.EditableBackend != "":
		return meta.EditableBackend
	default:
		return cfg.EditableBackend
	}
}
