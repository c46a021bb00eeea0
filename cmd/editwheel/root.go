// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the editwheel command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "editwheel",
		Short: "Build regular and editable Python wheels",
		Long: TitleStyle.Render("editwheel") + SubtitleStyle.Render(" - build regular and editable Python wheels") + `

editwheel reads pyproject.toml, discovers the project's packages and writes
a wheel with its .dist-info and RECORD. An editable wheel keeps the sources
in place: a .pth file puts the package directory on the search path, or an
import hook redirects each top-level package to its source.

` + SubtitleStyle.Render("Examples:") + `
  editwheel build                      Build a regular wheel into ./dist
  editwheel build --editable           Build an editable wheel
  editwheel inspect dist/foo-1.0-py3-none-any.whl
  editwheel config show                Show the effective configuration`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/editwheel/config.cue)")

	root.AddCommand(newBuildCommand(app))
	root.AddCommand(newInspectCommand(app))
	root.AddCommand(newConfigCommand(app))

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	root := NewRootCommand(NewApp(Dependencies{}))
	root.SetArgs(args)

	err := fang.Execute(ctx, root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	return exitCode(err)
}

// Execute runs the command line from os.Args and exits.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}
