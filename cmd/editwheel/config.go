// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strconv"

	"github.com/editwheel/editwheel/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage editwheel configuration",
		Long: `Manage editwheel configuration.

Configuration is stored in:
  - Linux: ~/.config/editwheel/config.cue
  - macOS: ~/Library/Application Support/editwheel/config.cue
  - Windows: %APPDATA%\editwheel\config.cue

EDITWHEEL_* environment variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				app.reportError(err)
				return err
			}
			showConfig(app, loaded)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(config.LoadOptions{ConfigFilePath: app.configPath})
			if err != nil {
				return err
			}
			if !created {
				app.printf("%s %s\n", WarningStyle.Render("Exists"), PathStyle.Render(path))
				return nil
			}
			app.printf("%s %s\n", SuccessStyle.Render("Created"), PathStyle.Render(path))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(config.LoadOptions{ConfigFilePath: app.configPath})
			if err != nil {
				return err
			}
			app.printf("%s\n", path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, loaded *config.Loaded) {
	cfg := loaded.Config

	app.printf("%s\n\n", TitleStyle.Render("Current Configuration"))
	if loaded.Path != "" {
		app.printf("%s: %s\n\n", PathStyle.Render("Config file"), loaded.Path)
	} else {
		app.printf("%s: %s\n\n", PathStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	app.printf("%s: %s\n", PathStyle.Render("dist_dir"), SuccessStyle.Render(cfg.DistDir))
	app.printf("%s: %s\n", PathStyle.Render("editable_backend"), SuccessStyle.Render(cfg.EditableBackend.String()))
	app.printf("%s: %s\n", PathStyle.Render("compression_level"), SuccessStyle.Render(strconv.Itoa(cfg.CompressionLevel)))
	app.printf("%s:\n", PathStyle.Render("ui"))
	app.printf("  verbose: %s\n", SuccessStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
}
