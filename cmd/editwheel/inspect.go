// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strconv"

	"github.com/editwheel/editwheel/internal/issue"
	"github.com/editwheel/editwheel/pkg/wheel"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newInspectCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect WHEEL",
		Short: "List a wheel's RECORD and verify every entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := wheel.Verify(args[0])
			if err != nil {
				err = issue.NewErrorContext().
					WithOperation("verify wheel").
					WithResource(args[0]).
					Wrap(err).
					BuildError()
				app.reportError(err)
				if wheel.IsIntegrityError(err) {
					return &ExitError{Code: exitVerifyFailed, Err: err}
				}
				return err
			}
			printRecord(app, entries)
			return nil
		},
	}
}

func printRecord(app *App, entries []wheel.RecordEntry) {
	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Path))
	}
	column := lipgloss.NewStyle().Width(width + 2)

	app.printf("%s\n", TitleStyle.Render("RECORD"))
	for _, e := range entries {
		if e.Digest == "" {
			app.printf("%s%s\n", column.Render(e.Path), SubtitleStyle.Render("(unhashed)"))
			continue
		}
		app.printf("%s%s %s\n", column.Render(e.Path), strconv.FormatInt(e.Size, 10), SubtitleStyle.Render(wheel.HashAlgorithm+"="+e.Digest))
	}
	app.printf("%s %d entries verified\n", SuccessStyle.Render("OK"), len(entries))
}
