// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/editwheel/editwheel/internal/config"
	"github.com/editwheel/editwheel/internal/issue"
	"github.com/editwheel/editwheel/pkg/cueutil"
	"github.com/editwheel/editwheel/pkg/editables"
	"github.com/editwheel/editwheel/pkg/pyproject"
	"github.com/editwheel/editwheel/pkg/wheel"

	"github.com/pelletier/go-toml/v2"
)

// issueStyle is the glamour style used for catalog guidance. "auto" falls
// back to plain text when stdout is not a terminal.
const issueStyle = "auto"

// classifyError maps err to the catalog entry that explains it, or 0.
func classifyError(err error) issue.Id {
	var decodeErr *toml.DecodeError

	// Configuration errors wrap field errors from other packages (an
	// invalid editable_backend is a pyproject.ErrInvalidEditableBackend),
	// so they are matched first.
	switch {
	case errors.Is(err, cueutil.ErrSchema),
		errors.Is(err, cueutil.ErrFileTooLarge),
		errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, pyproject.ErrNoPyproject):
		return issue.PyprojectNotFoundId
	case errors.Is(err, pyproject.ErrMissingField), errors.As(err, &decodeErr):
		return issue.PyprojectInvalidId
	case errors.Is(err, pyproject.ErrInvalidEditableBackend):
		return issue.EditableBackendInvalidId
	case errors.Is(err, editables.ErrInvalidTarget),
		errors.Is(err, editables.ErrInvalidPackageName),
		errors.Is(err, editables.ErrDuplicateRedirection):
		return issue.InvalidRedirectionId
	case errors.Is(err, wheel.ErrArchiveWrite):
		return issue.WheelWriteFailedId
	case wheel.IsIntegrityError(err):
		return issue.WheelVerifyFailedId
	default:
		return 0
	}
}

// reportError writes the catalog guidance for err to stderr and, in verbose
// mode, the full error chain. The error itself is printed by fang.
func (a *App) reportError(err error) {
	if entry := issue.Get(classifyError(err)); entry != nil {
		if rendered, renderErr := entry.Render(issueStyle); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}

	var ae *issue.ActionableError
	if a.verbose && errors.As(err, &ae) {
		fmt.Fprintln(a.stderr, ae.Format(true))
	}
}
