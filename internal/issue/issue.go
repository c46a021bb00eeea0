// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	PyprojectNotFoundId Id = iota + 1
	PyprojectInvalidId
	InvalidRedirectionId
	EditableBackendInvalidId
	ConfigLoadFailedId
	WheelWriteFailedId
	WheelVerifyFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is guidance text in Markdown.
	MarkdownMsg string

	// Issue is a catalog entry: Markdown guidance for one kind of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	pyprojectNotFoundIssue = &Issue{
		id: PyprojectNotFoundId,
		mdMsg: `
# No pyproject.toml found

editwheel builds the project in the given directory (default: the current
directory) and needs its ` + "`pyproject.toml`" + `.

## Things you can try
- Run the command from the project root, or pass it:
~~~
$ editwheel build path/to/project
~~~
- Create a minimal ` + "`pyproject.toml`" + `:
~~~toml
[project]
name = "foo"
version = "0.1.0"
~~~`,
	}

	pyprojectInvalidIssue = &Issue{
		id: PyprojectInvalidId,
		mdMsg: `
# pyproject.toml could not be used

The file is not valid TOML, or ` + "`[project]`" + ` is missing its
` + "`name`" + ` or ` + "`version`" + `.

## Things you can try
- Check the line and column reported above.
- Make sure both required keys are set:
~~~toml
[project]
name = "foo"
version = "0.1.0"
~~~`,
	}

	invalidRedirectionIssue = &Issue{
		id: InvalidRedirectionId,
		mdMsg: `
# A package cannot be redirected

With the ` + "`editables`" + ` backend every top-level package must be a
directory holding ` + "`__init__.py`" + `, and every top-level module a
regular ` + "`.py`" + ` file. Only top-level names can be redirected.

## Things you can try
- Add the missing ` + "`__init__.py`" + `.
- Use the default backend, which puts the package directory on the search path:
~~~
$ editwheel build --editable --backend path
~~~`,
	}

	editableBackendInvalidIssue = &Issue{
		id: EditableBackendInvalidId,
		mdMsg: `
# Unknown editable backend

Valid backends:
- ` + "`path`" + `: a .pth file adds the package directory to the search path.
- ` + "`editables`" + `: an import hook maps each top-level package to its source.

Set it in ` + "`pyproject.toml`" + `:
~~~toml
[tool.pdm.build]
editable-backend = "editables"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

## Things you can try
- Show the file editwheel reads:
~~~
$ editwheel config path
~~~
- Regenerate a default file and edit it again:
~~~
$ editwheel config init
~~~`,
	}

	wheelWriteFailedIssue = &Issue{
		id: WheelWriteFailedId,
		mdMsg: `
# The wheel could not be written

No partial wheel was left behind.

## Things you can try
- Check that the output directory is writable, or pick another one:
~~~
$ editwheel build --dist-dir /tmp/dist
~~~`,
	}

	wheelVerifyFailedIssue = &Issue{
		id: WheelVerifyFailedId,
		mdMsg: `
# The wheel does not match its RECORD

A file was changed after the wheel was built, or RECORD is incomplete.
Rebuild the wheel instead of editing it in place.`,
	}

	issues = map[Id]*Issue{
		pyprojectNotFoundIssue.Id():      pyprojectNotFoundIssue,
		pyprojectInvalidIssue.Id():       pyprojectInvalidIssue,
		invalidRedirectionIssue.Id():     invalidRedirectionIssue,
		editableBackendInvalidIssue.Id(): editableBackendInvalidIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		wheelWriteFailedIssue.Id():       wheelWriteFailedIssue,
		wheelVerifyFailedIssue.Id():      wheelVerifyFailedIssue,
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Render renders the guidance with a glamour style name such as "dark",
// "light", "notty" or "auto".
func (i *Issue) Render(style string) (string, error) {
	return render(string(i.mdMsg), style)
}

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	values := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		values = append(values, issues[id])
	}
	return values
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
