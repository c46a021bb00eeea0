// SPDX-License-Identifier: MPL-2.0

package editable

import "fmt"

const (
	// StateInit is the state of a new builder.
	StateInit State = iota
	// StatePackagesMapped means every top-level name has been redirected
	// (or the package directory was put on the search path).
	StatePackagesMapped
	// StateFilesSelected means the wheel body has been chosen.
	StateFilesSelected
	// StateBodyWritten means the body files are in the archive.
	StateBodyWritten
	// StateShimsWritten means the .pth and bootstrap files are in the archive.
	StateShimsWritten
	// StateMetadataFinalized means .dist-info, including RECORD, is written.
	StateMetadataFinalized
	// StateDone means the archive has been closed (terminal state).
	StateDone
	// StateFailed means a step failed (terminal state).
	StateFailed
)

// State is a step of the editable build.
type State int

var stateNames = [...]string{
	StateInit:              "init",
	StatePackagesMapped:    "packages-mapped",
	StateFilesSelected:     "files-selected",
	StateBodyWritten:       "body-written",
	StateShimsWritten:      "shims-written",
	StateMetadataFinalized: "metadata-finalized",
	StateDone:              "done",
	StateFailed:            "failed",
}

// String returns the lower-case name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
