// SPDX-License-Identifier: MPL-2.0

// Package wheel writes wheel archives and their RECORD manifest.
//
// Every file goes into the archive through a Recorder. The Recorder hashes
// the bytes with SHA-256 and appends a RecordEntry before moving on, so the
// manifest always reflects the real write order. WriteRecord serializes the
// manifest as the archive's .dist-info/RECORD file and must be the last write.
//
// Builder implements the regular wheel build: it selects the package files,
// writes them through a Recorder and finishes with the .dist-info directory.
// Editable builds reuse the same Builder steps (see internal/editable).
//
// Verify re-reads a finished wheel and checks every entry against RECORD.
package wheel
