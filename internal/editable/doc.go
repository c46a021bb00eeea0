// SPDX-License-Identifier: MPL-2.0

// Package editable builds editable wheels.
//
// A Builder wraps a regular wheel builder (the Base interface) and changes
// two of its steps: file selection drops Python sources, and metadata
// writing is preceded by the generated .pth and bootstrap files plus the
// "editables" runtime requirement when any package is redirected.
//
// A build walks the states Init, PackagesMapped, FilesSelected, BodyWritten,
// ShimsWritten, MetadataFinalized and Done. Any failure moves the builder to
// Failed and the build cannot be resumed.
package editable
