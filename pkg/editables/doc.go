// SPDX-License-Identifier: MPL-2.0

// Package editables builds the redirection files of an editable wheel.
//
// An editable wheel does not carry copies of a project's source files.
// Instead it ships two small generated files:
//
//   - "<name>.pth": read by the interpreter at startup. Every line is either
//     an absolute directory appended to the import search path, or an
//     "import" statement that loads the bootstrap module.
//   - "_<name>.py": the bootstrap module. It installs the RedirectingFinder
//     from the "editables" runtime package and registers one redirection
//     per top-level package or module, pointing the import system at the
//     original source file.
//
// A Project collects redirections and search-path entries for a single
// build and renders both files from that state. Rendering performs no I/O
// and is deterministic for a given insertion order.
package editables
