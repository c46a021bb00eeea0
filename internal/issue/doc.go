// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for the editwheel CLI.
//
// ActionableError adds the failed operation, the file involved and fix
// suggestions to an error. The catalog holds longer Markdown guidance for
// well-known failures, rendered for the terminal with glamour.
package issue
