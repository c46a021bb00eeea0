// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by tests and benchmarks: project
// trees written from a map of slash-separated paths, and wheel readers that
// fail the test instead of returning errors.
package testutil
