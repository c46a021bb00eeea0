// SPDX-License-Identifier: MPL-2.0

// Package pyproject reads the parts of a pyproject.toml that wheel builds
// need: the [project] table and the [tool.pdm.build] table.
//
// Besides decoding, Load discovers the importable packages and modules below
// the package directory, so the result carries everything a builder needs to
// decide which files belong in the wheel.
package pyproject
