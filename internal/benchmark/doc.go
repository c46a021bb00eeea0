// SPDX-License-Identifier: MPL-2.0

// Package benchmark measures the hot paths of a wheel build:
//   - pyproject.toml loading and package discovery
//   - RECORD hashing and archive writing
//   - regular and editable end-to-end builds
//   - configuration loading through the CUE schema
//
// Run with:
//
//	go test -bench=. -benchmem ./internal/benchmark/
package benchmark
