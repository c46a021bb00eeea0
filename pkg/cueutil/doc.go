// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// Decoding always follows the same three steps: compile the schema, unify
// the user document with one of its definitions, then validate and decode
// the result. Errors carry the file name and the path of every offending
// field, e.g. "config.cue: ui.verbose: conflicting values true and \"yes\"".
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[map[string]any](schema, data, "#Config",
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
