// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult holds a decoded document.
type ParseResult[T any] struct {
	Value *T
	// Unified is the document unified with its schema definition.
	Unified cue.Value
}

// ParseAndDecode validates data against the definition at schemaPath
// (e.g. "#Config") of schema and decodes it into a T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if err := CheckFileSize(data, options.maxFileSize, options.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	definition := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := definition.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema has no %s: %w", schemaPath, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(options.filename))
	if err := userValue.Err(); err != nil {
		return nil, FormatError(err, options.filename)
	}

	unified := definition.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, options.filename)
	}

	var value T
	if err := unified.Decode(&value); err != nil {
		return nil, FormatError(err, options.filename)
	}
	return &ParseResult[T]{Value: &value, Unified: unified}, nil
}
