// Package schema checks that a stored loyalty document has the expected
// shape before it is decoded.
//
// JSON decoding alone accepts a document with missing settings or a zero
// reward threshold; the CUE schema in document.cue rejects those so the
// loader can fall back to defaults instead.
package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed document.cue
var documentSchema string

// Validator holds the compiled document schema.
// A Validator is not safe for concurrent use; the engine calls it under its
// own lock.
type Validator struct {
	ctx *cue.Context
	def cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()

	v := ctx.CompileString(documentSchema, cue.Filename("document.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}

	def := v.LookupPath(cue.ParsePath("#Document"))
	if !def.Exists() {
		return nil, fmt.Errorf("document schema has no #Document definition")
	}

	return &Validator{ctx: ctx, def: def}, nil
}

// Validate reports whether data is a JSON document of the expected shape.
func (v *Validator) Validate(data []byte) error {
	expr, err := cuejson.Extract("document.json", data)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	doc := v.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build document: %w", err)
	}

	if err := v.def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
