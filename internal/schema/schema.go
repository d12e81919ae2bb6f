// Package schema validates emitted contract JSON against the embedded
// CUE definition of the contract format.
//
// The resolver pipeline never consumes this package; it exists for the
// boundary in the other direction, where previously emitted contracts
// re-enter the toolchain (from disk, a store, or another tool) and
// must be checked before a code generator trusts them.
package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed contract.cue
var contractSchema string

// Vet checks that data is a well-formed contract set document.
// Returns every violation found, formatted one per line, not just the
// first.
func Vet(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(contractSchema, cue.Filename("contract.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal: compiling contract schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#ContractSet"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("internal: looking up #ContractSet: %w", err)
	}

	// JSON is a subset of CUE, so the document compiles directly.
	doc := ctx.CompileBytes(data, cue.Filename("contract.json"))
	if err := doc.Err(); err != nil {
		return fmt.Errorf("parsing contract document: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return fmt.Errorf("contract does not match schema:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
