// Package symbols builds the global name table for one compilation.
//
// Every non-partial declaration registers its name exactly once.
// Partial interfaces and includes statements never register names of
// their own; they are recorded as deferred-merge directives keyed to
// their target, consumed later by the linker. References to undeclared
// names are not checked here: forward references across units are
// legal, and only unresolved-after-resolution is an error.
package symbols

import (
	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
)

// Diagnostic codes produced by the symbol table builder (E2xx).
const (
	CodeDuplicateDefinition = "E201"
)

// Table is the global name to declaration mapping plus the deferred
// merge directives collected for the linker.
type Table struct {
	decls    map[string]*ir.Declaration
	order    []string
	partials map[string][]*ir.Declaration
	includes map[string][]*ir.Declaration

	// first-encounter orders, so linker passes are deterministic
	// regardless of map iteration
	partialOrder []string
	includeOrder []string
}

// Build registers every declaration from the full ordered parse output.
// Duplicate non-partial names are reported per occurrence; the first
// registration wins so later stages still have a coherent table.
func Build(decls []*ir.Declaration, bag *diag.Bag) *Table {
	t := &Table{
		decls:    make(map[string]*ir.Declaration),
		partials: make(map[string][]*ir.Declaration),
		includes: make(map[string][]*ir.Declaration),
	}

	for _, d := range decls {
		switch {
		case d.Kind == ir.DeclIncludes:
			if _, seen := t.includes[d.IncludesTarget]; !seen {
				t.includeOrder = append(t.includeOrder, d.IncludesTarget)
			}
			t.includes[d.IncludesTarget] = append(t.includes[d.IncludesTarget], d)
		case d.Partial:
			if _, seen := t.partials[d.Name]; !seen {
				t.partialOrder = append(t.partialOrder, d.Name)
			}
			t.partials[d.Name] = append(t.partials[d.Name], d)
		default:
			if prev, exists := t.decls[d.Name]; exists {
				bag.Add(diag.Errorf(CodeDuplicateDefinition, d.Unit, d.Pos,
					"duplicate definition of %q as %s; already defined as %s at %s:%s",
					d.Name, d.Kind, prev.Kind, prev.Unit, prev.Pos))
				continue
			}
			t.decls[d.Name] = d
			t.order = append(t.order, d.Name)
		}
	}

	return t
}

// Lookup returns the declaration registered under name.
func (t *Table) Lookup(name string) (*ir.Declaration, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// Declarations returns the registered declarations in declaration order.
func (t *Table) Declarations() []*ir.Declaration {
	out := make([]*ir.Declaration, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.decls[name])
	}
	return out
}

// Partials returns the partial-interface fragments recorded for a
// target name, in the order they were encountered.
func (t *Table) Partials(name string) []*ir.Declaration {
	return t.partials[name]
}

// PartialTargets returns every name that has at least one partial
// fragment, in first-encounter order.
func (t *Table) PartialTargets() []string {
	return t.partialOrder
}

// Includes returns the includes directives recorded for a target
// interface, in the order they were encountered.
func (t *Table) Includes(target string) []*ir.Declaration {
	return t.includes[target]
}

// IncludesTargets returns every target named by an includes statement,
// in first-encounter order.
func (t *Table) IncludesTargets() []string {
	return t.includeOrder
}
