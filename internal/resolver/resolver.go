// Package resolver links every type reference to its declaration.
//
// The symbol table is fully populated before resolution starts, so a
// single pass resolves forward references regardless of declaration
// order. Errors are collected, not fail-fast: one resolution pass
// reports every unresolved reference and invalid union in the unit.
package resolver

import (
	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/symbols"
)

// Diagnostic codes produced by the type resolver (E3xx).
const (
	CodeUnresolvedType = "E301"
	CodeInvalidUnion   = "E302"
)

// Resolve walks every type reference in every declaration (including
// partial fragments, which carry members of their own) and rewrites
// named references into direct declaration links. Nested unions are
// flattened to one level while walking.
func Resolve(table *symbols.Table, decls []*ir.Declaration, bag *diag.Bag) {
	r := &resolver{table: table, bag: bag}
	for _, d := range decls {
		r.resolveDecl(d)
	}
}

type resolver struct {
	table *symbols.Table
	bag   *diag.Bag
}

func (r *resolver) resolveDecl(d *ir.Declaration) {
	if d.Type != nil {
		r.resolveType(d.Type, d)
	}
	for i := range d.Args {
		r.resolveType(d.Args[i].Type, d)
	}
	for i := range d.Members {
		m := &d.Members[i]
		if m.Type != nil {
			r.resolveType(m.Type, d)
		}
		for j := range m.Args {
			r.resolveType(m.Args[j].Type, d)
		}
	}
}

// resolveType rewrites named references in place and recurses through
// wrapper types.
func (r *resolver) resolveType(t *ir.TypeRef, owner *ir.Declaration) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ir.TypePrimitive:
		// Builtins resolve without a declaration.
	case ir.TypeNamed:
		decl, ok := r.table.Lookup(t.Name)
		if !ok {
			r.bag.Add(diag.Errorf(CodeUnresolvedType, owner.Unit, t.Pos,
				"unresolved type reference %q in %s %q", t.Name, owner.Kind, owner.Name))
			return
		}
		t.Decl = decl
	case ir.TypeNullable, ir.TypeSequence, ir.TypePromise:
		r.resolveType(t.Inner, owner)
	case ir.TypeRecord:
		r.resolveType(t.Key, owner)
		r.resolveType(t.Value, owner)
	case ir.TypeUnion:
		r.resolveUnion(t, owner)
	}
}

// resolveUnion resolves each alternative, flattens any union-of-union
// into one level and checks the flattened member set: at least two
// members, no structural duplicates.
func (r *resolver) resolveUnion(t *ir.TypeRef, owner *ir.Declaration) {
	var flat []*ir.TypeRef
	for _, m := range t.Members {
		r.resolveType(m, owner)
		if m.Kind == ir.TypeUnion {
			// Nested unions are already resolved and flattened.
			flat = append(flat, m.Members...)
			continue
		}
		flat = append(flat, m)
	}
	t.Members = flat

	if len(flat) < 2 {
		r.bag.Add(diag.Errorf(CodeInvalidUnion, owner.Unit, t.Pos,
			"union in %s %q has fewer than two members after flattening", owner.Kind, owner.Name))
		return
	}
	for i := 0; i < len(flat); i++ {
		for j := i + 1; j < len(flat); j++ {
			if flat[i].Equal(flat[j]) {
				r.bag.Add(diag.Errorf(CodeInvalidUnion, owner.Unit, t.Pos,
					"union in %s %q contains duplicate member type %s", owner.Kind, owner.Name, flat[j]))
			}
		}
	}
}
