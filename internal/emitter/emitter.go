// Package emitter materializes flattened binding contracts.
//
// The emitter is the last pipeline stage and the only producer of the
// artifact handed to code generators and runtime binders. It performs
// no code generation itself: given the linked interface graph it
// renders resolved types to their textual descriptions, accumulates
// extended attributes, and stamps each contract with a content hash.
package emitter

import (
	"fmt"

	"github.com/shanehandley/servo/internal/ir"
)

// Emit produces one contract per interface, in declaration order.
// runID correlates artifacts produced by a single compilation run.
//
// Emission cannot fail on user input; by the time the graph reaches
// this stage every reference is resolved and every merge is done. The
// only error source is internal (canonical marshaling), and that is a
// bug, not a diagnostic.
func Emit(graph *ir.Graph, runID string) (*ir.ContractSet, error) {
	set := &ir.ContractSet{RunID: runID, Interfaces: []ir.InterfaceContract{}}

	for _, name := range graph.Order {
		node := graph.Interfaces[name]
		contract, err := emitInterface(node)
		if err != nil {
			return nil, fmt.Errorf("emitting contract for %q: %w", name, err)
		}
		set.Interfaces = append(set.Interfaces, *contract)
	}
	return set, nil
}

func emitInterface(node *ir.InterfaceNode) (*ir.InterfaceContract, error) {
	c := &ir.InterfaceContract{
		Name:     node.Decl.Name,
		Parent:   node.Decl.Parent,
		ExtAttrs: node.ExtAttrs,
		Members:  []ir.ContractMember{},
	}
	for _, mixin := range node.Mixins {
		c.Mixins = append(c.Mixins, mixin.Name)
	}

	for _, fm := range node.Flattened {
		c.Members = append(c.Members, emitMember(fm, node.ExtAttrs))
	}

	hash, err := ir.ContractHash(c)
	if err != nil {
		return nil, err
	}
	c.Hash = hash
	return c, nil
}

// emitMember renders one flattened member. Interface-level extended
// attributes apply to every member unless the member declares its own
// attribute of the same name.
func emitMember(fm ir.FlattenedMember, ifaceAttrs ir.ExtendedAttributeSet) ir.ContractMember {
	m := fm.Member
	out := ir.ContractMember{
		Name:     m.Name,
		Kind:     m.Kind,
		Type:     m.Type.String(),
		ReadOnly: m.ReadOnly,
		Static:   m.Static,
		Origin:   fm.Origin,
		Source:   fm.Source,
		ExtAttrs: accumulateAttrs(m.ExtAttrs, ifaceAttrs),
		Default:  m.Default,
	}
	for _, a := range m.Args {
		out.Args = append(out.Args, ir.ContractArg{
			Name:     a.Name,
			Type:     a.Type.String(),
			Optional: a.Optional,
			Variadic: a.Variadic,
			Default:  a.Default,
		})
	}
	return out
}

func accumulateAttrs(own, inherited ir.ExtendedAttributeSet) ir.ExtendedAttributeSet {
	merged := append(ir.ExtendedAttributeSet(nil), own...)
	for _, a := range inherited {
		if !merged.Has(a.Name) {
			merged = append(merged, a)
		}
	}
	return merged
}
