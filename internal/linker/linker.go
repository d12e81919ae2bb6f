// Package linker computes each interface's effective member set.
//
// Merge order when flattening an interface: own non-partial members,
// then partial-interface members in declaration order, then mixin
// members in inclusion order, then inherited members appended last but
// shadowable. A name declared at a more-derived level hides the same
// name inherited from an ancestor; a collision at the same derivation
// level (own, partial or mixin of one interface) is a hard conflict,
// because unlike inheritance those merges carry no override intent.
//
// Dictionaries merge the other way around: ancestor fields first, own
// fields appended, and no shadowing at all. Dictionary fields behave
// like keyword arguments rather than overridable slots, so the two
// merge orders are deliberately asymmetric.
package linker

import (
	"strings"

	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/symbols"
)

// Diagnostic codes produced by the linker (E4xx).
const (
	CodeInheritanceCycle   = "E401"
	CodeMemberConflict     = "E402"
	CodeBadParent          = "E403"
	CodeMissingMergeTarget = "E404"
	CodeBadMixin           = "E405"
)

// Link builds the interface graph from the resolved declarations.
// Partials are merged two-phase: directives were collected by the
// symbol table, and each target is merged exactly once here, so the
// result is deterministic regardless of input file order.
func Link(table *symbols.Table, bag *diag.Bag) *ir.Graph {
	l := &linker{
		table: table,
		bag:   bag,
		graph: &ir.Graph{
			Interfaces:   make(map[string]*ir.InterfaceNode),
			Dictionaries: make(map[string][]ir.Member),
		},
		parentOf: make(map[string]string),
		inCycle:  make(map[string]bool),
		ownLevel: make(map[string][]ir.FlattenedMember),
	}

	l.checkMergeTargets()
	l.linkInterfaces()
	l.linkDictionaries()
	return l.graph
}

type linker struct {
	table *symbols.Table
	bag   *diag.Bag
	graph *ir.Graph

	parentOf map[string]string
	inCycle  map[string]bool
	ownLevel map[string][]ir.FlattenedMember
}

// checkMergeTargets validates that every deferred-merge directive has
// a usable target before any merging starts.
func (l *linker) checkMergeTargets() {
	for _, name := range l.table.PartialTargets() {
		target, ok := l.table.Lookup(name)
		if !ok {
			for _, frag := range l.table.Partials(name) {
				l.bag.Add(diag.Errorf(CodeMissingMergeTarget, frag.Unit, frag.Pos,
					"partial interface %q has no non-partial definition", name))
			}
			continue
		}
		if target.Kind != ir.DeclInterface {
			for _, frag := range l.table.Partials(name) {
				l.bag.Add(diag.Errorf(CodeMissingMergeTarget, frag.Unit, frag.Pos,
					"partial interface %q targets %s %q, not an interface", name, target.Kind, name))
			}
		}
	}

	for _, name := range l.table.IncludesTargets() {
		target, targetOK := l.table.Lookup(name)
		for _, inc := range l.table.Includes(name) {
			if !targetOK {
				l.bag.Add(diag.Errorf(CodeMissingMergeTarget, inc.Unit, inc.Pos,
					"includes statement targets undefined interface %q", name))
				continue
			}
			if target.Kind != ir.DeclInterface {
				l.bag.Add(diag.Errorf(CodeMissingMergeTarget, inc.Unit, inc.Pos,
					"includes statement targets %s %q, not an interface", target.Kind, name))
				continue
			}
			mixin, ok := l.table.Lookup(inc.IncludesMixin)
			if !ok {
				l.bag.Add(diag.Errorf(CodeBadMixin, inc.Unit, inc.Pos,
					"includes statement names undefined mixin %q", inc.IncludesMixin))
				continue
			}
			if mixin.Kind != ir.DeclMixin {
				l.bag.Add(diag.Errorf(CodeBadMixin, inc.Unit, inc.Pos,
					"%q is a %s, not a mixin", inc.IncludesMixin, mixin.Kind))
			}
		}
	}
}

func (l *linker) linkInterfaces() {
	// Parent map first, so cycle detection sees every edge before any
	// flattening begins.
	for _, d := range l.table.Declarations() {
		if d.Kind != ir.DeclInterface {
			continue
		}
		if d.Parent != "" {
			parent, ok := l.table.Lookup(d.Parent)
			if !ok {
				l.bag.Add(diag.Errorf(CodeBadParent, d.Unit, d.Pos,
					"interface %q inherits from undefined name %q", d.Name, d.Parent))
			} else if parent.Kind != ir.DeclInterface {
				l.bag.Add(diag.Errorf(CodeBadParent, d.Unit, d.Pos,
					"interface %q inherits from %s %q", d.Name, parent.Kind, d.Parent))
			} else {
				l.parentOf[d.Name] = d.Parent
			}
		}
		l.graph.Order = append(l.graph.Order, d.Name)
	}

	// Cycle detection. Each cycle is reported once; every interface
	// whose ancestor chain reaches a cycle is excluded from
	// flattening, since its inherited member set is meaningless.
	reported := make(map[string]bool)
	for _, name := range l.graph.Order {
		if l.inCycle[name] {
			continue
		}
		chain := detectCycle(name, l.parentOf)
		if chain == nil {
			continue
		}
		l.inCycle[name] = true
		seen := false
		// chain closes with a repeat of its first element; marking it
		// again would flag every cycle as already reported.
		for _, member := range chain[:len(chain)-1] {
			if reported[member] {
				seen = true
			}
			reported[member] = true
			l.inCycle[member] = true
		}
		if !seen {
			d, _ := l.table.Lookup(chain[0])
			l.bag.Add(diag.Errorf(CodeInheritanceCycle, d.Unit, d.Pos,
				"inheritance cycle: %s", strings.Join(chain, " -> ")))
		}
	}

	// Flatten. Interfaces on a cycle keep a node (so the graph stays
	// navigable for diagnostics) but no flattened members.
	for _, name := range l.graph.Order {
		d, _ := l.table.Lookup(name)
		node := &ir.InterfaceNode{Decl: d}
		node.ExtAttrs = append(node.ExtAttrs, d.ExtAttrs...)
		for _, frag := range l.table.Partials(name) {
			node.ExtAttrs = append(node.ExtAttrs, frag.ExtAttrs...)
		}
		for _, inc := range l.table.Includes(name) {
			if mixin, ok := l.table.Lookup(inc.IncludesMixin); ok && mixin.Kind == ir.DeclMixin {
				node.Mixins = append(node.Mixins, mixin)
			}
		}
		l.graph.Interfaces[name] = node
	}
	for _, name := range l.graph.Order {
		node := l.graph.Interfaces[name]
		if parent := l.parentOf[name]; parent != "" {
			node.Parent = l.graph.Interfaces[parent]
		}
		if l.inCycle[name] {
			continue
		}
		node.Flattened = l.flatten(name)
	}
}

// ownLevelMembers merges own, partial and mixin members of one
// interface, reporting same-level collisions. Memoized so conflicts
// are reported once even when many descendants inherit the result.
func (l *linker) ownLevelMembers(name string) []ir.FlattenedMember {
	if cached, ok := l.ownLevel[name]; ok {
		return cached
	}

	d, _ := l.table.Lookup(name)
	node := l.graph.Interfaces[name]

	var members []ir.FlattenedMember
	seen := make(map[string]string) // member name -> provenance for conflict messages

	add := func(m ir.Member, origin ir.MemberOrigin, source, provenance string, unit string) {
		if prev, dup := seen[m.Name]; dup {
			l.bag.Add(diag.Errorf(CodeMemberConflict, unit, m.Pos,
				"member %q from %s conflicts with member declared by %s in interface %q",
				m.Name, provenance, prev, name))
			return
		}
		seen[m.Name] = provenance
		members = append(members, ir.FlattenedMember{Member: m, Origin: origin, Source: source})
	}

	for _, m := range d.Members {
		add(m, ir.OriginOwn, "", "the interface itself", d.Unit)
	}
	for _, frag := range l.table.Partials(name) {
		for _, m := range frag.Members {
			add(m, ir.OriginPartial, "", "partial interface "+name, frag.Unit)
		}
	}
	for _, mixin := range node.Mixins {
		for _, m := range mixin.Members {
			add(m, ir.OriginMixin, mixin.Name, "mixin "+mixin.Name, d.Unit)
		}
	}

	l.ownLevel[name] = members
	return members
}

// flatten produces the full effective member set: the interface's own
// level, then each ancestor's own level nearest-first, shadowed by any
// more-derived member of the same name.
func (l *linker) flatten(name string) []ir.FlattenedMember {
	flattened := append([]ir.FlattenedMember(nil), l.ownLevelMembers(name)...)
	present := make(map[string]bool, len(flattened))
	for _, m := range flattened {
		present[m.Member.Name] = true
	}

	for ancestor := l.parentOf[name]; ancestor != ""; ancestor = l.parentOf[ancestor] {
		for _, m := range l.ownLevelMembers(ancestor) {
			if present[m.Member.Name] {
				continue // shadowed by a more-derived member
			}
			present[m.Member.Name] = true
			flattened = append(flattened, ir.FlattenedMember{
				Member: m.Member,
				Origin: ir.OriginInherited,
				Source: ancestor,
			})
		}
	}
	return flattened
}

// linkDictionaries merges dictionary fields ancestor-first. Duplicate
// field names anywhere in the chain are conflicts; dictionary fields
// never shadow.
func (l *linker) linkDictionaries() {
	inCycle := make(map[string]bool)
	parentOf := make(map[string]string)

	var order []string
	for _, d := range l.table.Declarations() {
		if d.Kind != ir.DeclDictionary {
			continue
		}
		order = append(order, d.Name)
		if d.Parent == "" {
			continue
		}
		parent, ok := l.table.Lookup(d.Parent)
		if !ok {
			l.bag.Add(diag.Errorf(CodeBadParent, d.Unit, d.Pos,
				"dictionary %q inherits from undefined name %q", d.Name, d.Parent))
		} else if parent.Kind != ir.DeclDictionary {
			l.bag.Add(diag.Errorf(CodeBadParent, d.Unit, d.Pos,
				"dictionary %q inherits from %s %q", d.Name, parent.Kind, d.Parent))
		} else {
			parentOf[d.Name] = d.Parent
		}
	}

	reported := make(map[string]bool)
	for _, name := range order {
		if inCycle[name] {
			continue
		}
		chain := detectCycle(name, parentOf)
		if chain == nil {
			continue
		}
		inCycle[name] = true
		seen := false
		for _, member := range chain[:len(chain)-1] {
			if reported[member] {
				seen = true
			}
			reported[member] = true
			inCycle[member] = true
		}
		if !seen {
			d, _ := l.table.Lookup(chain[0])
			l.bag.Add(diag.Errorf(CodeInheritanceCycle, d.Unit, d.Pos,
				"dictionary inheritance cycle: %s", strings.Join(chain, " -> ")))
		}
	}

	for _, name := range order {
		if inCycle[name] {
			continue
		}

		// Ancestor-first: walk to the root, then merge back down.
		var chain []string
		for cur := name; cur != ""; cur = parentOf[cur] {
			chain = append([]string{cur}, chain...)
		}

		var fields []ir.Member
		seen := make(map[string]string)
		for _, dictName := range chain {
			d, _ := l.table.Lookup(dictName)
			for _, f := range d.Members {
				if prev, dup := seen[f.Name]; dup {
					l.bag.Add(diag.Errorf(CodeMemberConflict, d.Unit, f.Pos,
						"dictionary field %q in %q conflicts with field declared by %q",
						f.Name, dictName, prev))
					continue
				}
				seen[f.Name] = dictName
				fields = append(fields, f)
			}
		}
		l.graph.Dictionaries[name] = fields
	}
}
