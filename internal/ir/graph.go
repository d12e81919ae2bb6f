package ir

// InterfaceNode is one interface in the linked graph: resolved parent,
// included mixins and the flattened member set after merging.
type InterfaceNode struct {
	Decl   *Declaration
	Parent *InterfaceNode // nil at the root; single inheritance only
	Mixins []*Declaration // in inclusion order

	// ExtAttrs is the accumulated interface-level attribute set: the
	// non-partial declaration's attributes followed by each partial
	// fragment's, in declaration order.
	ExtAttrs ExtendedAttributeSet

	// Flattened is the effective member set after the linker merges
	// own, partial, mixin and inherited members. Origins record where
	// each survivor came from.
	Flattened []FlattenedMember
}

// MemberOrigin identifies where a flattened member came from.
type MemberOrigin string

const (
	OriginOwn       MemberOrigin = "own"
	OriginPartial   MemberOrigin = "partial"
	OriginMixin     MemberOrigin = "mixin"
	OriginInherited MemberOrigin = "inherited"
)

// FlattenedMember is one entry in an interface's effective member set.
type FlattenedMember struct {
	Member Member
	Origin MemberOrigin
	// Source names the mixin or ancestor the member came from; empty
	// for own and partial members.
	Source string
}

// Graph is the fully linked interface graph, the output of the linker
// and the input to the contract emitter.
type Graph struct {
	// Interfaces maps interface name to its linked node.
	Interfaces map[string]*InterfaceNode

	// Order preserves declaration order for deterministic emission.
	Order []string

	// Dictionaries maps dictionary name to its ancestor-first merged
	// field list. Dictionary merge order is deliberately the opposite
	// of the interface mixin-last order: fields behave like keyword
	// arguments, so base fields come first and derived fields append.
	Dictionaries map[string][]Member
}

// Node returns the linked node for an interface name.
func (g *Graph) Node(name string) (*InterfaceNode, bool) {
	n, ok := g.Interfaces[name]
	return n, ok
}
