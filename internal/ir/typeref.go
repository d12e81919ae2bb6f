package ir

import (
	"strings"

	"github.com/shanehandley/servo/internal/diag"
)

// TypeKind identifies the shape of a type reference.
type TypeKind string

const (
	TypePrimitive TypeKind = "primitive"
	TypeNamed     TypeKind = "named"
	TypeNullable  TypeKind = "nullable"
	TypeSequence  TypeKind = "sequence"
	TypeUnion     TypeKind = "union"
	TypePromise   TypeKind = "promise"
	TypeRecord    TypeKind = "record"
)

// TypeRef is one type reference as written in source.
//
// After resolution every TypeNamed reference carries a non-nil Decl
// link; an unresolved reference surviving resolution is a bug in the
// pipeline, not a state downstream consumers have to handle.
type TypeRef struct {
	Kind TypeKind `json:"kind"`

	// Name is the primitive name or the referenced declaration name.
	Name string `json:"name,omitempty"`

	// Inner is the wrapped type for nullable, sequence and promise.
	Inner *TypeRef `json:"inner,omitempty"`

	// Key and Value are the record key and value types.
	Key   *TypeRef `json:"key,omitempty"`
	Value *TypeRef `json:"value,omitempty"`

	// Members are the union alternatives, at least two after the
	// resolver flattens nested unions.
	Members []*TypeRef `json:"members,omitempty"`

	// Decl is the resolved target of a named reference. Never
	// serialized; the contract carries names, not graph pointers.
	Decl *Declaration `json:"-"`

	Pos diag.Position `json:"-"`
}

// primitives is the builtin WebIDL type vocabulary. These resolve
// without a declaration.
var primitives = map[string]bool{
	"any":                 true,
	"boolean":             true,
	"byte":                true,
	"octet":               true,
	"short":               true,
	"unsigned short":      true,
	"long":                true,
	"unsigned long":       true,
	"long long":           true,
	"unsigned long long":  true,
	"float":               true,
	"unrestricted float":  true,
	"double":              true,
	"unrestricted double": true,
	"DOMString":           true,
	"USVString":           true,
	"ByteString":          true,
	"object":              true,
	"undefined":           true,
}

// IsPrimitive reports whether name is a builtin type that resolves
// without a declaration.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// String renders the type the way it is written in declaration text,
// e.g. "sequence<DOMString>?" or "(long or DOMString)". Used for
// contract type descriptions and diagnostics.
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypePrimitive, TypeNamed:
		return t.Name
	case TypeNullable:
		return t.Inner.String() + "?"
	case TypeSequence:
		return "sequence<" + t.Inner.String() + ">"
	case TypePromise:
		return "Promise<" + t.Inner.String() + ">"
	case TypeRecord:
		return "record<" + t.Key.String() + ", " + t.Value.String() + ">"
	case TypeUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "(" + strings.Join(parts, " or ") + ")"
	default:
		return "<invalid>"
	}
}

// Equal reports structural equality of two type references, ignoring
// source positions and resolved links. The resolver uses it to detect
// duplicate union members.
func (t *TypeRef) Equal(o *TypeRef) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Name != o.Name {
		return false
	}
	if !t.Inner.Equal(o.Inner) || !t.Key.Equal(o.Key) || !t.Value.Equal(o.Value) {
		return false
	}
	if len(t.Members) != len(o.Members) {
		return false
	}
	for i := range t.Members {
		if !t.Members[i].Equal(o.Members[i]) {
			return false
		}
	}
	return true
}
