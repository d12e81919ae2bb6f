package ir

import (
	"github.com/shanehandley/servo/internal/diag"
)

// DeclKind identifies the role of a declaration.
type DeclKind string

const (
	DeclInterface  DeclKind = "interface"
	DeclMixin      DeclKind = "mixin"
	DeclDictionary DeclKind = "dictionary"
	DeclEnum       DeclKind = "enum"
	DeclCallback   DeclKind = "callback"
	DeclTypedef    DeclKind = "typedef"
	// DeclIncludes is the parsed form of an "X includes M" statement.
	// It introduces no name; the linker consumes it as a merge directive.
	DeclIncludes DeclKind = "includes"
)

// Declaration is one parsed top-level declaration.
//
// A single struct with a kind tag keeps the parser and symbol table
// uniform; per-kind fields are populated only for the matching kind.
// Declarations are immutable after parse.
type Declaration struct {
	Kind     DeclKind             `json:"kind"`
	Name     string               `json:"name"`
	Unit     string               `json:"unit"`
	Pos      diag.Position        `json:"pos"`
	ExtAttrs ExtendedAttributeSet `json:"ext_attrs,omitempty"`

	// Partial marks a "partial interface X" fragment. Partial
	// declarations never register a name of their own; they are
	// deferred-merge directives keyed to Name.
	Partial bool `json:"partial,omitempty"`

	// Parent is the declared single parent for interfaces and
	// dictionaries ("" when none).
	Parent string `json:"parent,omitempty"`

	// Members holds attributes, operations, constants and dictionary
	// fields for interface/mixin/dictionary declarations.
	Members []Member `json:"members,omitempty"`

	// EnumValues holds the string literals of an enum declaration.
	EnumValues []string `json:"enum_values,omitempty"`

	// Type is the aliased type for typedefs and the return type for
	// callbacks.
	Type *TypeRef `json:"type,omitempty"`

	// Args holds the callback signature arguments.
	Args []Argument `json:"args,omitempty"`

	// IncludesTarget / IncludesMixin name the two sides of an
	// "Target includes Mixin" statement.
	IncludesTarget string `json:"includes_target,omitempty"`
	IncludesMixin  string `json:"includes_mixin,omitempty"`
}

// MemberKind identifies the role of an interface or dictionary member.
type MemberKind string

const (
	MemberAttribute MemberKind = "attribute"
	MemberOperation MemberKind = "operation"
	MemberConstant  MemberKind = "constant"
	MemberField     MemberKind = "field" // dictionary field
)

// Member is one attribute, operation, constant or dictionary field.
type Member struct {
	Kind     MemberKind           `json:"kind"`
	Name     string               `json:"name"`
	Pos      diag.Position        `json:"pos"`
	Type     *TypeRef             `json:"type"` // declared type; return type for operations
	ReadOnly bool                 `json:"readonly,omitempty"`
	Static   bool                 `json:"static,omitempty"`
	ExtAttrs ExtendedAttributeSet `json:"ext_attrs,omitempty"`
	Args     []Argument           `json:"args,omitempty"`     // operations only
	Default  string               `json:"default,omitempty"`  // constant value or dictionary field default, verbatim
	Required bool                 `json:"required,omitempty"` // dictionary fields only
}

// Argument is one operation or callback argument.
type Argument struct {
	Name     string   `json:"name"`
	Type     *TypeRef `json:"type"`
	Optional bool     `json:"optional,omitempty"`
	Variadic bool     `json:"variadic,omitempty"`
	Default  string   `json:"default,omitempty"`
}

// ExtendedAttribute is one bracketed annotation such as Exposed=Window
// or Throws. Args holds the right-hand side: nil for bare attributes,
// one element for "=X", several for "=(A,B)".
type ExtendedAttribute struct {
	Name string        `json:"name"`
	Args []string      `json:"args,omitempty"`
	Pos  diag.Position `json:"-"`
}

// ExtendedAttributeSet is an ordered key-to-optional-args list.
//
// Order is preserved from source so diagnostics and emitted contracts
// are reproducible. The set is carried opaquely through resolution;
// attribute semantics belong to the downstream code generator.
type ExtendedAttributeSet []ExtendedAttribute

// Get returns the first attribute with the given name.
func (s ExtendedAttributeSet) Get(name string) (ExtendedAttribute, bool) {
	for _, a := range s {
		if a.Name == name {
			return a, true
		}
	}
	return ExtendedAttribute{}, false
}

// Has reports whether an attribute with the given name is present.
func (s ExtendedAttributeSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}
