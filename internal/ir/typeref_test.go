package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shanehandley/servo/internal/diag"
)

func TestTypeRefString(t *testing.T) {
	tests := []struct {
		name string
		typ  *TypeRef
		want string
	}{
		{
			"primitive",
			&TypeRef{Kind: TypePrimitive, Name: "DOMString"},
			"DOMString",
		},
		{
			"multi-word primitive",
			&TypeRef{Kind: TypePrimitive, Name: "unsigned long long"},
			"unsigned long long",
		},
		{
			"named",
			&TypeRef{Kind: TypeNamed, Name: "Node"},
			"Node",
		},
		{
			"nullable",
			&TypeRef{Kind: TypeNullable, Inner: &TypeRef{Kind: TypeNamed, Name: "Node"}},
			"Node?",
		},
		{
			"sequence",
			&TypeRef{Kind: TypeSequence, Inner: &TypeRef{Kind: TypePrimitive, Name: "DOMString"}},
			"sequence<DOMString>",
		},
		{
			"nullable sequence",
			&TypeRef{Kind: TypeNullable, Inner: &TypeRef{Kind: TypeSequence, Inner: &TypeRef{Kind: TypePrimitive, Name: "DOMString"}}},
			"sequence<DOMString>?",
		},
		{
			"promise",
			&TypeRef{Kind: TypePromise, Inner: &TypeRef{Kind: TypePrimitive, Name: "undefined"}},
			"Promise<undefined>",
		},
		{
			"record",
			&TypeRef{Kind: TypeRecord, Key: &TypeRef{Kind: TypePrimitive, Name: "DOMString"}, Value: &TypeRef{Kind: TypePrimitive, Name: "long"}},
			"record<DOMString, long>",
		},
		{
			"union",
			&TypeRef{Kind: TypeUnion, Members: []*TypeRef{
				{Kind: TypePrimitive, Name: "long"},
				{Kind: TypePrimitive, Name: "DOMString"},
			}},
			"(long or DOMString)",
		},
		{
			"nil",
			nil,
			"<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, IsPrimitive("DOMString"))
	assert.True(t, IsPrimitive("unsigned long long"))
	assert.True(t, IsPrimitive("undefined"))
	assert.False(t, IsPrimitive("Node"))
	assert.False(t, IsPrimitive(""))
	assert.False(t, IsPrimitive("domstring"), "primitive names are case-sensitive")
}

func TestTypeRefEqual(t *testing.T) {
	str := func() *TypeRef { return &TypeRef{Kind: TypePrimitive, Name: "DOMString"} }

	assert.True(t, str().Equal(str()))
	assert.False(t, str().Equal(&TypeRef{Kind: TypePrimitive, Name: "USVString"}))
	assert.False(t, str().Equal(&TypeRef{Kind: TypeNamed, Name: "DOMString"}))

	// Wrappers compare structurally.
	seqA := &TypeRef{Kind: TypeSequence, Inner: str()}
	seqB := &TypeRef{Kind: TypeSequence, Inner: str()}
	assert.True(t, seqA.Equal(seqB))

	nullable := &TypeRef{Kind: TypeNullable, Inner: str()}
	assert.False(t, str().Equal(nullable), "nullability distinguishes types")

	// Position and resolved links are ignored.
	a := str()
	a.Pos = diag.Position{Line: 3, Column: 7}
	b := str()
	b.Decl = &Declaration{Name: "irrelevant"}
	assert.True(t, a.Equal(b))

	// Unions compare member-wise, order-sensitive.
	u1 := &TypeRef{Kind: TypeUnion, Members: []*TypeRef{str(), {Kind: TypePrimitive, Name: "long"}}}
	u2 := &TypeRef{Kind: TypeUnion, Members: []*TypeRef{str(), {Kind: TypePrimitive, Name: "long"}}}
	u3 := &TypeRef{Kind: TypeUnion, Members: []*TypeRef{{Kind: TypePrimitive, Name: "long"}, str()}}
	assert.True(t, u1.Equal(u2))
	assert.False(t, u1.Equal(u3))

	assert.False(t, str().Equal(nil))
	var nilRef *TypeRef
	assert.True(t, nilRef.Equal(nil))
}
