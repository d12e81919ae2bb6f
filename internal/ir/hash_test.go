package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContract() *InterfaceContract {
	return &InterfaceContract{
		Name:   "Element",
		Parent: "Node",
		Mixins: []string{"Slottable"},
		ExtAttrs: ExtendedAttributeSet{
			{Name: "Exposed", Args: []string{"Window"}},
		},
		Members: []ContractMember{
			{
				Name:   "tagName",
				Kind:   MemberAttribute,
				Type:   "DOMString",
				Origin: OriginOwn,
			},
			{
				Name:   "closest",
				Kind:   MemberOperation,
				Type:   "Element?",
				Origin: OriginOwn,
				Args: []ContractArg{
					{Name: "selectors", Type: "DOMString"},
				},
			},
		},
	}
}

func TestContractHashDeterminism(t *testing.T) {
	h1, err := ContractHash(sampleContract())
	require.NoError(t, err)
	h2, err := ContractHash(sampleContract())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "hash must be stable across runs")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestContractHashExcludesHashField(t *testing.T) {
	c := sampleContract()
	want, err := ContractHash(c)
	require.NoError(t, err)

	c.Hash = "0000000000000000000000000000000000000000000000000000000000000000"
	got, err := ContractHash(c)
	require.NoError(t, err)

	assert.Equal(t, want, got, "the stamped hash never feeds back into itself")
}

func TestContractHashChangesWithContent(t *testing.T) {
	base, err := ContractHash(sampleContract())
	require.NoError(t, err)

	renamed := sampleContract()
	renamed.Name = "HTMLElement"
	h, err := ContractHash(renamed)
	require.NoError(t, err)
	assert.NotEqual(t, base, h, "name change must change the hash")

	retyped := sampleContract()
	retyped.Members[0].Type = "USVString"
	h, err = ContractHash(retyped)
	require.NoError(t, err)
	assert.NotEqual(t, base, h, "member type change must change the hash")

	reordered := sampleContract()
	reordered.Members[0], reordered.Members[1] = reordered.Members[1], reordered.Members[0]
	h, err = ContractHash(reordered)
	require.NoError(t, err)
	assert.NotEqual(t, base, h, "member order is contract-significant")
}

func TestContractHashMinimalContract(t *testing.T) {
	c := &InterfaceContract{Name: "Empty", Members: []ContractMember{}}
	h, err := ContractHash(c)
	require.NoError(t, err)
	assert.Len(t, h, 64)
}

func TestHashWithDomainSeparation(t *testing.T) {
	// The same payload under a different domain is a different hash.
	a := hashWithDomain("servo/binding-contract/v1", []byte("payload"))
	b := hashWithDomain("servo/binding-contract/v2", []byte("payload"))
	assert.NotEqual(t, a, b)

	// The null separator prevents boundary ambiguity.
	c := hashWithDomain("ab", []byte("c"))
	d := hashWithDomain("a", []byte("bc"))
	assert.NotEqual(t, c, d)
}
