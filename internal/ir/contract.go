package ir

// ContractSet is the serializable output of one compilation run: one
// contract per interface, in declaration order, stamped with a run ID
// so downstream generators can correlate artifacts from one run.
type ContractSet struct {
	RunID      string              `json:"run_id"`
	Interfaces []InterfaceContract `json:"interfaces"`
}

// InterfaceContract is the flattened binding contract for one
// interface: the sole artifact handed to a code generator or runtime
// binder. The emitter performs no code generation, only contract
// materialization.
type InterfaceContract struct {
	Name     string               `json:"name"`
	Parent   string               `json:"parent,omitempty"`
	Mixins   []string             `json:"mixins,omitempty"`
	ExtAttrs ExtendedAttributeSet `json:"ext_attrs,omitempty"`
	Members  []ContractMember     `json:"members"`

	// Hash is the content-addressed identity of this contract,
	// computed over its canonical JSON form.
	Hash string `json:"hash"`
}

// ContractMember is one member in a flattened contract. Type is the
// rendered resolved type description; ExtAttrs is the accumulated set
// (interface-level attributes apply unless the member declares its
// own attribute of the same name).
type ContractMember struct {
	Name     string               `json:"name"`
	Kind     MemberKind           `json:"kind"`
	Type     string               `json:"type"`
	ReadOnly bool                 `json:"readonly,omitempty"`
	Static   bool                 `json:"static,omitempty"`
	Origin   MemberOrigin         `json:"origin"`
	Source   string               `json:"source,omitempty"`
	ExtAttrs ExtendedAttributeSet `json:"ext_attrs,omitempty"`
	Args     []ContractArg        `json:"args,omitempty"`
	Default  string               `json:"default,omitempty"`
}

// ContractArg is one operation argument with its rendered type.
type ContractArg struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
	Variadic bool   `json:"variadic,omitempty"`
	Default  string `json:"default,omitempty"`
}
