package emitter

import (
	"strings"

	"github.com/shanehandley/servo/internal/ir"
)

// FormatInterface renders a flattened contract back to declaration
// text. Merges are already applied, so the output is a standalone
// interface with no parent clause, no mixins and every member inline;
// re-parsing it yields the same flattened member set, which makes the
// emitter idempotent under round-trip.
func FormatInterface(c *ir.InterfaceContract) string {
	var b strings.Builder

	if attrs := formatAttrs(c.ExtAttrs); attrs != "" {
		b.WriteString(attrs)
		b.WriteString("\n")
	}
	b.WriteString("interface ")
	b.WriteString(c.Name)
	b.WriteString(" {\n")
	for _, m := range c.Members {
		b.WriteString("  ")
		b.WriteString(formatMember(m, c.ExtAttrs))
		b.WriteString("\n")
	}
	b.WriteString("};\n")
	return b.String()
}

func formatMember(m ir.ContractMember, ifaceAttrs ir.ExtendedAttributeSet) string {
	var b strings.Builder

	// Attributes the member merely inherited from the interface level
	// are not repeated on the member; re-parsing accumulates them
	// again from the interface header.
	if attrs := formatAttrs(ownAttrs(m.ExtAttrs, ifaceAttrs)); attrs != "" {
		b.WriteString(attrs)
		b.WriteString(" ")
	}

	switch m.Kind {
	case ir.MemberConstant:
		b.WriteString("const ")
		b.WriteString(m.Type)
		b.WriteString(" ")
		b.WriteString(m.Name)
		b.WriteString(" = ")
		b.WriteString(m.Default)
		b.WriteString(";")
	case ir.MemberAttribute:
		if m.Static {
			b.WriteString("static ")
		}
		if m.ReadOnly {
			b.WriteString("readonly ")
		}
		b.WriteString("attribute ")
		b.WriteString(m.Type)
		b.WriteString(" ")
		b.WriteString(m.Name)
		b.WriteString(";")
	default: // operation
		if m.Static {
			b.WriteString("static ")
		}
		b.WriteString(m.Type)
		b.WriteString(" ")
		b.WriteString(m.Name)
		b.WriteString("(")
		for i, a := range m.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if a.Optional {
				b.WriteString("optional ")
			}
			b.WriteString(a.Type)
			if a.Variadic {
				b.WriteString("...")
			}
			b.WriteString(" ")
			b.WriteString(a.Name)
			if a.Default != "" {
				b.WriteString(" = ")
				b.WriteString(a.Default)
			}
		}
		b.WriteString(");")
	}
	return b.String()
}

// ownAttrs strips attributes that arrived via interface-level
// accumulation, keeping those the member declared itself.
func ownAttrs(merged, ifaceAttrs ir.ExtendedAttributeSet) ir.ExtendedAttributeSet {
	var own ir.ExtendedAttributeSet
	for _, a := range merged {
		if inherited, ok := ifaceAttrs.Get(a.Name); ok && equalAttr(a, inherited) {
			continue
		}
		own = append(own, a)
	}
	return own
}

func equalAttr(a, b ir.ExtendedAttribute) bool {
	if a.Name != b.Name || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if a.Args[i] != b.Args[i] {
			return false
		}
	}
	return true
}

func formatAttrs(attrs ir.ExtendedAttributeSet) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		switch len(a.Args) {
		case 0:
			parts[i] = a.Name
		case 1:
			parts[i] = a.Name + "=" + a.Args[0]
		default:
			parts[i] = a.Name + "=(" + strings.Join(a.Args, ",") + ")"
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
