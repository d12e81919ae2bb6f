package parser

import (
	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/lexer"
)

// knownExtAttrs is the extended attribute vocabulary the binding layer
// is known to consume. The resolver carries all attributes opaquely
// either way; anything outside this list is downgraded to a warning
// because attribute semantics are owned by the downstream generator.
var knownExtAttrs = map[string]bool{
	"CEReactions":   true,
	"Clamp":         true,
	"Default":       true,
	"EnforceRange":  true,
	"Exposed":       true,
	"NewObject":     true,
	"Pref":          true,
	"PutForwards":   true,
	"Replaceable":   true,
	"SameObject":    true,
	"SecureContext": true,
	"Throws":        true,
	"Unscopable":    true,
}

// parseExtAttrs parses an optional bracketed extended attribute list
// such as "[Exposed=Window, Throws]". The list parses independent of
// whatever declaration or member follows it.
func (p *Parser) parseExtAttrs() (ir.ExtendedAttributeSet, error) {
	if !p.peek().Is("[") {
		return nil, nil
	}
	open := p.advance()

	var attrs ir.ExtendedAttributeSet
	for !p.peek().Is("]") {
		if p.atEnd() {
			return nil, p.errorf(open.Pos, "unterminated extended attribute list")
		}
		name, err := p.expectIdent("extended attribute name")
		if err != nil {
			return nil, err
		}
		attr := ir.ExtendedAttribute{Name: name.Text, Pos: name.Pos}

		if p.match("=") {
			if p.match("(") {
				for !p.peek().Is(")") {
					arg, err := p.parseExtAttrArg()
					if err != nil {
						return nil, err
					}
					attr.Args = append(attr.Args, arg)
					if !p.match(",") {
						break
					}
				}
				if _, err := p.expect(")"); err != nil {
					return nil, err
				}
			} else {
				arg, err := p.parseExtAttrArg()
				if err != nil {
					return nil, err
				}
				attr.Args = []string{arg}
			}
		}

		if !knownExtAttrs[attr.Name] {
			p.bag.Add(diag.Warningf(CodeUnknownExtAttr, p.unit, attr.Pos, "unknown extended attribute %q", attr.Name))
		}
		attrs = append(attrs, attr)

		if !p.match(",") {
			break
		}
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (p *Parser) parseExtAttrArg() (string, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Ident, lexer.Integer, lexer.String:
		p.advance()
		return tok.Text, nil
	default:
		return "", p.errorf(tok.Pos, "expected an extended attribute value, found %s", p.describe(tok))
	}
}

// parseArgumentList parses "(arg, arg, ...)". Trailing commas are
// tolerated; each argument may carry its own extended attributes.
func (p *Parser) parseArgumentList() ([]ir.Argument, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	var args []ir.Argument
	for !p.peek().Is(")") {
		if p.atEnd() {
			return nil, p.errorf(p.peek().Pos, "unterminated argument list")
		}
		// Argument-level extended attributes are parsed and discarded
		// from the contract surface; nothing downstream consumes them.
		if _, err := p.parseExtAttrs(); err != nil {
			return nil, err
		}

		var arg ir.Argument
		arg.Optional = p.matchIdent("optional")

		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		arg.Type = typ
		arg.Variadic = p.match("...")

		name, err := p.expectIdent("argument name")
		if err != nil {
			return nil, err
		}
		arg.Name = name.Text

		if p.match("=") {
			def, err := p.parseDefaultValue()
			if err != nil {
				return nil, err
			}
			arg.Default = def
		}
		args = append(args, arg)

		if !p.match(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseType parses one type reference: unions, sequence/Promise/record
// wrappers, multi-word primitives and plain names, each with an
// optional trailing "?" for nullability.
func (p *Parser) parseType() (*ir.TypeRef, error) {
	tok := p.peek()

	if tok.Is("(") {
		return p.parseUnionType()
	}

	name, err := p.expectIdent("a type")
	if err != nil {
		return nil, err
	}

	var typ *ir.TypeRef
	switch {
	case name.IsIdent("sequence") && p.peek().Is("<"):
		inner, err := p.parseWrappedType()
		if err != nil {
			return nil, err
		}
		typ = &ir.TypeRef{Kind: ir.TypeSequence, Inner: inner, Pos: name.Pos}
	case name.IsIdent("Promise") && p.peek().Is("<"):
		inner, err := p.parseWrappedType()
		if err != nil {
			return nil, err
		}
		typ = &ir.TypeRef{Kind: ir.TypePromise, Inner: inner, Pos: name.Pos}
	case name.IsIdent("record") && p.peek().Is("<"):
		p.advance() // "<"
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(","); err != nil {
			return nil, err
		}
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(">"); err != nil {
			return nil, err
		}
		typ = &ir.TypeRef{Kind: ir.TypeRecord, Key: key, Value: value, Pos: name.Pos}
	default:
		full := p.parseMultiWordPrimitive(name.Text)
		kind := ir.TypeNamed
		if ir.IsPrimitive(full) {
			kind = ir.TypePrimitive
		}
		typ = &ir.TypeRef{Kind: kind, Name: full, Pos: name.Pos}
	}

	return p.wrapNullable(typ), nil
}

// parseWrappedType parses "<Type>" for sequence and Promise.
func (p *Parser) parseWrappedType() (*ir.TypeRef, error) {
	p.advance() // "<"
	inner, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseMultiWordPrimitive extends first with the extra words of the
// builtin integer and float vocabulary: "unsigned long long",
// "unrestricted double" and friends.
func (p *Parser) parseMultiWordPrimitive(first string) string {
	switch first {
	case "unsigned":
		if p.matchIdent("short") {
			return "unsigned short"
		}
		if p.matchIdent("long") {
			if p.matchIdent("long") {
				return "unsigned long long"
			}
			return "unsigned long"
		}
	case "long":
		if p.matchIdent("long") {
			return "long long"
		}
	case "unrestricted":
		if p.matchIdent("float") {
			return "unrestricted float"
		}
		if p.matchIdent("double") {
			return "unrestricted double"
		}
	}
	return first
}

// parseUnionType parses "(A or B or ...)". A union with fewer than two
// alternatives is malformed and a hard parse error; semantic checks
// (distinctness after flattening) belong to the resolver.
func (p *Parser) parseUnionType() (*ir.TypeRef, error) {
	open := p.advance() // "("

	union := &ir.TypeRef{Kind: ir.TypeUnion, Pos: open.Pos}
	for {
		member, err := p.parseType()
		if err != nil {
			return nil, err
		}
		union.Members = append(union.Members, member)
		if !p.matchIdent("or") {
			break
		}
	}
	if len(union.Members) < 2 {
		p.bag.Add(diag.Errorf(CodeMalformedUnion, p.unit, open.Pos, "union type must have at least two members"))
		return nil, errSync
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	return p.wrapNullable(union), nil
}

// wrapNullable consumes a trailing "?" when present.
func (p *Parser) wrapNullable(typ *ir.TypeRef) *ir.TypeRef {
	if p.match("?") {
		return &ir.TypeRef{Kind: ir.TypeNullable, Inner: typ, Pos: typ.Pos}
	}
	return typ
}
