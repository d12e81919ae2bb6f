package parser

import (
	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/lexer"
)

// parseDeclaration parses one top-level declaration, including its
// leading extended attribute list.
func (p *Parser) parseDeclaration() (*ir.Declaration, error) {
	attrs, err := p.parseExtAttrs()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	switch {
	case tok.IsIdent("partial"):
		p.advance()
		if !p.matchIdent("interface") {
			return nil, p.errorf(p.peek().Pos, "expected \"interface\" after \"partial\", found %s", p.describe(p.peek()))
		}
		if p.peek().IsIdent("mixin") {
			return nil, p.errorf(p.peek().Pos, "partial interface mixins are not supported")
		}
		return p.parseInterface(attrs, tok.Pos, true)
	case tok.IsIdent("interface"):
		p.advance()
		if p.matchIdent("mixin") {
			return p.parseMixin(attrs, tok.Pos)
		}
		return p.parseInterface(attrs, tok.Pos, false)
	case tok.IsIdent("dictionary"):
		p.advance()
		return p.parseDictionary(attrs, tok.Pos)
	case tok.IsIdent("enum"):
		p.advance()
		return p.parseEnum(attrs, tok.Pos)
	case tok.IsIdent("callback"):
		p.advance()
		return p.parseCallback(attrs, tok.Pos)
	case tok.IsIdent("typedef"):
		p.advance()
		return p.parseTypedef(attrs, tok.Pos)
	case tok.Kind == lexer.Ident && p.peekAt(1).IsIdent("includes"):
		return p.parseIncludes(tok.Pos)
	default:
		return nil, p.errorf(tok.Pos, "expected a declaration, found %s", p.describe(tok))
	}
}

// parseInterface parses "interface X [: Parent] { members } [;]" with
// the "interface" keyword (and "partial", if any) already consumed.
func (p *Parser) parseInterface(attrs ir.ExtendedAttributeSet, pos diag.Position, partial bool) (*ir.Declaration, error) {
	name, err := p.expectIdent("interface name")
	if err != nil {
		return nil, err
	}

	decl := &ir.Declaration{
		Kind:     ir.DeclInterface,
		Name:     name.Text,
		Unit:     p.unit,
		Pos:      pos,
		ExtAttrs: attrs,
		Partial:  partial,
	}

	if p.match(":") {
		if partial {
			return nil, p.errorf(p.peek().Pos, "partial interface %q cannot declare a parent", name.Text)
		}
		parent, err := p.expectIdent("parent interface name")
		if err != nil {
			return nil, err
		}
		decl.Parent = parent.Text
	}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.peek().Is("}") {
		if p.atEnd() {
			return nil, p.errorf(name.Pos, "unterminated body of interface %q", name.Text)
		}
		member, err := p.parseInterfaceMember(decl.Name)
		if err != nil {
			p.syncMember()
			continue
		}
		decl.Members = append(decl.Members, member)
	}
	p.advance() // "}"
	p.match(";") // trailing semicolon is optional

	return decl, nil
}

// parseMixin parses "interface mixin M { members } [;]" with the two
// keywords already consumed.
func (p *Parser) parseMixin(attrs ir.ExtendedAttributeSet, pos diag.Position) (*ir.Declaration, error) {
	name, err := p.expectIdent("mixin name")
	if err != nil {
		return nil, err
	}

	decl := &ir.Declaration{
		Kind:     ir.DeclMixin,
		Name:     name.Text,
		Unit:     p.unit,
		Pos:      pos,
		ExtAttrs: attrs,
	}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.peek().Is("}") {
		if p.atEnd() {
			return nil, p.errorf(name.Pos, "unterminated body of mixin %q", name.Text)
		}
		member, err := p.parseInterfaceMember(decl.Name)
		if err != nil {
			p.syncMember()
			continue
		}
		decl.Members = append(decl.Members, member)
	}
	p.advance()
	p.match(";")

	return decl, nil
}

// parseInterfaceMember parses one attribute, operation, constant,
// constructor or stringifier. owner is the enclosing declaration name,
// used as the constructor return type.
func (p *Parser) parseInterfaceMember(owner string) (ir.Member, error) {
	attrs, err := p.parseExtAttrs()
	if err != nil {
		return ir.Member{}, err
	}

	tok := p.peek()
	switch {
	case tok.IsIdent("const"):
		p.advance()
		return p.parseConstant(attrs, tok.Pos)
	case tok.IsIdent("static"):
		p.advance()
		member, err := p.parseAttributeOrOperation(attrs, tok.Pos, owner)
		if err != nil {
			return ir.Member{}, err
		}
		member.Static = true
		return member, nil
	case tok.IsIdent("constructor") && p.peekAt(1).Is("("):
		p.advance()
		args, err := p.parseArgumentList()
		if err != nil {
			return ir.Member{}, err
		}
		if _, err := p.expect(";"); err != nil {
			return ir.Member{}, err
		}
		return ir.Member{
			Kind:     ir.MemberOperation,
			Name:     "constructor",
			Pos:      tok.Pos,
			Type:     &ir.TypeRef{Kind: ir.TypeNamed, Name: owner, Pos: tok.Pos},
			ExtAttrs: attrs,
			Args:     args,
		}, nil
	case tok.IsIdent("stringifier") && p.peekAt(1).Is(";"):
		p.advance()
		p.advance()
		return ir.Member{
			Kind:     ir.MemberOperation,
			Name:     "toString",
			Pos:      tok.Pos,
			Type:     &ir.TypeRef{Kind: ir.TypePrimitive, Name: "DOMString", Pos: tok.Pos},
			ExtAttrs: attrs,
		}, nil
	default:
		return p.parseAttributeOrOperation(attrs, tok.Pos, owner)
	}
}

// parseAttributeOrOperation handles the unprefixed member forms:
// "[readonly] attribute T name;" and "T name(args);".
func (p *Parser) parseAttributeOrOperation(attrs ir.ExtendedAttributeSet, pos diag.Position, owner string) (ir.Member, error) {
	readonly := false
	if p.matchIdent("readonly") {
		readonly = true
	}

	if p.matchIdent("attribute") {
		typ, err := p.parseType()
		if err != nil {
			return ir.Member{}, err
		}
		name, err := p.expectIdent("attribute name")
		if err != nil {
			return ir.Member{}, err
		}
		if _, err := p.expect(";"); err != nil {
			return ir.Member{}, err
		}
		return ir.Member{
			Kind:     ir.MemberAttribute,
			Name:     name.Text,
			Pos:      pos,
			Type:     typ,
			ReadOnly: readonly,
			ExtAttrs: attrs,
		}, nil
	}
	if readonly {
		return ir.Member{}, p.errorf(p.peek().Pos, "expected \"attribute\" after \"readonly\", found %s", p.describe(p.peek()))
	}

	typ, err := p.parseType()
	if err != nil {
		return ir.Member{}, err
	}
	name, err := p.expectIdent("operation name")
	if err != nil {
		return ir.Member{}, err
	}
	args, err := p.parseArgumentList()
	if err != nil {
		return ir.Member{}, err
	}
	if _, err := p.expect(";"); err != nil {
		return ir.Member{}, err
	}
	return ir.Member{
		Kind:     ir.MemberOperation,
		Name:     name.Text,
		Pos:      pos,
		Type:     typ,
		ExtAttrs: attrs,
		Args:     args,
	}, nil
}

// parseConstant parses "Type NAME = value;" with "const" consumed.
func (p *Parser) parseConstant(attrs ir.ExtendedAttributeSet, pos diag.Position) (ir.Member, error) {
	typ, err := p.parseType()
	if err != nil {
		return ir.Member{}, err
	}
	name, err := p.expectIdent("constant name")
	if err != nil {
		return ir.Member{}, err
	}
	if _, err := p.expect("="); err != nil {
		return ir.Member{}, err
	}
	value, err := p.parseDefaultValue()
	if err != nil {
		return ir.Member{}, err
	}
	if _, err := p.expect(";"); err != nil {
		return ir.Member{}, err
	}
	return ir.Member{
		Kind:     ir.MemberConstant,
		Name:     name.Text,
		Pos:      pos,
		Type:     typ,
		ReadOnly: true,
		ExtAttrs: attrs,
		Default:  value,
	}, nil
}

// parseDictionary parses "dictionary D [: Base] { fields } [;]".
func (p *Parser) parseDictionary(attrs ir.ExtendedAttributeSet, pos diag.Position) (*ir.Declaration, error) {
	name, err := p.expectIdent("dictionary name")
	if err != nil {
		return nil, err
	}

	decl := &ir.Declaration{
		Kind:     ir.DeclDictionary,
		Name:     name.Text,
		Unit:     p.unit,
		Pos:      pos,
		ExtAttrs: attrs,
	}

	if p.match(":") {
		parent, err := p.expectIdent("base dictionary name")
		if err != nil {
			return nil, err
		}
		decl.Parent = parent.Text
	}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.peek().Is("}") {
		if p.atEnd() {
			return nil, p.errorf(name.Pos, "unterminated body of dictionary %q", name.Text)
		}
		field, err := p.parseDictionaryField()
		if err != nil {
			p.syncMember()
			continue
		}
		decl.Members = append(decl.Members, field)
	}
	p.advance()
	p.match(";")

	return decl, nil
}

// parseDictionaryField parses "[required] Type name [= default];".
func (p *Parser) parseDictionaryField() (ir.Member, error) {
	attrs, err := p.parseExtAttrs()
	if err != nil {
		return ir.Member{}, err
	}

	pos := p.peek().Pos
	required := p.matchIdent("required")

	typ, err := p.parseType()
	if err != nil {
		return ir.Member{}, err
	}
	name, err := p.expectIdent("field name")
	if err != nil {
		return ir.Member{}, err
	}

	var def string
	if p.match("=") {
		def, err = p.parseDefaultValue()
		if err != nil {
			return ir.Member{}, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return ir.Member{}, err
	}

	return ir.Member{
		Kind:     ir.MemberField,
		Name:     name.Text,
		Pos:      pos,
		Type:     typ,
		ExtAttrs: attrs,
		Default:  def,
		Required: required,
	}, nil
}

// parseEnum parses "enum E { "a", "b" } [;]". Trailing commas in the
// value list are tolerated.
func (p *Parser) parseEnum(attrs ir.ExtendedAttributeSet, pos diag.Position) (*ir.Declaration, error) {
	name, err := p.expectIdent("enum name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	decl := &ir.Declaration{
		Kind:     ir.DeclEnum,
		Name:     name.Text,
		Unit:     p.unit,
		Pos:      pos,
		ExtAttrs: attrs,
	}

	for !p.peek().Is("}") {
		tok := p.peek()
		if tok.Kind != lexer.String {
			return nil, p.errorf(tok.Pos, "expected string literal in enum %q, found %s", name.Text, p.describe(tok))
		}
		p.advance()
		decl.EnumValues = append(decl.EnumValues, tok.Text)
		if !p.match(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	p.match(";")

	return decl, nil
}

// parseCallback parses "callback F = ReturnType (args);".
func (p *Parser) parseCallback(attrs ir.ExtendedAttributeSet, pos diag.Position) (*ir.Declaration, error) {
	name, err := p.expectIdent("callback name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgumentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	return &ir.Declaration{
		Kind:     ir.DeclCallback,
		Name:     name.Text,
		Unit:     p.unit,
		Pos:      pos,
		ExtAttrs: attrs,
		Type:     ret,
		Args:     args,
	}, nil
}

// parseTypedef parses "typedef Type Name;".
func (p *Parser) parseTypedef(attrs ir.ExtendedAttributeSet, pos diag.Position) (*ir.Declaration, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent("typedef name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	return &ir.Declaration{
		Kind:     ir.DeclTypedef,
		Name:     name.Text,
		Unit:     p.unit,
		Pos:      pos,
		ExtAttrs: attrs,
		Type:     typ,
	}, nil
}

// parseIncludes parses "Target includes Mixin;".
func (p *Parser) parseIncludes(pos diag.Position) (*ir.Declaration, error) {
	target, err := p.expectIdent("interface name")
	if err != nil {
		return nil, err
	}
	p.advance() // "includes", already checked by the caller
	mixin, err := p.expectIdent("mixin name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	return &ir.Declaration{
		Kind:           ir.DeclIncludes,
		Unit:           p.unit,
		Pos:            pos,
		IncludesTarget: target.Text,
		IncludesMixin:  mixin.Text,
	}, nil
}

// parseDefaultValue parses a constant or default value and returns its
// verbatim source form (string defaults keep their quotes).
func (p *Parser) parseDefaultValue() (string, error) {
	tok := p.peek()
	switch {
	case tok.Kind == lexer.Integer || tok.Kind == lexer.Decimal:
		p.advance()
		return tok.Text, nil
	case tok.Kind == lexer.String:
		p.advance()
		return "\"" + tok.Text + "\"", nil
	case tok.IsIdent("true") || tok.IsIdent("false") || tok.IsIdent("null"):
		p.advance()
		return tok.Text, nil
	case tok.Is("["):
		p.advance()
		if _, err := p.expect("]"); err != nil {
			return "", err
		}
		return "[]", nil
	case tok.Is("{"):
		p.advance()
		if _, err := p.expect("}"); err != nil {
			return "", err
		}
		return "{}", nil
	default:
		return "", p.errorf(tok.Pos, "expected a default value, found %s", p.describe(tok))
	}
}
