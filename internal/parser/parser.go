// Package parser builds declaration syntax nodes from WebIDL tokens.
//
// The parser is a plain recursive descent over the token stream. Syntax
// errors are recorded in the diagnostic bag and parsing resumes at the
// next top-level boundary, so one pass reports every syntax error in
// the unit. Partial interfaces and includes statements are emitted as
// first-class nodes; the parser never reopens or merges declarations.
package parser

import (
	"errors"

	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/lexer"
)

// Diagnostic codes produced by the parser (E1xx: syntax stage).
const (
	CodeUnexpectedToken = "E103"
	CodeMalformedUnion  = "E104"
	CodeUnknownExtAttr  = "W102"
)

// errSync signals that a diagnostic was already recorded and the
// caller should resynchronize at the next declaration boundary.
var errSync = errors.New("parser: resync")

// Parser holds state while parsing one declaration unit.
type Parser struct {
	unit string
	toks []lexer.Token
	pos  int
	bag  *diag.Bag
}

// ParseUnit tokenizes and parses one declaration unit. Declarations
// that parse cleanly are returned even when other declarations in the
// same unit fail; callers gate on bag.HasErrors.
func ParseUnit(unit, src string, bag *diag.Bag) []*ir.Declaration {
	scanner := lexer.New(unit, src, bag)
	p := &Parser{unit: unit, toks: scanner.Scan(), bag: bag}
	return p.parse()
}

func (p *Parser) parse() []*ir.Declaration {
	var decls []*ir.Declaration
	for !p.atEnd() {
		decl, err := p.parseDeclaration()
		if err != nil {
			p.syncTopLevel()
			continue
		}
		decls = append(decls, decl)
	}
	return decls
}

// syncTopLevel skips tokens until a plausible declaration boundary:
// past the next top-level ';', or past a balanced '{...}' body.
func (p *Parser) syncTopLevel() {
	depth := 0
	for !p.atEnd() {
		tok := p.advance()
		switch {
		case tok.Is("{"):
			depth++
		case tok.Is("}"):
			depth--
			if depth <= 0 {
				// Optional trailing semicolon after a body.
				if p.peek().Is(";") {
					p.advance()
				}
				return
			}
		case tok.Is(";") && depth == 0:
			return
		}
	}
}

// syncMember skips tokens until past the next member-level ';', or
// stops just before the '}' that closes the enclosing body. Braced
// default values inside the skipped member are balanced over.
func (p *Parser) syncMember() {
	depth := 0
	for !p.atEnd() {
		tok := p.peek()
		switch {
		case tok.Is("{"):
			depth++
		case tok.Is("}"):
			if depth == 0 {
				return
			}
			depth--
		case tok.Is(";") && depth == 0:
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

// match consumes the next token when it is a punct with the given text.
func (p *Parser) match(punct string) bool {
	if p.peek().Is(punct) {
		p.advance()
		return true
	}
	return false
}

// matchIdent consumes the next token when it is the given identifier.
func (p *Parser) matchIdent(text string) bool {
	if p.peek().IsIdent(text) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a punct with the given text or records a syntax
// error naming the expected token.
func (p *Parser) expect(punct string) (lexer.Token, error) {
	if p.peek().Is(punct) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf(p.peek().Pos, "expected %q, found %s", punct, p.describe(p.peek()))
}

// expectIdent consumes an identifier token and returns its text.
func (p *Parser) expectIdent(what string) (lexer.Token, error) {
	if p.peek().Kind == lexer.Ident {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf(p.peek().Pos, "expected %s, found %s", what, p.describe(p.peek()))
}

func (p *Parser) describe(tok lexer.Token) string {
	if tok.Kind == lexer.EOF {
		return "end of input"
	}
	return "\"" + tok.Text + "\""
}

// errorf records a syntax error and returns errSync.
func (p *Parser) errorf(pos diag.Position, format string, args ...any) error {
	p.bag.Add(diag.Errorf(CodeUnexpectedToken, p.unit, pos, format, args...))
	return errSync
}
