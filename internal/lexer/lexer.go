// Package lexer tokenizes WebIDL declaration text.
//
// The scanner runs left to right over one UTF-8 unit and emits Token
// values ending with EOF. Comments are discarded. Lexical problems are
// split by severity: an unterminated block comment or string literal is
// a hard syntax error (the rest of the unit cannot be trusted), while a
// stray character outside any token is discarded with a warning so
// prose accidentally pasted into a unit never sinks the whole parse.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shanehandley/servo/internal/diag"
)

// Diagnostic codes produced by the scanner (E1xx: syntax stage).
const (
	CodeUnterminatedComment = "E101"
	CodeUnterminatedString  = "E102"
	CodeStrayCharacter      = "W101"
)

// Scanner tokenizes one declaration unit.
type Scanner struct {
	unit string // unit identifier for diagnostics
	src  string
	off  int
	line int
	col  int
	bag  *diag.Bag
}

// New creates a Scanner over one declaration unit. Diagnostics are
// added to bag as they are found.
func New(unit, src string, bag *diag.Bag) *Scanner {
	return &Scanner{unit: unit, src: src, off: 0, line: 1, col: 1, bag: bag}
}

// Scan tokenizes the whole unit, returning the token slice including
// the terminal EOF token. Scan never fails outright; hard lexical
// errors are recorded in the bag and scanning resumes at the next
// recognizable token so one run reports every problem in the unit.
func (s *Scanner) Scan() []Token {
	var toks []Token
	for {
		tok, ok := s.next()
		if !ok {
			continue // discarded input, keep scanning
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

// next produces the next token. ok is false when input was consumed
// without producing a token (comments, whitespace runs, stray bytes).
func (s *Scanner) next() (Token, bool) {
	s.skipSpace()
	if s.off >= len(s.src) {
		return Token{Kind: EOF, Pos: s.pos()}, true
	}

	start := s.pos()
	c := s.src[s.off]

	switch {
	case c == '/' && s.peekAt(1) == '/':
		s.skipLineComment()
		return Token{}, false
	case c == '/' && s.peekAt(1) == '*':
		s.skipBlockComment(start)
		return Token{}, false
	case c == '"':
		return s.scanString(start)
	case isIdentStart(rune(c)):
		return s.scanIdent(start), true
	case c >= '0' && c <= '9':
		return s.scanNumber(start), true
	case c == '-' && s.peekAt(1) >= '0' && s.peekAt(1) <= '9':
		return s.scanNumber(start), true
	case c == '.' && s.peekAt(1) == '.' && s.peekAt(2) == '.':
		s.advance(3)
		return Token{Kind: Punct, Text: "...", Pos: start}, true
	case strings.ContainsRune("{}()[]<>,;:=?.", rune(c)):
		s.advance(1)
		return Token{Kind: Punct, Text: string(c), Pos: start}, true
	default:
		// Stray prose is discarded, never fatal.
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		s.bag.Add(diag.Warningf(CodeStrayCharacter, s.unit, start, "ignoring unexpected character %q", r))
		s.advance(size)
		return Token{}, false
	}
}

func (s *Scanner) scanIdent(start diag.Position) Token {
	begin := s.off
	for s.off < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		if !isIdentPart(r) {
			break
		}
		s.advance(size)
	}
	return Token{Kind: Ident, Text: s.src[begin:s.off], Pos: start}
}

func (s *Scanner) scanNumber(start diag.Position) Token {
	begin := s.off
	if s.src[s.off] == '-' {
		s.advance(1)
	}
	if s.off+1 < len(s.src) && s.src[s.off] == '0' && (s.src[s.off+1] == 'x' || s.src[s.off+1] == 'X') {
		s.advance(2)
		for s.off < len(s.src) && isHexDigit(s.src[s.off]) {
			s.advance(1)
		}
		return Token{Kind: Integer, Text: s.src[begin:s.off], Pos: start}
	}

	kind := Integer
	for s.off < len(s.src) && s.src[s.off] >= '0' && s.src[s.off] <= '9' {
		s.advance(1)
	}
	if s.off < len(s.src) && s.src[s.off] == '.' && s.peekAt(1) >= '0' && s.peekAt(1) <= '9' {
		kind = Decimal
		s.advance(1)
		for s.off < len(s.src) && s.src[s.off] >= '0' && s.src[s.off] <= '9' {
			s.advance(1)
		}
	}
	return Token{Kind: kind, Text: s.src[begin:s.off], Pos: start}
}

func (s *Scanner) scanString(start diag.Position) (Token, bool) {
	s.advance(1) // opening quote
	begin := s.off
	for s.off < len(s.src) {
		if s.src[s.off] == '"' {
			text := s.src[begin:s.off]
			s.advance(1)
			return Token{Kind: String, Text: text, Pos: start}, true
		}
		if s.src[s.off] == '\n' {
			break
		}
		s.advance(1)
	}
	s.bag.Add(diag.Errorf(CodeUnterminatedString, s.unit, start, "unterminated string literal"))
	return Token{}, false
}

func (s *Scanner) skipLineComment() {
	for s.off < len(s.src) && s.src[s.off] != '\n' {
		s.advance(1)
	}
}

func (s *Scanner) skipBlockComment(start diag.Position) {
	s.advance(2) // "/*"
	for s.off < len(s.src) {
		if s.src[s.off] == '*' && s.peekAt(1) == '/' {
			s.advance(2)
			return
		}
		s.advance(1)
	}
	s.bag.Add(diag.Errorf(CodeUnterminatedComment, s.unit, start, "unterminated block comment"))
}

func (s *Scanner) skipSpace() {
	for s.off < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		if !unicode.IsSpace(r) {
			return
		}
		s.advance(size)
	}
}

// advance moves past n bytes, tracking line and column. Columns count
// runes, not bytes.
func (s *Scanner) advance(n int) {
	end := s.off + n
	if end > len(s.src) {
		end = len(s.src)
	}
	for s.off < end {
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		s.off += size
	}
}

func (s *Scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

func (s *Scanner) pos() diag.Position {
	return diag.Position{Line: s.line, Column: s.col}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
