package lexer

import "github.com/shanehandley/servo/internal/diag"

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	String  // double-quoted literal, Text holds the decoded body
	Integer // decimal or 0x-prefixed, Text holds the verbatim source
	Decimal // floating literal appearing in dictionary defaults
	Punct   // single punctuation character, or "..." for ellipsis
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case String:
		return "string literal"
	case Integer:
		return "integer literal"
	case Decimal:
		return "decimal literal"
	case Punct:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Token is one lexical unit with its start position.
//
// Keywords are not distinguished from identifiers here; WebIDL keywords
// such as "interface" or "readonly" are context-sensitive (an attribute
// may legally be named "required"), so the parser matches on Text.
type Token struct {
	Kind Kind
	Text string
	Pos  diag.Position
}

// Is reports whether the token is a punct with the given text.
func (t Token) Is(punct string) bool {
	return t.Kind == Punct && t.Text == punct
}

// IsIdent reports whether the token is an identifier with the given text.
func (t Token) IsIdent(text string) bool {
	return t.Kind == Ident && t.Text == text
}
