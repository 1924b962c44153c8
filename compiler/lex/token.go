package lex

import "fmt"

type (
	// Kind is the category of a token.
	Kind int

	// Span is a half-open byte range [Pos, End) in the source text.
	Span struct {
		Pos int
		End int
	}

	// Token is a single lexeme: its kind, its text, and where it came from.
	// Tokens are immutable once produced.
	Token struct {
		Kind Kind
		Text string

		Span
	}
)

const (
	EOF Kind = iota

	Ident
	Int

	// keywords
	Let
	If
	Yield
	True
	False

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	LSquare
	RSquare
	Comma
	Semi

	// operators
	Assign
	Plus
	Minus
	Star
	Slash
	Bang
	Lt
	Le
	Gt
	Ge
	Eq
	Ne

	kindsCount
)

var kindNames = [kindsCount]string{
	EOF:     "eof",
	Ident:   "ident",
	Int:     "number",
	Let:     "let",
	If:      "if",
	Yield:   "yield",
	True:    "true",
	False:   "false",
	LParen:  "(",
	RParen:  ")",
	LBrace:  "{",
	RBrace:  "}",
	LSquare: "[",
	RSquare: "]",
	Comma:   ",",
	Semi:    ";",
	Assign:  ":=",
	Plus:    "+",
	Minus:   "-",
	Star:    "*",
	Slash:   "/",
	Bang:    "!",
	Lt:      "<",
	Le:      "<=",
	Gt:      ">",
	Ge:      ">=",
	Eq:      "==",
	Ne:      "!=",
}

func (k Kind) String() string {
	if k < 0 || k >= kindsCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}

	return kindNames[k]
}

// String renders the token close to its source representation.
func (t Token) String() string {
	switch t.Kind {
	case Ident, Int:
		return fmt.Sprintf("%v(%s)", t.Kind, t.Text)
	}

	return t.Kind.String()
}

// To is the span from the start of s to the end of e.
func (s Span) To(e Span) Span {
	return Span{Pos: s.Pos, End: e.End}
}
