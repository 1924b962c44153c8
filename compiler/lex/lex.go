package lex

import (
	"fmt"
	"unicode/utf8"
)

type (
	// Lexer scans source text into tokens, one Next call at a time.
	// Scanning restarts from scratch with a new Lexer.
	Lexer struct {
		src []byte
		pos int
	}

	// Error means the lexer hit a character it cannot start a token from.
	Error struct {
		Char rune
		Pos  int
	}
)

func New(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Tokens scans src to the end and returns all tokens including the final EOF.
// The first bad character aborts the scan.
func Tokens(src []byte) ([]Token, error) {
	l := New(src)

	var toks []Token

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token. After the end of input it keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	l.skipTrivia()

	st := l.pos

	if st == len(l.src) {
		return Token{Kind: EOF, Span: Span{Pos: st, End: st}}, nil
	}

	c := l.src[st]

	switch c {
	case '(':
		return l.emit(LParen, st+1), nil
	case ')':
		return l.emit(RParen, st+1), nil
	case '{':
		return l.emit(LBrace, st+1), nil
	case '}':
		return l.emit(RBrace, st+1), nil
	case '[':
		return l.emit(LSquare, st+1), nil
	case ']':
		return l.emit(RSquare, st+1), nil
	case ',':
		return l.emit(Comma, st+1), nil
	case ';':
		return l.emit(Semi, st+1), nil
	case '+':
		return l.emit(Plus, st+1), nil
	case '-':
		return l.emit(Minus, st+1), nil
	case '*':
		return l.emit(Star, st+1), nil
	case '/':
		return l.emit(Slash, st+1), nil
	case ':':
		// ':' exists only as part of ':='
		if l.at(st+1) == '=' {
			return l.emit(Assign, st+2), nil
		}
	case '=':
		// '=' exists only as part of '=='
		if l.at(st+1) == '=' {
			return l.emit(Eq, st+2), nil
		}
	case '!':
		if l.at(st+1) == '=' {
			return l.emit(Ne, st+2), nil
		}

		return l.emit(Bang, st+1), nil
	case '<':
		if l.at(st+1) == '=' {
			return l.emit(Le, st+2), nil
		}

		return l.emit(Lt, st+1), nil
	case '>':
		if l.at(st+1) == '=' {
			return l.emit(Ge, st+2), nil
		}

		return l.emit(Gt, st+1), nil
	}

	switch {
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		e := skipIdent(l.src, st)

		switch string(l.src[st:e]) {
		case "let":
			return l.emit(Let, e), nil
		case "if":
			return l.emit(If, e), nil
		case "yield":
			return l.emit(Yield, e), nil
		case "true":
			return l.emit(True, e), nil
		case "false":
			return l.emit(False, e), nil
		}

		return l.emit(Ident, e), nil
	case c >= '0' && c <= '9':
		e := skipNum(l.src, st)

		return l.emit(Int, e), nil
	}

	r, _ := utf8.DecodeRune(l.src[st:])

	return Token{}, Error{Char: r, Pos: st}
}

func (l *Lexer) emit(k Kind, end int) Token {
	t := Token{
		Kind: k,
		Text: string(l.src[l.pos:end]),
		Span: Span{Pos: l.pos, End: end},
	}

	l.pos = end

	return t
}

// at is the byte at position i, or 0 past the end.
func (l *Lexer) at(i int) byte {
	if i >= len(l.src) {
		return 0
	}

	return l.src[i]
}

// skipTrivia advances over whitespace and // comments.
func (l *Lexer) skipTrivia() {
	b := l.src
	i := l.pos

	for i < len(b) {
		switch {
		case b[i] == ' ' || b[i] == '\t' || b[i] == '\r' || b[i] == '\n':
			i++
		case b[i] == '/' && i+1 < len(b) && b[i+1] == '/':
			for i < len(b) && b[i] != '\n' {
				i++
			}
		default:
			l.pos = i
			return
		}
	}

	l.pos = i
}

func skipNum(b []byte, i int) int {
	for i < len(b) && (b[i] >= '0' && b[i] <= '9') {
		i++
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (b[i] >= 'a' && b[i] <= 'z' || b[i] >= 'A' && b[i] <= 'Z' || b[i] >= '0' && b[i] <= '9' || b[i] == '_') {
		i++
	}

	return i
}

func (e Error) Error() string {
	return fmt.Sprintf("unrecognized character %q at offset %d", e.Char, e.Pos)
}
