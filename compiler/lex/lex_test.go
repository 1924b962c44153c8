package lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want []Kind
	}{
		{"", []Kind{EOF}},
		{"   \t\n", []Kind{EOF}},
		{"// just a comment", []Kind{EOF}},
		{"let x := 1;", []Kind{Let, Ident, Assign, Int, Semi, EOF}},
		{"yield x + 2 * 3;", []Kind{Yield, Ident, Plus, Int, Star, Int, Semi, EOF}},
		{"if (my_var < 3) { 42 }", []Kind{If, LParen, Ident, Lt, Int, RParen, LBrace, Int, RBrace, EOF}},
		{"let a := [10, 20, 30];", []Kind{Let, Ident, Assign, LSquare, Int, Comma, Int, Comma, Int, RSquare, Semi, EOF}},
		{"a[1] := 5;", []Kind{Ident, LSquare, Int, RSquare, Assign, Int, Semi, EOF}},
		{"x <= y >= z == w != v", []Kind{Ident, Le, Ident, Ge, Ident, Eq, Ident, Ne, Ident, EOF}},
		{"!true - -false / 2", []Kind{Bang, True, Minus, Minus, False, Slash, Int, EOF}},
		{"x := 1; // trailing\nyield x;", []Kind{Ident, Assign, Int, Semi, Yield, Ident, Semi, EOF}},
		{"lettuce iffy yielded", []Kind{Ident, Ident, Ident, EOF}},
		{"_under _1", []Kind{Ident, Ident, EOF}},
	} {
		toks, err := Tokens([]byte(tc.src))
		require.NoError(t, err, "src %q", tc.src)

		kinds := make([]Kind, len(toks))
		for i, tok := range toks {
			kinds[i] = tok.Kind
		}

		assert.Equal(t, tc.want, kinds, "src %q", tc.src)
	}
}

func TestTokensText(t *testing.T) {
	toks, err := Tokens([]byte("let abc := 406;"))
	require.NoError(t, err)

	want := []string{"let", "abc", ":=", "406", ";", ""}

	for i, tok := range toks {
		assert.Equal(t, want[i], tok.Text)
	}
}

func TestSpans(t *testing.T) {
	src := []byte("let x := 12;\nyield x;")

	toks, err := Tokens(src)
	require.NoError(t, err)

	for _, tok := range toks {
		assert.Equal(t, tok.Text, string(src[tok.Pos:tok.End]), "token %v", tok)
	}

	last := toks[len(toks)-1]
	assert.Equal(t, EOF, last.Kind)
	assert.Equal(t, len(src), last.Pos)
}

func TestUnrecognized(t *testing.T) {
	for _, tc := range []struct {
		src  string
		char rune
		pos  int
	}{
		{"let x @ 1;", '@', 6},
		{"x : 1", ':', 2},
		{"x = 1", '=', 2},
		{"yield π;", 'π', 6},
	} {
		_, err := Tokens([]byte(tc.src))
		require.Error(t, err, "src %q", tc.src)

		var e Error
		require.ErrorAs(t, err, &e, "src %q", tc.src)

		assert.Equal(t, tc.char, e.Char)
		assert.Equal(t, tc.pos, e.Pos)
	}
}

// Relexing the lexemes of a valid token sequence reproduces the sequence.
func TestLexemeRoundTrip(t *testing.T) {
	src := "let a := [1, 2, 3]; if a[0] <= 2 { yield a[1] * -4; } yield a;"

	toks, err := Tokens([]byte(src))
	require.NoError(t, err)

	texts := make([]string, 0, len(toks))
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}

	again, err := Tokens([]byte(strings.Join(texts, " ")))
	require.NoError(t, err)
	require.Len(t, again, len(toks))

	for i := range toks {
		assert.Equal(t, toks[i].Kind, again[i].Kind)
		assert.Equal(t, toks[i].Text, again[i].Text)
	}
}

func TestNextAfterEOF(t *testing.T) {
	l := New([]byte("x"))

	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, Ident, tok.Kind)

	for i := 0; i < 3; i++ {
		tok, err = l.Next()
		require.NoError(t, err)
		assert.Equal(t, EOF, tok.Kind)
	}
}
