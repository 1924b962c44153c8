package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlang/lead/compiler/lex"
)

func parseSrc(t *testing.T, src string) []Stmt {
	t.Helper()

	toks, err := lex.Tokens([]byte(src))
	require.NoError(t, err)

	stmts, err := Program(toks)
	require.NoError(t, err)

	return stmts
}

func dumpSrc(t *testing.T, src string) string {
	t.Helper()

	return string(Dump(nil, parseSrc(t, src)))
}

func TestPrecedence(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"yield 2 + 3 * 4;", "(yield (+ 2 (* 3 4)))\n"},
		{"yield 2 * 3 + 4;", "(yield (+ (* 2 3) 4))\n"},
		{"yield (2 + 3) * 4;", "(yield (* (+ 2 3) 4))\n"},
		{"yield 2 - 3 - 4;", "(yield (- (- 2 3) 4))\n"},
		{"yield 8 / 4 / 2;", "(yield (/ (/ 8 4) 2))\n"},
		{"yield 1 + 2 < 3 * 4;", "(yield (< (+ 1 2) (* 3 4)))\n"},
		{"yield a[1] + b[2];", "(yield (+ (idx a 1) (idx b 2)))\n"},
		{"yield -a[1];", "(yield (- (idx a 1)))\n"},
		{"yield !0 * 2;", "(yield (* (! 0) 2))\n"},
		{"yield - -3;", "(yield (- (- 3)))\n"},
		{"yield true + false;", "(yield (+ 1 0))\n"},
	} {
		assert.Equal(t, tc.want, dumpSrc(t, tc.src), "src %q", tc.src)
	}
}

// Chained comparisons group to the left.
func TestComparisonAssociativity(t *testing.T) {
	assert.Equal(t, "(yield (== (< 1 2) 1))\n", dumpSrc(t, "yield 1 < 2 == 1;"))
	assert.Equal(t, "(yield (!= (>= a b) 0))\n", dumpSrc(t, "yield a >= b != 0;"))
}

func TestStatements(t *testing.T) {
	src := `
let a := [10, 20, 30];
let x := a[0];
x := x + 1;
a[2] := x;
if x <= 11 {
	yield a[2];
	{ yield 0; }
}
yield a;
`

	want := `(let a [10, 20, 30])
(let x (idx a 0))
(set x (+ x 1))
(set (idx a 2) x)
(if (<= x 11)
    (block
        (yield (idx a 2))
        (block
            (yield 0))))
(yield a)
`

	assert.Equal(t, want, dumpSrc(t, src))
}

func TestEmptyArray(t *testing.T) {
	stmts := parseSrc(t, "let a := [];")
	require.Len(t, stmts, 1)

	let, ok := stmts[0].(*Let)
	require.True(t, ok)

	arr, ok := let.Value.(*Array)
	require.True(t, ok)
	assert.Len(t, arr.Elems, 0)
}

func TestSpans(t *testing.T) {
	src := "let x := 1 + 2;"

	stmts := parseSrc(t, src)
	require.Len(t, stmts, 1)

	let := stmts[0].(*Let)
	assert.Equal(t, lex.Span{Pos: 0, End: len(src)}, let.Span)
	assert.Equal(t, "1 + 2", src[SpanOf(let.Value).Pos:SpanOf(let.Value).End])
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		src   string
		found lex.Kind
	}{
		{"let x := 1", lex.EOF},
		{"let 1 := 2;", lex.Int},
		{"x := ;", lex.Semi},
		{"yield 1 + ;", lex.Semi},
		{"if x yield 1;", lex.Yield},
		{"if x { yield 1;", lex.EOF},
		{"let a := [1,];", lex.RSquare},
		{"let a := [1 2];", lex.Int},
		{"+ 2;", lex.Plus},
		{"yield (1;", lex.Semi},
		{"x[0][1] := 2;", lex.LSquare},
	} {
		toks, err := lex.Tokens([]byte(tc.src))
		require.NoError(t, err, "src %q", tc.src)

		_, err = Program(toks)
		require.Error(t, err, "src %q", tc.src)

		var e Error
		require.ErrorAs(t, err, &e, "src %q", tc.src)
		assert.Equal(t, tc.found, e.Found.Kind, "src %q: %v", tc.src, err)
		assert.NotEmpty(t, e.Want, "src %q", tc.src)
	}
}

func TestNumberOverflow(t *testing.T) {
	toks, err := lex.Tokens([]byte("yield 99999999999999999999;"))
	require.NoError(t, err)

	_, err = Program(toks)
	require.Error(t, err)
}
