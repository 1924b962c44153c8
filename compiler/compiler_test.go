package compiler

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlang/lead/compiler/analyze"
	"github.com/leadlang/lead/compiler/lex"
	"github.com/leadlang/lead/compiler/parse"
	"github.com/leadlang/lead/vm"
)

func TestLex(t *testing.T) {
	toks, err := Lex(context.Background(), []byte("let x := 1;"))
	require.NoError(t, err)

	kinds := make([]lex.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	assert.Equal(t, []lex.Kind{lex.Let, lex.Ident, lex.Assign, lex.Int, lex.Semi, lex.EOF}, kinds)
}

func TestParse(t *testing.T) {
	stmts, err := Parse(context.Background(), []byte("let x := 1; yield x;"))
	require.NoError(t, err)

	require.Len(t, stmts, 2)
	assert.IsType(t, &parse.Let{}, stmts[0])
	assert.IsType(t, &parse.Yield{}, stmts[1])
}

func TestBuild(t *testing.T) {
	p, err := Build(context.Background(), []byte("let x := 1; yield x + 1;"))
	require.NoError(t, err)

	assert.Equal(t, 1, p.MemSize)
	assert.NotEmpty(t, p.Code)
}

func TestRun(t *testing.T) {
	out, err := Run(context.Background(), []byte("yield 2 + 3 * 4;"))
	require.NoError(t, err)

	assert.Equal(t, []vm.Value{{Int: 14}}, out)
}

// Every stage error stays reachable through the wrapping.
func TestStageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Lex", func(t *testing.T) {
		_, err := Run(ctx, []byte("let x @ 1;"))
		require.Error(t, err)

		var e lex.Error
		assert.ErrorAs(t, err, &e)
	})

	t.Run("Parse", func(t *testing.T) {
		_, err := Run(ctx, []byte("let x := ;"))
		require.Error(t, err)

		var e parse.Error
		assert.ErrorAs(t, err, &e)
	})

	t.Run("Undeclared", func(t *testing.T) {
		_, err := Run(ctx, []byte("yield q;"))
		require.Error(t, err)

		var e analyze.UndeclaredVariableError
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "q", e.Name)
	})

	t.Run("Type", func(t *testing.T) {
		_, err := Run(ctx, []byte("let n := 1; let a := [1, n];"))
		require.Error(t, err)

		var e analyze.TypeError
		assert.ErrorAs(t, err, &e)
	})

	t.Run("Bounds", func(t *testing.T) {
		_, err := Run(ctx, []byte("let a := [1]; yield a[2];"))
		require.Error(t, err)

		var e vm.BoundsError
		require.ErrorAs(t, err, &e)
		assert.Equal(t, int64(2), e.Index)
	})

	t.Run("DivideByZero", func(t *testing.T) {
		_, err := Run(ctx, []byte("yield 1 / 0;"))
		require.Error(t, err)

		var e vm.DivideByZeroError
		assert.ErrorAs(t, err, &e)
	})
}

func TestFiles(t *testing.T) {
	ctx := context.Background()

	toks, err := LexFile(ctx, "testdata/sum.ed")
	require.NoError(t, err)
	assert.NotEmpty(t, toks)

	stmts, err := ParseFile(ctx, "testdata/sum.ed")
	require.NoError(t, err)
	assert.Len(t, stmts, 3)

	p, err := BuildFile(ctx, "testdata/sum.ed")
	require.NoError(t, err)
	assert.Equal(t, 4, p.MemSize)

	out, err := RunFile(ctx, "testdata/sum.ed")
	require.NoError(t, err)
	assert.Equal(t, []vm.Value{{Int: 14}}, out)
}

func TestFileMissing(t *testing.T) {
	_, err := RunFile(context.Background(), "testdata/no_such.ed")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
