package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/leadlang/lead/compiler/air"
	"github.com/leadlang/lead/compiler/analyze"
	"github.com/leadlang/lead/compiler/lex"
	"github.com/leadlang/lead/compiler/parse"
	"github.com/leadlang/lead/vm"
)

// Lex scans src into the full token sequence, EOF token included.
func Lex(ctx context.Context, src []byte) (toks []lex.Token, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "lex", "size", len(src))
	defer tr.Finish("err", &err)

	toks, err = lex.Tokens(src)
	if err != nil {
		return nil, errors.Wrap(err, "lex text")
	}

	if tr.If("tokens") {
		tr.Printw("tokens", "toks", toks)
	}

	return toks, nil
}

// Parse scans and parses src into a statement list.
func Parse(ctx context.Context, src []byte) (stmts []parse.Stmt, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "size", len(src))
	defer tr.Finish("err", &err)

	toks, err := Lex(ctx, src)
	if err != nil {
		return nil, err
	}

	stmts, err = parse.Program(toks)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	return stmts, nil
}

// Build compiles src down to an executable program.
func Build(ctx context.Context, src []byte) (p *air.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "build", "size", len(src))
	defer tr.Finish("err", &err)

	stmts, err := Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	info, err := analyze.Resolve(stmts)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}

	tr.Printw("resolved", "symbols", len(info.Syms), "mem_size", info.MemSize)

	return air.Compile(ctx, stmts, info), nil
}

// Run compiles and executes src and returns the yielded values in order.
func Run(ctx context.Context, src []byte) (out []vm.Value, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run", "size", len(src))
	defer tr.Finish("err", &err)

	p, err := Build(ctx, src)
	if err != nil {
		return nil, err
	}

	out, err = vm.New(p).Run(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "execute")
	}

	return out, nil
}

func LexFile(ctx context.Context, name string) ([]lex.Token, error) {
	src, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Lex(ctx, src)
}

func ParseFile(ctx context.Context, name string) ([]parse.Stmt, error) {
	src, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, src)
}

func BuildFile(ctx context.Context, name string) (*air.Program, error) {
	src, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Build(ctx, src)
}

func RunFile(ctx context.Context, name string) ([]vm.Value, error) {
	src, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Run(ctx, src)
}

func readFile(ctx context.Context, name string) ([]byte, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(src), "name", name)

	return src, nil
}
