package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/leadlang/lead/compiler"
	"github.com/leadlang/lead/compiler/lex"
	"github.com/leadlang/lead/compiler/parse"
)

func main() {
	lexCmd := &cli.Command{
		Name:        "lex",
		Description: "print the token sequence of a program",
		Action:      lexAct,
		Args:        cli.Args{},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print the syntax tree of a program",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	buildCmd := &cli.Command{
		Name:        "build",
		Description: "print the air listing of a program",
		Action:      buildAct,
		Args:        cli.Args{},
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "execute a program and print yielded values",
		Action:      runAct,
		Args:        cli.Args{},
	}

	replCmd := &cli.Command{
		Name:        "repl",
		Description: "interactive session with history",
		Action:      replAct,
	}

	app := &cli.Command{
		Name:        "leadc",
		Description: "leadc is a tool for compiling and running lead source code",
		Commands: []*cli.Command{
			lexCmd,
			parseCmd,
			buildCmd,
			runCmd,
			replCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func lexAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		toks, err := one(ctx, a, compiler.LexFile, compiler.Lex)
		if err != nil {
			return errors.Wrap(err, "lex %v", a)
		}

		printTokens(toks)
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		stmts, err := one(ctx, a, compiler.ParseFile, compiler.Parse)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("%s", parse.Dump(nil, stmts))
	}

	return nil
}

func buildAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := one(ctx, a, compiler.BuildFile, compiler.Build)
		if err != nil {
			return errors.Wrap(err, "build %v", a)
		}

		fmt.Printf("%v", p)
	}

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		out, err := one(ctx, a, compiler.RunFile, compiler.Run)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}

		for _, v := range out {
			fmt.Printf("> %d\n", v.Int)
		}
	}

	return nil
}

// one applies the operation to a file argument, "-" means stdin.
func one[T any](ctx context.Context, a string, file func(context.Context, string) (T, error), mem func(context.Context, []byte) (T, error)) (T, error) {
	if a != "-" {
		return file(ctx, a)
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		var zero T

		return zero, errors.Wrap(err, "read stdin")
	}

	return mem(ctx, src)
}

// printTokens writes one token per line indented by brace depth.
func printTokens(toks []lex.Token) {
	depth := 0

	for _, tok := range toks {
		if tok.Kind == lex.RBrace && depth > 0 {
			depth--
		}

		fmt.Printf("%*s%v\n", 2*depth, "", tok)

		if tok.Kind == lex.LBrace {
			depth++
		}
	}
}
