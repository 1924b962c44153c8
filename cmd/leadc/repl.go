package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"nikand.dev/go/cli"
	"tlog.app/go/tlog"

	"github.com/leadlang/lead/compiler"
	"github.com/leadlang/lead/compiler/lex"
	"github.com/leadlang/lead/compiler/parse"
)

const (
	historyFile = ".leadc_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

// replAct keeps a growing session program. Each committed statement
// re-runs the whole session and only the new outputs get printed,
// so mutations behave exactly as in a file. A failing line is
// reported and dropped, the session stays as it was.
func replAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	histPath := historyPath()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Println("lead repl, Ctrl+C drops the current input, Ctrl+D exits")

	var session []byte
	var shown int

	for {
		code, ok := readStmt(ln)
		if !ok {
			fmt.Println()
			break
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		probe := append(session[:len(session):len(session)], code...)

		out, err := compiler.Run(ctx, probe)
		if err != nil {
			fmt.Println(err)
			continue
		}

		for _, v := range out[shown:] {
			fmt.Printf("> %d\n", v.Int)
		}

		session = append(probe, '\n')
		shown = len(out)

		ln.AppendHistory(strings.ReplaceAll(strings.TrimSpace(code), "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}

	return nil
}

// readStmt reads input until it stops looking unterminated.
// Ctrl+C drops the buffer and starts over, EOF ends the session.
func readStmt(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err == io.EOF {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(line)

		if incomplete(b.String()) {
			continue
		}

		return b.String(), true
	}
}

// incomplete reports whether src fails to parse only because it ended early.
func incomplete(src string) bool {
	toks, err := lex.Tokens([]byte(src))
	if err != nil {
		return false
	}

	_, err = parse.Program(toks)

	var e parse.Error

	return errors.As(err, &e) && e.Found.Kind == lex.EOF
}

func historyPath() string {
	home, _ := os.UserHomeDir()

	return filepath.Join(home, historyFile)
}
