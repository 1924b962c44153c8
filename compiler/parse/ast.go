package parse

import (
	"fmt"

	"github.com/leadlang/lead/compiler/lex"
)

type (
	// Node is any syntax tree node.
	Node interface{}

	// Expr is an expression node.
	Expr interface {
		exprNode()
	}

	// Stmt is a statement node.
	Stmt interface {
		stmtNode()
	}

	// Lit is an integer literal. true and false parse into 1 and 0.
	Lit struct {
		Value int64

		lex.Span `tlog:",embed"`
	}

	// Ref is a variable reference.
	Ref struct {
		Name string

		lex.Span `tlog:",embed"`
	}

	// Unary is -x or !x.
	Unary struct {
		Op lex.Kind
		X  Expr

		lex.Span `tlog:",embed"`
	}

	// Binary applies an arithmetic or comparison operator to two operands.
	Binary struct {
		Op lex.Kind
		X  Expr
		Y  Expr

		lex.Span `tlog:",embed"`
	}

	// Array is an array literal. Every element must be a constant
	// expression; the resolver enforces that.
	Array struct {
		Elems []Expr

		lex.Span `tlog:",embed"`
	}

	// Index is x[i].
	Index struct {
		X Expr
		I Expr

		lex.Span `tlog:",embed"`
	}

	// Let declares a new variable.
	Let struct {
		Name  string
		Value Expr

		lex.Span `tlog:",embed"`
	}

	// Assign stores into an already declared variable or array element.
	// LHS is *Ref or *Index over a *Ref.
	Assign struct {
		LHS   Expr
		Value Expr

		lex.Span `tlog:",embed"`
	}

	// Yield appends the value of an expression to the program output.
	Yield struct {
		Value Expr

		lex.Span `tlog:",embed"`
	}

	// If runs the block when the condition is nonzero. There is no else.
	If struct {
		Cond Expr
		Body *Block

		lex.Span `tlog:",embed"`
	}

	// Block is an ordered statement sequence.
	Block struct {
		Stmts []Stmt

		lex.Span `tlog:",embed"`
	}
)

func (*Lit) exprNode()    {}
func (*Ref) exprNode()    {}
func (*Unary) exprNode()  {}
func (*Binary) exprNode() {}
func (*Array) exprNode()  {}
func (*Index) exprNode()  {}

func (*Let) stmtNode()    {}
func (*Assign) stmtNode() {}
func (*Yield) stmtNode()  {}
func (*If) stmtNode()     {}
func (*Block) stmtNode()  {}

// SpanOf is the source span of any node.
func SpanOf(n Node) lex.Span {
	switch n := n.(type) {
	case *Lit:
		return n.Span
	case *Ref:
		return n.Span
	case *Unary:
		return n.Span
	case *Binary:
		return n.Span
	case *Array:
		return n.Span
	case *Index:
		return n.Span
	case *Let:
		return n.Span
	case *Assign:
		return n.Span
	case *Yield:
		return n.Span
	case *If:
		return n.Span
	case *Block:
		return n.Span
	default:
		panic(fmt.Sprintf("parse: span of %T", n))
	}
}

// Dump appends an s-expression rendering of the program, one top-level
// statement per line.
func Dump(b []byte, stmts []Stmt) []byte {
	for _, s := range stmts {
		b = dumpStmt(b, s, 0)
		b = append(b, '\n')
	}

	return b
}

func dumpStmt(b []byte, s Stmt, depth int) []byte {
	b = indent(b, depth)

	switch s := s.(type) {
	case *Let:
		b = fmt.Appendf(b, "(let %s ", s.Name)
		b = dumpExpr(b, s.Value)
		b = append(b, ')')
	case *Assign:
		b = append(b, "(set "...)
		b = dumpExpr(b, s.LHS)
		b = append(b, ' ')
		b = dumpExpr(b, s.Value)
		b = append(b, ')')
	case *Yield:
		b = append(b, "(yield "...)
		b = dumpExpr(b, s.Value)
		b = append(b, ')')
	case *If:
		b = append(b, "(if "...)
		b = dumpExpr(b, s.Cond)
		b = append(b, '\n')
		b = dumpStmt(b, s.Body, depth+1)
		b = append(b, ')')
	case *Block:
		b = append(b, "(block"...)

		for _, st := range s.Stmts {
			b = append(b, '\n')
			b = dumpStmt(b, st, depth+1)
		}

		b = append(b, ')')
	default:
		panic(fmt.Sprintf("parse: dump of %T", s))
	}

	return b
}

func dumpExpr(b []byte, e Expr) []byte {
	switch e := e.(type) {
	case *Lit:
		return fmt.Appendf(b, "%d", e.Value)
	case *Ref:
		return append(b, e.Name...)
	case *Unary:
		b = fmt.Appendf(b, "(%v ", e.Op)
		b = dumpExpr(b, e.X)

		return append(b, ')')
	case *Binary:
		b = fmt.Appendf(b, "(%v ", e.Op)
		b = dumpExpr(b, e.X)
		b = append(b, ' ')
		b = dumpExpr(b, e.Y)

		return append(b, ')')
	case *Array:
		b = append(b, '[')

		for i, el := range e.Elems {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = dumpExpr(b, el)
		}

		return append(b, ']')
	case *Index:
		b = append(b, "(idx "...)
		b = dumpExpr(b, e.X)
		b = append(b, ' ')
		b = dumpExpr(b, e.I)

		return append(b, ')')
	default:
		panic(fmt.Sprintf("parse: dump of %T", e))
	}
}

func indent(b []byte, depth int) []byte {
	for i := 0; i < depth; i++ {
		b = append(b, "    "...)
	}

	return b
}
