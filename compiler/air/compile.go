package air

import (
	"context"
	"fmt"

	"nikand.dev/go/heap"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/leadlang/lead/compiler/analyze"
	"github.com/leadlang/lead/compiler/lex"
	"github.com/leadlang/lead/compiler/parse"
)

type (
	compiler struct {
		p    *Program
		info *analyze.Info

		free    heap.Heap[Reg]
		numRegs int

		tr tlog.Span
	}
)

// Compile lowers a resolved statement list into a program.
// stmts must have passed Resolve producing info,
// anything it can't lower is a compiler defect and panics.
func Compile(ctx context.Context, stmts []parse.Stmt, info *analyze.Info) *Program {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "compile air", "mem_size", info.MemSize)
	defer tr.Finish()

	c := &compiler{
		p:    &Program{MemSize: info.MemSize},
		info: info,
		free: heap.Heap[Reg]{Less: regLess},
		tr:   tr,
	}

	for _, s := range stmts {
		c.stmt(s)
	}

	c.resolve()

	c.p.NumRegs = c.numRegs

	tr.Printw("compiled", "insts", len(c.p.Code), "labels", len(c.p.Labels), "regs", c.numRegs)

	return c.p
}

func (c *compiler) stmt(s parse.Stmt) {
	switch s := s.(type) {
	case *parse.Let:
		c.let(s)
	case *parse.Assign:
		c.assign(s)
	case *parse.Yield:
		r := c.expr(s.Value)

		c.emit(Inst{Op: YLD, Rx: r, Span: s.Span})
		c.release(r)
	case *parse.If:
		cond := c.expr(s.Cond)
		end := c.label()

		c.emit(Inst{Op: JZ, Rx: cond, Lbl: end, Span: parse.SpanOf(s.Cond)})
		c.release(cond)

		c.block(s.Body)

		c.emit(Inst{Op: LBL, Lbl: end, Span: s.Span})
	case *parse.Block:
		c.block(s)
	default:
		panic(fmt.Sprintf("unsupported statement: %T (%v)", s, loc.Caller(1)))
	}
}

func (c *compiler) block(b *parse.Block) {
	for _, s := range b.Stmts {
		c.stmt(s)
	}
}

// let writes the initial value into the cells reserved for the name.
// Array literals store element by element at base+i.
func (c *compiler) let(s *parse.Let) {
	sym := c.sym(s.Name)

	if arr, ok := s.Value.(*parse.Array); ok {
		for i, el := range arr.Elems {
			r := c.expr(el)

			c.emit(Inst{Op: STR, Rd: r, Imm: int64(sym.Off + i), Span: parse.SpanOf(el)})
			c.release(r)
		}

		return
	}

	r := c.expr(s.Value)

	c.emit(Inst{Op: STR, Rd: r, Imm: int64(sym.Off), Span: s.Span})
	c.release(r)
}

func (c *compiler) assign(s *parse.Assign) {
	switch lhs := s.LHS.(type) {
	case *parse.Ref:
		sym := c.sym(lhs.Name)

		r := c.expr(s.Value)

		c.emit(Inst{Op: STR, Rd: r, Imm: int64(sym.Off), Span: s.Span})
		c.release(r)
	case *parse.Index:
		ref := lhs.X.(*parse.Ref)
		sym := c.sym(ref.Name)

		base := c.alloc()
		c.emit(Inst{Op: LEA, Rd: base, Imm: int64(sym.Off), Span: ref.Span})

		idx := c.expr(lhs.I)
		val := c.expr(s.Value)

		c.emit(Inst{Op: STX, Rd: val, Rx: base, Ry: idx, Imm: int64(sym.Len), Span: s.Span})

		c.release(val)
		c.release(idx)
		c.release(base)
	default:
		panic(fmt.Sprintf("unsupported assignment target: %T", lhs))
	}
}

// expr lowers x bottom-up and returns the register holding the result.
// The caller owns the register and releases it once consumed.
func (c *compiler) expr(x parse.Expr) (r Reg) {
	switch x := x.(type) {
	case *parse.Lit:
		r = c.alloc()
		c.emit(Inst{Op: CON, Rd: r, Imm: x.Value, Span: x.Span})
	case *parse.Ref:
		sym := c.sym(x.Name)

		op := LDR
		if sym.Kind == analyze.Array {
			op = LEA
		}

		r = c.alloc()
		c.emit(Inst{Op: op, Rd: r, Imm: int64(sym.Off), Span: x.Span})
	case *parse.Unary:
		r = c.unary(x)
	case *parse.Binary:
		r = c.binary(x)
	case *parse.Index:
		r = c.index(x)
	default:
		panic(fmt.Sprintf("unsupported expression: %T (%v)", x, loc.Caller(1)))
	}

	return r
}

// unary negation is zero minus the operand, there is no dedicated opcode.
func (c *compiler) unary(x *parse.Unary) Reg {
	v := c.expr(x.X)

	switch x.Op {
	case lex.Minus:
		z := c.alloc()
		c.emit(Inst{Op: CON, Rd: z, Imm: 0, Span: x.Span})

		c.release(z)
		c.release(v)

		r := c.alloc()
		c.emit(Inst{Op: SUB, Rd: r, Rx: z, Ry: v, Span: x.Span})

		return r
	case lex.Bang:
		c.release(v)

		r := c.alloc()
		c.emit(Inst{Op: NOT, Rd: r, Rx: v, Span: x.Span})

		return r
	default:
		panic(fmt.Sprintf("unsupported unary op: %v", x.Op))
	}
}

func (c *compiler) binary(x *parse.Binary) Reg {
	var op Op

	switch x.Op {
	case lex.Plus:
		op = ADD
	case lex.Minus:
		op = SUB
	case lex.Star:
		op = MUL
	case lex.Slash:
		op = DIV
	case lex.Lt:
		op = CLT
	case lex.Le:
		op = CLE
	case lex.Gt:
		op = CGT
	case lex.Ge:
		op = CGE
	case lex.Eq:
		op = CEQ
	case lex.Ne:
		op = CNE
	default:
		panic(fmt.Sprintf("unsupported binary op: %v", x.Op))
	}

	a := c.expr(x.X)
	b := c.expr(x.Y)

	c.release(a)
	c.release(b)

	r := c.alloc()
	c.emit(Inst{Op: op, Rd: r, Rx: a, Ry: b, Span: x.Span})

	return r
}

func (c *compiler) index(x *parse.Index) Reg {
	ref := x.X.(*parse.Ref)
	sym := c.sym(ref.Name)

	base := c.alloc()
	c.emit(Inst{Op: LEA, Rd: base, Imm: int64(sym.Off), Span: ref.Span})

	idx := c.expr(x.I)

	c.release(base)
	c.release(idx)

	r := c.alloc()
	c.emit(Inst{Op: LDX, Rd: r, Rx: base, Ry: idx, Imm: int64(sym.Len), Span: x.Span})

	return r
}

func (c *compiler) sym(name string) *analyze.Sym {
	sym := c.info.Lookup(name)
	if sym == nil {
		panic(fmt.Sprintf("unresolved name %v (%v)", name, loc.Caller(2)))
	}

	return sym
}

// alloc prefers the lowest released register to keep numbering dense.
func (c *compiler) alloc() Reg {
	if c.free.Len() != 0 {
		return c.free.Pop()
	}

	r := Reg(c.numRegs)
	c.numRegs++

	return r
}

func (c *compiler) release(r Reg) {
	c.free.Push(r)
}

func (c *compiler) label() Label {
	l := Label(len(c.p.Labels))
	c.p.Labels = append(c.p.Labels, -1)

	return l
}

func (c *compiler) emit(i Inst) {
	n := c.p.Append(i)

	if c.tr.If("emit") {
		c.tr.Printw("emit", "i", n, "inst", i, "from", loc.Callers(1, 2))
	}
}

// resolve pins every label to the index of its marker.
func (c *compiler) resolve() {
	for i, ins := range c.p.Code {
		if ins.Op == LBL {
			c.p.Labels[ins.Lbl] = i
		}
	}

	for l, i := range c.p.Labels {
		if i < 0 {
			panic(fmt.Sprintf("unresolved label L%d", l))
		}
	}
}

func regLess(d []Reg, i, j int) bool { return d[i] < d[j] }
