package vm

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/leadlang/lead/compiler/air"
	"github.com/leadlang/lead/compiler/lex"
)

type (
	// Value is one machine word.
	// Addr marks it as a memory address, arithmetic on addresses is malformed.
	Value struct {
		Int  int64
		Addr bool
	}

	// Machine executes one program and is not reusable.
	Machine struct {
		code   []air.Inst
		labels []int

		regs []Value
		mem  []int64
		pc   int

		out []Value
	}

	// BoundsError is an index outside the declared array length.
	BoundsError struct {
		Index int64
		Len   int64
		Span  lex.Span
	}

	DivideByZeroError struct {
		Span lex.Span
	}
)

// New sizes the register file and memory once from the program header.
func New(p *air.Program) *Machine {
	return &Machine{
		code:   p.Code,
		labels: p.Labels,
		regs:   make([]Value, p.NumRegs),
		mem:    make([]int64, p.MemSize),
	}
}

// Run executes from the first instruction until the counter passes the end
// and returns yielded values in order. Same program, same output.
//
// Runtime traps come back as BoundsError or DivideByZeroError.
// Malformed programs panic: a correct compiler never produces them.
func (m *Machine) Run(ctx context.Context) (out []Value, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "run program", "insts", len(m.code), "mem", len(m.mem), "regs", len(m.regs))
	defer tr.Finish("err", &err)

	for m.pc < len(m.code) {
		i := m.code[m.pc]

		if tr.If("vm") {
			tr.Printw("step", "pc", m.pc, "inst", i, "regs", m.regs)
		}

		err = m.step(i)
		if err != nil {
			return nil, err
		}
	}

	tr.Printw("halted", "yields", len(m.out))

	return m.out, nil
}

func (m *Machine) step(i air.Inst) error {
	m.pc++

	switch i.Op {
	case air.CON:
		m.regs[i.Rd] = Value{Int: i.Imm}
	case air.LEA:
		m.regs[i.Rd] = Value{Int: i.Imm, Addr: true}
	case air.MOV:
		m.regs[i.Rd] = m.regs[i.Rx]
	case air.ADD:
		m.regs[i.Rd] = Value{Int: m.int(i.Rx) + m.int(i.Ry)}
	case air.SUB:
		m.regs[i.Rd] = Value{Int: m.int(i.Rx) - m.int(i.Ry)}
	case air.MUL:
		m.regs[i.Rd] = Value{Int: m.int(i.Rx) * m.int(i.Ry)}
	case air.DIV:
		d := m.int(i.Ry)
		if d == 0 {
			return DivideByZeroError{Span: i.Span}
		}

		m.regs[i.Rd] = Value{Int: m.int(i.Rx) / d}
	case air.NOT:
		m.regs[i.Rd] = Value{Int: b2i(m.int(i.Rx) == 0)}
	case air.CLT:
		m.regs[i.Rd] = Value{Int: b2i(m.int(i.Rx) < m.int(i.Ry))}
	case air.CLE:
		m.regs[i.Rd] = Value{Int: b2i(m.int(i.Rx) <= m.int(i.Ry))}
	case air.CGT:
		m.regs[i.Rd] = Value{Int: b2i(m.int(i.Rx) > m.int(i.Ry))}
	case air.CGE:
		m.regs[i.Rd] = Value{Int: b2i(m.int(i.Rx) >= m.int(i.Ry))}
	case air.CEQ:
		m.regs[i.Rd] = Value{Int: b2i(m.int(i.Rx) == m.int(i.Ry))}
	case air.CNE:
		m.regs[i.Rd] = Value{Int: b2i(m.int(i.Rx) != m.int(i.Ry))}
	case air.LDR:
		m.regs[i.Rd] = Value{Int: m.mem[i.Imm]}
	case air.STR:
		m.mem[i.Imm] = m.int(i.Rd)
	case air.LDX:
		off, err := m.index(i)
		if err != nil {
			return err
		}

		m.regs[i.Rd] = Value{Int: m.mem[off]}
	case air.STX:
		off, err := m.index(i)
		if err != nil {
			return err
		}

		m.mem[off] = m.int(i.Rd)
	case air.LBL:
	case air.JMP:
		m.pc = m.target(i.Lbl)
	case air.JZ:
		if m.int(i.Rx) == 0 {
			m.pc = m.target(i.Lbl)
		}
	case air.YLD:
		m.out = append(m.out, m.regs[i.Rx])
	default:
		panic(fmt.Sprintf("bad opcode: %v", i.Op))
	}

	return nil
}

// index computes the memory cell for LDX/STX checking the bounds.
func (m *Machine) index(i air.Inst) (int64, error) {
	base := m.addr(i.Rx)

	idx := m.int(i.Ry)
	if idx < 0 || idx >= i.Imm {
		return 0, BoundsError{Index: idx, Len: i.Imm, Span: i.Span}
	}

	return base + idx, nil
}

func (m *Machine) int(r air.Reg) int64 {
	v := m.regs[r]
	if v.Addr {
		panic(fmt.Sprintf("%v holds an address where a plain value is needed", r))
	}

	return v.Int
}

func (m *Machine) addr(r air.Reg) int64 {
	v := m.regs[r]
	if !v.Addr {
		panic(fmt.Sprintf("%v holds a plain value where an address is needed", r))
	}

	return v.Int
}

func (m *Machine) target(l air.Label) int {
	t := m.labels[l]
	if t < 0 || t > len(m.code) {
		panic(fmt.Sprintf("label %v points outside the program: %d", l, t))
	}

	return t
}

func b2i(c bool) int64 {
	if c {
		return 1
	}

	return 0
}

func (v Value) String() string {
	if v.Addr {
		return fmt.Sprintf("@%d", v.Int)
	}

	return fmt.Sprintf("%d", v.Int)
}

func (e BoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d at offset %d", e.Index, e.Len, e.Span.Pos)
}

func (e DivideByZeroError) Error() string {
	return fmt.Sprintf("division by zero at offset %d", e.Span.Pos)
}
