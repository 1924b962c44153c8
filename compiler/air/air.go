package air

import (
	"fmt"

	"github.com/leadlang/lead/compiler/lex"
)

type (
	// Op is an instruction opcode.
	Op int

	// Reg is a virtual register id. The file is as wide as a program needs.
	Reg int

	// Label is a jump target id, symbolic until resolved.
	Label int

	// Inst is one instruction. Which fields matter depends on Op.
	// Rd holds the destination, for stores the transferred register.
	// Span points back at the source construct the instruction came from.
	Inst struct {
		Op  Op
		Rd  Reg
		Rx  Reg
		Ry  Reg
		Imm int64
		Lbl Label

		lex.Span `tlog:",embed"`
	}

	// Program is a lowered program ready to execute.
	// Labels maps Label to an absolute index into Code.
	Program struct {
		Code   []Inst
		Labels []int

		MemSize int // memory cells
		NumRegs int // register file size
	}
)

const (
	CON Op = iota // Rd <- Imm
	LEA           // Rd <- Imm, tagged as address
	MOV           // Rd <- Rx
	ADD           // Rd <- Rx + Ry
	SUB           // Rd <- Rx - Ry
	MUL           // Rd <- Rx * Ry
	DIV           // Rd <- Rx / Ry, traps on zero Ry
	NOT           // Rd <- Rx == 0
	CLT           // Rd <- Rx < Ry
	CLE           // Rd <- Rx <= Ry
	CGT           // Rd <- Rx > Ry
	CGE           // Rd <- Rx >= Ry
	CEQ           // Rd <- Rx == Ry
	CNE           // Rd <- Rx != Ry
	LDR           // Rd <- mem[Imm]
	STR           // mem[Imm] <- Rd
	LDX           // Rd <- mem[Rx + Ry], Imm is the array length
	STX           // mem[Rx + Ry] <- Rd, Imm is the array length
	LBL           // marker for Lbl, no-op at runtime
	JMP           // pc <- Lbl
	JZ            // pc <- Lbl if Rx is zero
	YLD           // emit Rx

	opsCount
)

var opNames = [opsCount]string{
	CON: "CON", LEA: "LEA", MOV: "MOV",
	ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV", NOT: "NOT",
	CLT: "CLT", CLE: "CLE", CGT: "CGT", CGE: "CGE", CEQ: "CEQ", CNE: "CNE",
	LDR: "LDR", STR: "STR", LDX: "LDX", STX: "STX",
	LBL: "LBL", JMP: "JMP", JZ: "JZ",
	YLD: "YLD",
}

// Append adds an instruction and returns its index.
func (p *Program) Append(i Inst) int {
	p.Code = append(p.Code, i)

	return len(p.Code) - 1
}

// String renders the listing the build command prints.
func (p *Program) String() string {
	b := fmt.Appendf(nil, "; mem %d cells, %d regs\n", p.MemSize, p.NumRegs)

	for i, ins := range p.Code {
		b = fmt.Appendf(b, "%4d    %v\n", i, ins)
	}

	return string(b)
}

func (i Inst) String() string {
	switch i.Op {
	case CON:
		return fmt.Sprintf("CON %v, =%d", i.Rd, i.Imm)
	case LEA:
		return fmt.Sprintf("LEA %v, @%d", i.Rd, i.Imm)
	case MOV, NOT:
		return fmt.Sprintf("%v %v, %v", i.Op, i.Rd, i.Rx)
	case ADD, SUB, MUL, DIV, CLT, CLE, CGT, CGE, CEQ, CNE:
		return fmt.Sprintf("%v %v, %v, %v", i.Op, i.Rd, i.Rx, i.Ry)
	case LDR:
		return fmt.Sprintf("LDR %v, [%d]", i.Rd, i.Imm)
	case STR:
		return fmt.Sprintf("STR %v, [%d]", i.Rd, i.Imm)
	case LDX:
		return fmt.Sprintf("LDX %v, [%v, %v], =%d", i.Rd, i.Rx, i.Ry, i.Imm)
	case STX:
		return fmt.Sprintf("STX %v, [%v, %v], =%d", i.Rd, i.Rx, i.Ry, i.Imm)
	case LBL:
		return fmt.Sprintf("%v:", i.Lbl)
	case JMP:
		return fmt.Sprintf("JMP %v", i.Lbl)
	case JZ:
		return fmt.Sprintf("JZ %v, %v", i.Rx, i.Lbl)
	case YLD:
		return fmt.Sprintf("YLD %v", i.Rx)
	default:
		return fmt.Sprintf("%v ???", i.Op)
	}
}

func (o Op) String() string {
	if o < 0 || o >= opsCount {
		return fmt.Sprintf("Op[%d]", int(o))
	}

	return opNames[o]
}

func (r Reg) String() string {
	return fmt.Sprintf("%%%d", int(r))
}

func (l Label) String() string {
	return fmt.Sprintf("L%d", int(l))
}
