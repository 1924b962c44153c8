package analyze

import (
	"fmt"

	"github.com/leadlang/lead/compiler/lex"
	"github.com/leadlang/lead/compiler/parse"
)

type (
	// Kind tells scalars and arrays apart.
	Kind int

	// Sym is a declared variable pinned to a fixed memory location.
	Sym struct {
		Name string
		Kind Kind
		Off  int // first cell
		Len  int // cells occupied, 1 for scalars
		Decl lex.Span
	}

	// Info is the symbol table built by Resolve.
	// Syms keeps declaration order, offsets are assigned densely.
	Info struct {
		Syms    []*Sym
		MemSize int

		byName map[string]*Sym
	}

	resolver struct {
		info *Info
	}

	UndeclaredVariableError struct {
		Name       string
		Span       lex.Span
		Redeclared bool
		Prev       lex.Span // first declaration if Redeclared
	}

	TypeError struct {
		Span lex.Span
		Msg  string
	}
)

const (
	Scalar Kind = iota
	Array
)

// Resolve checks names and shapes over a statement list.
// The whole program shares one namespace, blocks do not open scopes.
func Resolve(stmts []parse.Stmt) (*Info, error) {
	r := &resolver{
		info: &Info{
			byName: map[string]*Sym{},
		},
	}

	err := r.stmts(stmts)
	if err != nil {
		return nil, err
	}

	return r.info, nil
}

// Lookup returns the symbol or nil if the name was never declared.
func (i *Info) Lookup(name string) *Sym {
	return i.byName[name]
}

func (r *resolver) stmts(stmts []parse.Stmt) error {
	for _, s := range stmts {
		err := r.stmt(s)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *resolver) stmt(s parse.Stmt) error {
	switch s := s.(type) {
	case *parse.Let:
		return r.let(s)
	case *parse.Assign:
		return r.assign(s)
	case *parse.Yield:
		return r.yield(s)
	case *parse.If:
		err := r.scalar(s.Cond)
		if err != nil {
			return err
		}

		return r.stmts(s.Body.Stmts)
	case *parse.Block:
		return r.stmts(s.Stmts)
	default:
		panic(fmt.Sprintf("unsupported statement: %T", s))
	}
}

// let checks the initializer before the name exists,
// so a name can't be defined in terms of itself.
func (r *resolver) let(s *parse.Let) error {
	if arr, ok := s.Value.(*parse.Array); ok {
		for _, el := range arr.Elems {
			_, ok := fold(el)
			if !ok {
				return NewType(parse.SpanOf(el), "array elements must be constant expressions")
			}
		}

		return r.declare(s.Name, Array, len(arr.Elems), s.Span)
	}

	err := r.scalar(s.Value)
	if err != nil {
		return err
	}

	return r.declare(s.Name, Scalar, 1, s.Span)
}

func (r *resolver) assign(s *parse.Assign) error {
	err := r.scalar(s.Value)
	if err != nil {
		return err
	}

	switch lhs := s.LHS.(type) {
	case *parse.Ref:
		sym, err := r.lookup(lhs.Name, lhs.Span)
		if err != nil {
			return err
		}

		if sym.Kind != Scalar {
			return NewType(lhs.Span, "cannot assign to array %v", lhs.Name)
		}

		return nil
	case *parse.Index:
		return r.element(lhs)
	default:
		panic(fmt.Sprintf("unsupported assignment target: %T", lhs))
	}
}

// yield takes any scalar expression.
// A bare array name is also fine, it yields the array address.
func (r *resolver) yield(s *parse.Yield) error {
	if ref, ok := s.Value.(*parse.Ref); ok {
		_, err := r.lookup(ref.Name, ref.Span)

		return err
	}

	return r.scalar(s.Value)
}

// scalar checks that x is well-formed and produces a single value.
func (r *resolver) scalar(x parse.Expr) error {
	switch x := x.(type) {
	case *parse.Lit:
		return nil
	case *parse.Ref:
		sym, err := r.lookup(x.Name, x.Span)
		if err != nil {
			return err
		}

		if sym.Kind != Scalar {
			return NewType(x.Span, "array %v used as a value", x.Name)
		}

		return nil
	case *parse.Unary:
		return r.scalar(x.X)
	case *parse.Binary:
		err := r.scalar(x.X)
		if err != nil {
			return err
		}

		return r.scalar(x.Y)
	case *parse.Index:
		return r.element(x)
	case *parse.Array:
		return NewType(parse.SpanOf(x), "array literal is only allowed as let initializer")
	default:
		panic(fmt.Sprintf("unsupported expression: %T", x))
	}
}

func (r *resolver) element(x *parse.Index) error {
	ref, ok := x.X.(*parse.Ref)
	if !ok {
		return NewType(parse.SpanOf(x.X), "only named arrays can be indexed")
	}

	sym, err := r.lookup(ref.Name, ref.Span)
	if err != nil {
		return err
	}

	if sym.Kind != Array {
		return NewType(ref.Span, "cannot index scalar %v", ref.Name)
	}

	return r.scalar(x.I)
}

func (r *resolver) declare(name string, k Kind, size int, decl lex.Span) error {
	if prev, ok := r.info.byName[name]; ok {
		return UndeclaredVariableError{Name: name, Span: decl, Redeclared: true, Prev: prev.Decl}
	}

	sym := &Sym{
		Name: name,
		Kind: k,
		Off:  r.info.MemSize,
		Len:  size,
		Decl: decl,
	}

	r.info.byName[name] = sym
	r.info.Syms = append(r.info.Syms, sym)
	r.info.MemSize += size

	return nil
}

func (r *resolver) lookup(name string, sp lex.Span) (*Sym, error) {
	sym, ok := r.info.byName[name]
	if !ok {
		return nil, UndeclaredVariableError{Name: name, Span: sp}
	}

	return sym, nil
}

// fold evaluates a constant expression.
// Names, indexing and division by zero make it non-constant.
func fold(x parse.Expr) (int64, bool) {
	switch x := x.(type) {
	case *parse.Lit:
		return x.Value, true
	case *parse.Unary:
		v, ok := fold(x.X)
		if !ok {
			return 0, false
		}

		switch x.Op {
		case lex.Minus:
			return -v, true
		case lex.Bang:
			return b2i(v == 0), true
		}
	case *parse.Binary:
		a, ok := fold(x.X)
		if !ok {
			return 0, false
		}

		b, ok := fold(x.Y)
		if !ok {
			return 0, false
		}

		switch x.Op {
		case lex.Plus:
			return a + b, true
		case lex.Minus:
			return a - b, true
		case lex.Star:
			return a * b, true
		case lex.Slash:
			if b == 0 {
				return 0, false
			}

			return a / b, true
		case lex.Lt:
			return b2i(a < b), true
		case lex.Le:
			return b2i(a <= b), true
		case lex.Gt:
			return b2i(a > b), true
		case lex.Ge:
			return b2i(a >= b), true
		case lex.Eq:
			return b2i(a == b), true
		case lex.Ne:
			return b2i(a != b), true
		}
	}

	return 0, false
}

func b2i(c bool) int64 {
	if c {
		return 1
	}

	return 0
}

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("Kind[%d]", int(k))
	}
}

func NewType(sp lex.Span, f string, args ...interface{}) error {
	return TypeError{Span: sp, Msg: fmt.Sprintf(f, args...)}
}

func (e UndeclaredVariableError) Error() string {
	if e.Redeclared {
		return fmt.Sprintf("variable %v redeclared at offset %d, first declared at offset %d", e.Name, e.Span.Pos, e.Prev.Pos)
	}

	return fmt.Sprintf("undeclared variable %v at offset %d", e.Name, e.Span.Pos)
}

func (e TypeError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Msg, e.Span.Pos)
}
