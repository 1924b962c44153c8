package parse

import (
	"fmt"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/leadlang/lead/compiler/lex"
)

type (
	parser struct {
		toks []lex.Token
		pos  int
	}

	// Error is an unexpected-token parse error.
	Error struct {
		Found lex.Token
		Want  []lex.Kind
	}
)

// Program parses a full token sequence into a statement list.
// The first malformed construct aborts the parse; no partial tree comes back.
func Program(toks []lex.Token) ([]Stmt, error) {
	p := &parser{toks: toks}

	var stmts []Stmt

	for p.peek().Kind != lex.EOF {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
	}

	return stmts, nil
}

func (p *parser) stmt() (Stmt, error) {
	tok := p.peek()

	switch tok.Kind {
	case lex.Let:
		return p.letStmt()
	case lex.Yield:
		return p.yieldStmt()
	case lex.If:
		return p.ifStmt()
	case lex.LBrace:
		return p.block()
	case lex.Ident:
		return p.assign()
	default:
		return nil, NewUnexpected(tok, lex.Let, lex.Yield, lex.If, lex.LBrace, lex.Ident)
	}
}

func (p *parser) letStmt() (Stmt, error) {
	kw := p.next()

	name, err := p.expect(lex.Ident)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(lex.Assign)
	if err != nil {
		return nil, err
	}

	val, err := p.expr()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(lex.Semi)
	if err != nil {
		return nil, err
	}

	return &Let{Name: name.Text, Value: val, Span: kw.Span.To(semi.Span)}, nil
}

func (p *parser) assign() (Stmt, error) {
	lhs, err := p.lvalue()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(lex.Assign)
	if err != nil {
		return nil, err
	}

	val, err := p.expr()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(lex.Semi)
	if err != nil {
		return nil, err
	}

	return &Assign{LHS: lhs, Value: val, Span: SpanOf(lhs).To(semi.Span)}, nil
}

// lvalue is a name or a single-index element target.
func (p *parser) lvalue() (Expr, error) {
	name, err := p.expect(lex.Ident)
	if err != nil {
		return nil, err
	}

	ref := &Ref{Name: name.Text, Span: name.Span}

	if p.peek().Kind != lex.LSquare {
		return ref, nil
	}

	p.next()

	idx, err := p.expr()
	if err != nil {
		return nil, err
	}

	rs, err := p.expect(lex.RSquare)
	if err != nil {
		return nil, err
	}

	return &Index{X: ref, I: idx, Span: name.Span.To(rs.Span)}, nil
}

func (p *parser) yieldStmt() (Stmt, error) {
	kw := p.next()

	val, err := p.expr()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(lex.Semi)
	if err != nil {
		return nil, err
	}

	return &Yield{Value: val, Span: kw.Span.To(semi.Span)}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	kw := p.next()

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &If{Cond: cond, Body: body, Span: kw.Span.To(body.Span)}, nil
}

func (p *parser) block() (*Block, error) {
	lb, err := p.expect(lex.LBrace)
	if err != nil {
		return nil, err
	}

	b := &Block{}

	for p.peek().Kind != lex.RBrace && p.peek().Kind != lex.EOF {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}

		b.Stmts = append(b.Stmts, s)
	}

	rb, err := p.expect(lex.RBrace)
	if err != nil {
		return nil, err
	}

	b.Span = lb.Span.To(rb.Span)

	return b, nil
}

/// expr parses one precedence level per method: comparisons bind loosest,
// then additive, multiplicative, unary, and index postfix.
// All binary levels are left-associative.
func (p *parser) expr() (Expr, error) {
	return p.cmp()
}

func (p *parser) cmp() (Expr, error) {
	x, err := p.add()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Kind

		switch op {
		case lex.Lt, lex.Le, lex.Gt, lex.Ge, lex.Eq, lex.Ne:
		default:
			return x, nil
		}

		p.next()

		y, err := p.add()
		if err != nil {
			return nil, err
		}

		x = &Binary{Op: op, X: x, Y: y, Span: SpanOf(x).To(SpanOf(y))}
	}
}

func (p *parser) add() (Expr, error) {
	x, err := p.mul()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Kind
		if op != lex.Plus && op != lex.Minus {
			return x, nil
		}

		p.next()

		y, err := p.mul()
		if err != nil {
			return nil, err
		}

		x = &Binary{Op: op, X: x, Y: y, Span: SpanOf(x).To(SpanOf(y))}
	}
}

func (p *parser) mul() (Expr, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Kind
		if op != lex.Star && op != lex.Slash {
			return x, nil
		}

		p.next()

		y, err := p.unary()
		if err != nil {
			return nil, err
		}

		x = &Binary{Op: op, X: x, Y: y, Span: SpanOf(x).To(SpanOf(y))}
	}
}

func (p *parser) unary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case lex.Minus, lex.Bang:
		p.next()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: tok.Kind, X: x, Span: tok.Span.To(SpanOf(x))}, nil
	}

	return p.postfix()
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == lex.LSquare {
		p.next()

		idx, err := p.expr()
		if err != nil {
			return nil, err
		}

		rs, err := p.expect(lex.RSquare)
		if err != nil {
			return nil, err
		}

		x = &Index{X: x, I: idx, Span: SpanOf(x).To(rs.Span)}
	}

	return x, nil
}

func (p *parser) primary() (Expr, error) {
	tok := p.next()

	switch tok.Kind {
	case lex.Int:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "number %v", tok.Text)
		}

		return &Lit{Value: v, Span: tok.Span}, nil
	case lex.True:
		return &Lit{Value: 1, Span: tok.Span}, nil
	case lex.False:
		return &Lit{Value: 0, Span: tok.Span}, nil
	case lex.Ident:
		return &Ref{Name: tok.Text, Span: tok.Span}, nil
	case lex.LParen:
		x, err := p.expr()
		if err != nil {
			return nil, err
		}

		_, err = p.expect(lex.RParen)
		if err != nil {
			return nil, err
		}

		return x, nil
	case lex.LSquare:
		return p.arrayLit(tok)
	default:
		return nil, NewUnexpected(tok, lex.Int, lex.True, lex.False, lex.Ident, lex.LParen, lex.LSquare)
	}
}

// arrayLit parses the elements after a consumed opening bracket.
func (p *parser) arrayLit(ls lex.Token) (Expr, error) {
	a := &Array{}

	if p.peek().Kind == lex.RSquare {
		rs := p.next()
		a.Span = ls.Span.To(rs.Span)

		return a, nil
	}

	for {
		el, err := p.expr()
		if err != nil {
			return nil, err
		}

		a.Elems = append(a.Elems, el)

		tok := p.next()

		switch tok.Kind {
		case lex.Comma:
		case lex.RSquare:
			a.Span = ls.Span.To(tok.Span)

			return a, nil
		default:
			return nil, NewUnexpected(tok, lex.Comma, lex.RSquare)
		}
	}
}

func (p *parser) peek() lex.Token {
	if p.pos >= len(p.toks) {
		return lex.Token{Kind: lex.EOF}
	}

	return p.toks[p.pos]
}

func (p *parser) next() lex.Token {
	tok := p.peek()

	if p.pos < len(p.toks) {
		p.pos++
	}

	return tok
}

func (p *parser) expect(k lex.Kind) (lex.Token, error) {
	tok := p.next()
	if tok.Kind != k {
		return tok, NewUnexpected(tok, k)
	}

	return tok, nil
}

func NewUnexpected(got lex.Token, want ...lex.Kind) error {
	return Error{Found: got, Want: want}
}

func (e Error) Error() string {
	l := make([]string, len(e.Want))

	for i := range e.Want {
		l[i] = e.Want[i].String()
	}

	return fmt.Sprintf("unexpected token %v at offset %d, want %v", e.Found, e.Found.Pos, strings.Join(l, ", "))
}
