package symbolic

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"text/scanner"
)

// ParseError reports a malformed formula.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("symbolic: parse %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}

// Parse builds an expression from a formula such as "sin(x1)*sin(x2)".
// Identifiers resolve through vars; sin and cos are the only functions.
// Supported operators are + - * / and integer powers written ** or ^.
func Parse(src string, vars map[string]*Var) (Expr, error) {
	p := &parser{src: src, vars: vars}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		if p.err == nil {
			p.err = p.errorf(pos.Offset, "%s", msg)
		}
	}
	p.next()
	e := p.parseSum()
	if p.err == nil && p.tok != scanner.EOF {
		p.err = p.errorf(p.pos, "unexpected %q", p.text)
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string, vars map[string]*Var) Expr {
	e, err := Parse(src, vars)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src  string
	vars map[string]*Var
	s    scanner.Scanner
	tok  rune
	text string
	pos  int
	err  error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.pos = p.s.Position.Offset
}

func (p *parser) errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Input: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) fail(format string, args ...any) Expr {
	if p.err == nil {
		p.err = p.errorf(p.pos, format, args...)
	}
	return zero
}

func (p *parser) parseSum() Expr {
	terms := []Expr{p.parseProduct()}
	for p.err == nil && (p.tok == '+' || p.tok == '-') {
		op := p.tok
		p.next()
		t := p.parseProduct()
		if op == '-' {
			t = Neg(t)
		}
		terms = append(terms, t)
	}
	return Add(terms...)
}

func (p *parser) parseProduct() Expr {
	factors := []Expr{p.parseUnary()}
	for p.err == nil && (p.tok == '*' || p.tok == '/') {
		op, pos := p.tok, p.pos
		p.next()
		f := p.parseUnary()
		if op == '/' {
			if p.err == nil && IsZero(f) {
				p.err = p.errorf(pos, "division by zero")
				return zero
			}
			f = Power(f, -1)
		}
		factors = append(factors, f)
	}
	return Mul(factors...)
}

func (p *parser) parseUnary() Expr {
	switch p.tok {
	case '-':
		p.next()
		return Neg(p.parseUnary())
	case '+':
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() Expr {
	base := p.parsePrimary()
	if p.err != nil {
		return base
	}
	switch {
	case p.tok == '^':
		p.next()
	case p.tok == '*' && p.s.Peek() == '*':
		p.next()
		p.next()
	default:
		return base
	}
	neg := false
	if p.tok == '-' {
		neg = true
		p.next()
	}
	if p.tok != scanner.Int {
		return p.fail("exponent must be an integer, got %q", p.text)
	}
	n, err := strconv.Atoi(p.text)
	if err != nil {
		return p.fail("bad exponent %q", p.text)
	}
	p.next()
	if neg {
		n = -n
	}
	if n < 0 && IsZero(base) {
		return p.fail("division by zero")
	}
	return Power(base, n)
}

func (p *parser) parsePrimary() Expr {
	switch p.tok {
	case scanner.Int, scanner.Float:
		r, ok := new(big.Rat).SetString(p.text)
		if !ok {
			return p.fail("bad number %q", p.text)
		}
		p.next()
		return &Const{val: r}
	case scanner.Ident:
		name, pos := p.text, p.pos
		p.next()
		if p.tok == '(' {
			return p.parseCall(name, pos)
		}
		v, ok := p.vars[name]
		if !ok {
			p.err = p.errorf(pos, "undefined symbol %q", name)
			return zero
		}
		return v
	case '(':
		p.next()
		e := p.parseSum()
		if p.err == nil && p.tok != ')' {
			return p.fail("expected ')', got %q", p.text)
		}
		p.next()
		return e
	case scanner.EOF:
		return p.fail("unexpected end of formula")
	}
	return p.fail("unexpected %q", p.text)
}

func (p *parser) parseCall(name string, pos int) Expr {
	var fn func(Expr) Expr
	switch name {
	case "sin":
		fn = SinOf
	case "cos":
		fn = CosOf
	default:
		p.err = p.errorf(pos, "unknown function %q", name)
		return zero
	}
	p.next()
	arg := p.parseSum()
	if p.err == nil && p.tok != ')' {
		return p.fail("expected ')', got %q", p.text)
	}
	p.next()
	return fn(arg)
}
