// Package symbolic implements a small computer-algebra kernel: an immutable
// expression tree over rational constants, named variables, sums, products,
// integer powers, sin, cos and unevaluated partial derivatives.
//
// Trees are built with the constructors in this file and are never modified
// after construction. Simplify rewrites any tree into a sum of monomials.
// For polynomials in variables, sin and cos the form is canonical: two such
// expressions are equal exactly when their simplified forms render
// identically. Quotients are reduced only when a sum divides its numerator
// exactly, so Equal may miss identities between other rational expressions.
package symbolic

import (
	"fmt"
	"math/big"
)

// Expr is a node of a symbolic expression tree. The set of node types is
// closed: *Const, *Var, *Sum, *Product, *Pow, *Sin, *Cos and *Derivative.
type Expr interface {
	fmt.Stringer
	LaTeX() string
	isExpr()
}

type Const struct {
	val *big.Rat
}

type Var struct {
	name string
}

type Sum struct {
	terms []Expr
}

type Product struct {
	factors []Expr
}

// Pow is an integer power of an expression.
type Pow struct {
	base Expr
	exp  int
}

type Sin struct {
	arg Expr
}

type Cos struct {
	arg Expr
}

// Derivative is an unevaluated partial derivative of Expr with respect to
// Wrt. Simplify evaluates it.
type Derivative struct {
	expr Expr
	wrt  *Var
}

func (*Const) isExpr()      {}
func (*Var) isExpr()        {}
func (*Sum) isExpr()        {}
func (*Product) isExpr()    {}
func (*Pow) isExpr()        {}
func (*Sin) isExpr()        {}
func (*Cos) isExpr()        {}
func (*Derivative) isExpr() {}

var (
	zero = &Const{val: new(big.Rat)}
	one  = &Const{val: big.NewRat(1, 1)}
)

func Int(n int64) *Const {
	return &Const{val: big.NewRat(n, 1)}
}

// Rational returns the constant p/q. It panics if q is zero.
func Rational(p, q int64) *Const {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return &Const{val: big.NewRat(p, q)}
}

// Rat returns a constant holding a copy of r.
func Rat(r *big.Rat) *Const {
	return &Const{val: new(big.Rat).Set(r)}
}

// Value returns a copy of the constant's exact value.
func (c *Const) Value() *big.Rat { return new(big.Rat).Set(c.val) }

func (c *Const) Float64() float64 {
	f, _ := c.val.Float64()
	return f
}

func (c *Const) IsZero() bool { return c.val.Sign() == 0 }

func NewVar(name string) *Var { return &Var{name: name} }

func (v *Var) Name() string { return v.name }

// Add returns the unsimplified sum of terms.
func Add(terms ...Expr) Expr {
	switch len(terms) {
	case 0:
		return zero
	case 1:
		return terms[0]
	}
	return &Sum{terms: append([]Expr(nil), terms...)}
}

// Mul returns the unsimplified product of factors.
func Mul(factors ...Expr) Expr {
	switch len(factors) {
	case 0:
		return one
	case 1:
		return factors[0]
	}
	return &Product{factors: append([]Expr(nil), factors...)}
}

func Neg(e Expr) Expr { return Mul(Int(-1), e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Power returns base**exp.
func Power(base Expr, exp int) Expr {
	switch exp {
	case 0:
		return one
	case 1:
		return base
	}
	return &Pow{base: base, exp: exp}
}

// Quo returns a / b as a * b**-1.
func Quo(a, b Expr) Expr { return Mul(a, Power(b, -1)) }

func SinOf(arg Expr) Expr { return &Sin{arg: arg} }

func CosOf(arg Expr) Expr { return &Cos{arg: arg} }

// D returns the unevaluated partial derivative of e with respect to v.
func D(e Expr, v *Var) Expr { return &Derivative{expr: e, wrt: v} }

func (s *Sum) Terms() []Expr { return append([]Expr(nil), s.terms...) }

func (p *Product) Factors() []Expr { return append([]Expr(nil), p.factors...) }

func (p *Pow) Base() Expr { return p.base }
func (p *Pow) Exp() int   { return p.exp }

func (s *Sin) Arg() Expr { return s.arg }
func (c *Cos) Arg() Expr { return c.arg }

func (d *Derivative) Expr() Expr { return d.expr }
func (d *Derivative) Wrt() *Var  { return d.wrt }

// Equal reports whether a - b simplifies to zero.
func Equal(a, b Expr) bool {
	return IsZero(Sub(a, b))
}

// IsZero reports whether e simplifies to the constant 0.
func IsZero(e Expr) bool {
	c, ok := Simplify(e).(*Const)
	return ok && c.IsZero()
}
