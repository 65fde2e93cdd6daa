package symbolic

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Simplify rewrites e into canonical form: a sum of monomials with exact
// rational coefficients, each monomial a sorted product of atoms raised to
// non-zero integer powers. Atoms are variables, sin and cos of canonical
// arguments and, for negative powers only, sums. The rewrite also applies
//
//	sin(0) = 0, cos(0) = 1
//	sin(-u) = -sin(u), cos(-u) = cos(u)
//	cos(u)**2 = 1 - sin(u)**2
//
// and evaluates every Derivative node. A negative power of a sum is cancelled
// against the terms that share it when the sum divides them exactly, so
// (x + y)**2/(x + y) simplifies to x + y. Simplify panics on a negative power
// of an expression that simplifies to zero.
func Simplify(e Expr) Expr {
	return normalPoly(e).expr()
}

func normalPoly(e Expr) poly {
	return toPoly(e).cancelSums()
}

type factor struct {
	atom Expr
	key  string
	exp  int
}

type term struct {
	coef    *big.Rat
	factors []factor
}

type poly map[string]term

const keySep = "\x1f"

func (t term) monoKey() string {
	var sb strings.Builder
	for i, f := range t.factors {
		if i > 0 {
			sb.WriteString(keySep)
		}
		sb.WriteString(f.key)
		sb.WriteByte('^')
		sb.WriteString(strconv.Itoa(f.exp))
	}
	return sb.String()
}

func constPoly(r *big.Rat) poly {
	p := poly{}
	p.addTerm(term{coef: new(big.Rat).Set(r)})
	return p
}

func atomPoly(atom Expr, key string) poly {
	return factorPoly(atom, key, 1)
}

func factorPoly(atom Expr, key string, exp int) poly {
	p := poly{}
	p.addTerm(term{coef: big.NewRat(1, 1), factors: []factor{{atom: atom, key: key, exp: exp}}})
	return p
}

func (p poly) addTerm(t term) {
	if t.coef.Sign() == 0 {
		return
	}
	if i := pythagoreanIndex(t); i >= 0 {
		c := t.factors[i].atom.(*Cos)
		rest := t.withExp(i, t.factors[i].exp-2)
		p.addTerm(rest)
		sin2 := term{
			coef:    big.NewRat(-1, 1),
			factors: []factor{{atom: &Sin{arg: c.arg}, key: sinKey(c.arg), exp: 2}},
		}
		p.addTerm(mulTerms(rest, sin2))
		return
	}
	key := t.monoKey()
	if old, ok := p[key]; ok {
		sum := new(big.Rat).Add(old.coef, t.coef)
		if sum.Sign() == 0 {
			delete(p, key)
			return
		}
		p[key] = term{coef: sum, factors: old.factors}
		return
	}
	p[key] = term{coef: new(big.Rat).Set(t.coef), factors: t.factors}
}

func pythagoreanIndex(t term) int {
	for i, f := range t.factors {
		if _, ok := f.atom.(*Cos); ok && f.exp >= 2 {
			return i
		}
	}
	return -1
}

// withExp returns a copy of t with factor i raised to exp, dropping it when
// exp is zero.
func (t term) withExp(i, exp int) term {
	factors := make([]factor, 0, len(t.factors))
	for j, f := range t.factors {
		if j == i {
			if exp == 0 {
				continue
			}
			f.exp = exp
		}
		factors = append(factors, f)
	}
	return term{coef: t.coef, factors: factors}
}

func mulTerms(a, b term) term {
	var (
		factors = make([]factor, 0, len(a.factors)+len(b.factors))
		i, j    int
	)
	for i < len(a.factors) && j < len(b.factors) {
		fa, fb := a.factors[i], b.factors[j]
		switch {
		case fa.key < fb.key:
			factors = append(factors, fa)
			i++
		case fa.key > fb.key:
			factors = append(factors, fb)
			j++
		default:
			if exp := fa.exp + fb.exp; exp != 0 {
				fa.exp = exp
				factors = append(factors, fa)
			}
			i++
			j++
		}
	}
	factors = append(factors, a.factors[i:]...)
	factors = append(factors, b.factors[j:]...)
	return term{coef: new(big.Rat).Mul(a.coef, b.coef), factors: factors}
}

func (p poly) add(q poly) poly {
	r := poly{}
	for _, t := range p {
		r.addTerm(t)
	}
	for _, t := range q {
		r.addTerm(t)
	}
	return r
}

func (p poly) mul(q poly) poly {
	r := poly{}
	for _, a := range p {
		for _, b := range q {
			r.addTerm(mulTerms(a, b))
		}
	}
	return r
}

func (p poly) neg() poly {
	r := poly{}
	for _, t := range p {
		r.addTerm(term{coef: new(big.Rat).Neg(t.coef), factors: t.factors})
	}
	return r
}

// constant returns the value of p when it has no non-constant terms.
func (p poly) constant() (*big.Rat, bool) {
	switch len(p) {
	case 0:
		return new(big.Rat), true
	case 1:
		if t, ok := p[""]; ok {
			return t.coef, true
		}
	}
	return nil, false
}

func (p poly) sorted() []term {
	terms := make([]term, 0, len(p))
	for _, t := range p {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool { return termLess(terms[i], terms[j]) })
	return terms
}

// termLess orders monomials by their factor keys, higher powers first and
// constants last.
func termLess(a, b term) bool {
	if len(a.factors) == 0 || len(b.factors) == 0 {
		return len(b.factors) == 0 && len(a.factors) != 0
	}
	for k := 0; k < len(a.factors) && k < len(b.factors); k++ {
		fa, fb := a.factors[k], b.factors[k]
		if fa.key != fb.key {
			return fa.key < fb.key
		}
		if fa.exp != fb.exp {
			return fa.exp > fb.exp
		}
	}
	return len(a.factors) < len(b.factors)
}

func (p poly) expr() Expr {
	terms := p.sorted()
	switch len(terms) {
	case 0:
		return zero
	case 1:
		return terms[0].expr()
	}
	exprs := make([]Expr, len(terms))
	for i, t := range terms {
		exprs[i] = t.expr()
	}
	return &Sum{terms: exprs}
}

func (t term) expr() Expr {
	factors := make([]Expr, 0, len(t.factors)+1)
	if len(t.factors) == 0 || t.coef.Cmp(one.val) != 0 {
		factors = append(factors, &Const{val: new(big.Rat).Set(t.coef)})
	}
	for _, f := range t.factors {
		if f.exp == 1 {
			factors = append(factors, f.atom)
		} else {
			factors = append(factors, &Pow{base: f.atom, exp: f.exp})
		}
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return &Product{factors: factors}
}

// Atom keys lead with the atom kind, so a monomial lists its variables, then
// its sines, then its cosines, then its sums, each group by argument.
func varKey(v *Var) string   { return "\x00" + v.name }
func sinKey(arg Expr) string { return "\x01" + arg.String() }
func cosKey(arg Expr) string { return "\x02" + arg.String() }
func sumKey(s *Sum) string   { return "\x03(" + s.String() + ")" }

func toPoly(e Expr) poly {
	switch n := e.(type) {
	case *Const:
		return constPoly(n.val)
	case *Var:
		return atomPoly(n, varKey(n))
	case *Sum:
		p := poly{}
		for _, t := range n.terms {
			p = p.add(toPoly(t))
		}
		return p
	case *Product:
		p := constPoly(one.val)
		for _, f := range n.factors {
			p = p.mul(toPoly(f))
			if len(p) == 0 {
				return p
			}
		}
		return p
	case *Pow:
		return powPoly(toPoly(n.base), n.exp)
	case *Sin:
		arg, negated := canonicalArg(n.arg)
		if arg == nil {
			return poly{}
		}
		p := atomPoly(&Sin{arg: arg}, sinKey(arg))
		if negated {
			return p.neg()
		}
		return p
	case *Cos:
		arg, _ := canonicalArg(n.arg)
		if arg == nil {
			return constPoly(one.val)
		}
		return atomPoly(&Cos{arg: arg}, cosKey(arg))
	case *Derivative:
		return toPoly(diff(n.expr, n.wrt))
	}
	panic("symbolic: unknown expression node")
}

// canonicalArg simplifies a trig argument and flips its sign so the leading
// monomial has a positive coefficient. A nil result means the argument is
// zero.
func canonicalArg(e Expr) (arg Expr, negated bool) {
	p := normalPoly(e)
	if len(p) == 0 {
		return nil, false
	}
	if lead := p.sorted()[0]; lead.coef.Sign() < 0 {
		p = p.neg()
		negated = true
	}
	return p.expr(), negated
}

func powPoly(base poly, exp int) poly {
	if exp >= 0 {
		r := constPoly(one.val)
		for i := 0; i < exp; i++ {
			r = r.mul(base)
		}
		return r
	}
	if c, ok := base.constant(); ok {
		if c.Sign() == 0 {
			panic("symbolic: division by zero")
		}
		inv := new(big.Rat).Inv(c)
		r := constPoly(one.val)
		for i := 0; i < -exp; i++ {
			r = r.mul(constPoly(inv))
		}
		return r
	}
	if len(base) == 1 {
		return powPoly(invertTerm(base.sorted()[0]), -exp)
	}
	s := base.expr().(*Sum)
	return factorPoly(s, sumKey(s), exp)
}

// invertTerm returns 1/t for a single monomial. Sum atoms whose power turns
// positive are expanded.
func invertTerm(t term) poly {
	r := constPoly(new(big.Rat).Inv(t.coef))
	for _, f := range t.factors {
		if s, ok := f.atom.(*Sum); ok && -f.exp > 0 {
			r = r.mul(powPoly(toPoly(s), -f.exp))
			continue
		}
		r = r.mul(factorPoly(f.atom, f.key, -f.exp))
	}
	return r
}

// cancelSums repeatedly replaces a group of terms S**k * Q, k < 0, with
// S**(k+1) * (Q/S) wherever the sum S divides Q exactly.
func (p poly) cancelSums() poly {
	for {
		q, ok := p.cancelOneSum()
		if !ok {
			return p
		}
		p = q
	}
}

func (p poly) cancelOneSum() (poly, bool) {
	for _, t := range p.sorted() {
		for _, f := range t.factors {
			s, isSum := f.atom.(*Sum)
			if !isSum || f.exp >= 0 {
				continue
			}
			var (
				rest  = poly{}
				group = poly{}
			)
			for _, u := range p {
				if i := u.factorIndex(f.key); i >= 0 && u.factors[i].exp == f.exp {
					group.addTerm(u.withExp(i, 0))
				} else {
					rest.addTerm(u)
				}
			}
			quot, ok := divide(group, toPoly(s))
			if !ok {
				continue
			}
			if f.exp+1 != 0 {
				quot = quot.mul(factorPoly(s, f.key, f.exp+1))
			}
			return rest.add(quot), true
		}
	}
	return nil, false
}

func (t term) factorIndex(key string) int {
	for i, f := range t.factors {
		if f.key == key {
			return i
		}
	}
	return -1
}

// divide returns num/den when den divides num exactly. Both must be
// polynomials in their atoms, with no negative powers.
func divide(num, den poly) (quot poly, ok bool) {
	if len(den) == 0 || !num.polynomial() || !den.polynomial() {
		return nil, false
	}
	var (
		lead = den.lead()
		rem  = num.add(poly{})
	)
	quot = poly{}
	for len(rem) > 0 {
		top := rem.lead()
		m, divisible := divideTerm(top, lead)
		if !divisible {
			return nil, false
		}
		quot.addTerm(m)
		step := poly{}
		step.addTerm(m)
		rem = rem.add(den.mul(step).neg())
		// the cos**2 rewrite may reorder terms, stop unless the lead falls
		if len(rem) > 0 && monoCmp(rem.lead(), top) >= 0 {
			return nil, false
		}
	}
	return quot, true
}

func (p poly) polynomial() bool {
	for _, t := range p {
		for _, f := range t.factors {
			if f.exp < 0 {
				return false
			}
		}
	}
	return true
}

// lead returns the greatest monomial of p in lexicographic order.
func (p poly) lead() (top term) {
	first := true
	for _, t := range p {
		if first || monoCmp(t, top) > 0 {
			top, first = t, false
		}
	}
	return
}

// monoCmp compares the monomials of a and b lexicographically by exponent,
// atoms taken in key order. Exponents must be positive.
func monoCmp(a, b term) int {
	for k := 0; ; k++ {
		switch {
		case k == len(a.factors) && k == len(b.factors):
			return 0
		case k == len(a.factors):
			return -1
		case k == len(b.factors):
			return 1
		}
		fa, fb := a.factors[k], b.factors[k]
		switch {
		case fa.key < fb.key:
			return 1
		case fa.key > fb.key:
			return -1
		case fa.exp > fb.exp:
			return 1
		case fa.exp < fb.exp:
			return -1
		}
	}
}

// divideTerm returns a/b when every atom of b appears in a to at least the
// same power.
func divideTerm(a, b term) (q term, ok bool) {
	var j int
	q.coef = new(big.Rat).Quo(a.coef, b.coef)
	for _, f := range a.factors {
		if j < len(b.factors) && b.factors[j].key == f.key {
			f.exp -= b.factors[j].exp
			j++
			if f.exp < 0 {
				return term{}, false
			}
			if f.exp == 0 {
				continue
			}
		}
		q.factors = append(q.factors, f)
	}
	return q, j == len(b.factors)
}
