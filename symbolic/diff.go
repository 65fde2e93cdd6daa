package symbolic

// Diff returns the simplified partial derivative of e with respect to v.
func Diff(e Expr, v *Var) Expr {
	return Simplify(diff(e, v))
}

// diff applies the sum, product, power and chain rules without simplifying.
func diff(e Expr, v *Var) Expr {
	switch n := e.(type) {
	case *Const:
		return zero
	case *Var:
		if n.name == v.name {
			return one
		}
		return zero
	case *Sum:
		terms := make([]Expr, len(n.terms))
		for i, t := range n.terms {
			terms[i] = diff(t, v)
		}
		return Add(terms...)
	case *Product:
		terms := make([]Expr, len(n.factors))
		for i := range n.factors {
			factors := append([]Expr(nil), n.factors...)
			factors[i] = diff(n.factors[i], v)
			terms[i] = Mul(factors...)
		}
		return Add(terms...)
	case *Pow:
		if n.exp == 0 {
			return zero
		}
		return Mul(Int(int64(n.exp)), Power(n.base, n.exp-1), diff(n.base, v))
	case *Sin:
		return Mul(CosOf(n.arg), diff(n.arg, v))
	case *Cos:
		return Mul(Int(-1), SinOf(n.arg), diff(n.arg, v))
	case *Derivative:
		return diff(diff(n.expr, n.wrt), v)
	}
	panic("symbolic: unknown expression node")
}
