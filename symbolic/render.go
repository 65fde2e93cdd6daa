package symbolic

import (
	"math/big"
	"strconv"
	"strings"
)

// String renders expressions in a plain notation: "*" for products, "**"
// for powers and " + " / " - " between the terms of a sum, for example
// "sin(R_x)*cos(R_y) - sin(R_x)*cos(R_z)".

func (c *Const) String() string {
	if c.val.IsInt() {
		return c.val.Num().String()
	}
	return c.val.RatString()
}

func (v *Var) String() string { return v.name }

func (s *Sum) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return joinTerms(parts)
}

func (p *Product) String() string {
	coef, rest := splitCoef(p.factors)
	parts := make([]string, len(rest))
	for i, f := range rest {
		parts[i] = factorString(f)
	}
	body := strings.Join(parts, "*")
	neg := coef.Sign() < 0
	num := new(big.Int).Abs(coef.Num())
	if num.Cmp(big.NewInt(1)) != 0 {
		body = num.String() + "*" + body
	}
	if !coef.IsInt() {
		body += "/" + coef.Denom().String()
	}
	if neg {
		return "-" + body
	}
	return body
}

func (p *Pow) String() string {
	exp := strconv.Itoa(p.exp)
	if p.exp < 0 {
		exp = "(" + exp + ")"
	}
	return powerBase(p.base, p.base.String(), "(", ")") + "**" + exp
}

func (s *Sin) String() string { return "sin(" + s.arg.String() + ")" }

func (c *Cos) String() string { return "cos(" + c.arg.String() + ")" }

func (d *Derivative) String() string {
	return "Derivative(" + d.expr.String() + ", " + d.wrt.name + ")"
}

func (c *Const) LaTeX() string {
	if c.val.IsInt() {
		return c.val.Num().String()
	}
	sign := ""
	if c.val.Sign() < 0 {
		sign = "-"
	}
	return sign + `\frac{` + new(big.Int).Abs(c.val.Num()).String() + "}{" + c.val.Denom().String() + "}"
}

// LaTeX renders "R_x" as "R_{x}".
func (v *Var) LaTeX() string {
	base, sub, ok := strings.Cut(v.name, "_")
	if !ok || sub == "" {
		return v.name
	}
	return base + "_{" + sub + "}"
}

func (s *Sum) LaTeX() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.LaTeX()
	}
	return joinTerms(parts)
}

func (p *Product) LaTeX() string {
	coef, rest := splitCoef(p.factors)
	parts := make([]string, len(rest))
	for i, f := range rest {
		if _, ok := f.(*Sum); ok {
			parts[i] = `\left(` + f.LaTeX() + `\right)`
			continue
		}
		parts[i] = f.LaTeX()
	}
	body := strings.Join(parts, " ")
	abs := new(big.Rat).Abs(coef)
	if abs.Cmp(one.val) != 0 {
		body = (&Const{val: abs}).LaTeX() + " " + body
	}
	if coef.Sign() < 0 {
		return "-" + body
	}
	return body
}

func (p *Pow) LaTeX() string {
	return powerBase(p.base, p.base.LaTeX(), `\left(`, `\right)`) + "^{" + strconv.Itoa(p.exp) + "}"
}

func (s *Sin) LaTeX() string { return `\sin\left(` + s.arg.LaTeX() + `\right)` }

func (c *Cos) LaTeX() string { return `\cos\left(` + c.arg.LaTeX() + `\right)` }

func (d *Derivative) LaTeX() string {
	return `\frac{\partial}{\partial ` + d.wrt.LaTeX() + `}\left(` + d.expr.LaTeX() + `\right)`
}

func joinTerms(parts []string) string {
	var sb strings.Builder
	for i, s := range parts {
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// splitCoef separates a leading constant factor from the rest of a product.
func splitCoef(factors []Expr) (coef *big.Rat, rest []Expr) {
	if c, ok := factors[0].(*Const); ok && len(factors) > 1 {
		return c.val, factors[1:]
	}
	return one.val, factors
}

func factorString(f Expr) string {
	switch n := f.(type) {
	case *Sum:
		return "(" + n.String() + ")"
	case *Const:
		if n.val.Sign() < 0 || !n.val.IsInt() {
			return "(" + n.String() + ")"
		}
	}
	return f.String()
}

func powerBase(base Expr, s, open, close string) string {
	switch n := base.(type) {
	case *Sum, *Product, *Pow:
		return open + s + close
	case *Const:
		if n.val.Sign() < 0 || !n.val.IsInt() {
			return open + s + close
		}
	}
	return s
}
