package symbolic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/hyperdual"
)

// ErrUnbound is returned when an expression is evaluated without a value for
// one of its variables.
var ErrUnbound = errors.New("symbolic: unbound variable")

// Env binds variable names to values.
type Env map[string]float64

// Eval evaluates e in double precision.
func Eval(e Expr, env Env) (float64, error) {
	switch n := e.(type) {
	case *Const:
		return n.Float64(), nil
	case *Var:
		x, ok := env[n.name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnbound, n.name)
		}
		return x, nil
	case *Sum:
		var acc float64
		for _, t := range n.terms {
			x, err := Eval(t, env)
			if err != nil {
				return 0, err
			}
			acc += x
		}
		return acc, nil
	case *Product:
		acc := 1.
		for _, f := range n.factors {
			x, err := Eval(f, env)
			if err != nil {
				return 0, err
			}
			acc *= x
		}
		return acc, nil
	case *Pow:
		x, err := Eval(n.base, env)
		if err != nil {
			return 0, err
		}
		return powi(x, n.exp), nil
	case *Sin:
		x, err := Eval(n.arg, env)
		if err != nil {
			return 0, err
		}
		return math.Sin(x), nil
	case *Cos:
		x, err := Eval(n.arg, env)
		if err != nil {
			return 0, err
		}
		return math.Cos(x), nil
	case *Derivative:
		return Eval(diff(n.expr, n.wrt), env)
	}
	panic("symbolic: unknown expression node")
}

// powi is x**n by repeated squaring.
func powi(x float64, n int) (y float64) {
	if n < 0 {
		return 1 / powi(x, -n)
	}
	y = 1
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			y *= x
		}
		x *= x
	}
	return
}

// DualEnv binds variable names to hyperdual numbers.
type DualEnv map[string]hyperdual.Number

// EvalDual evaluates e over hyperdual numbers. Seeding a variable with
// E1mag = 1 yields the first partial derivative in the E1 part of the result;
// seeding a second variable with E2mag = 1 yields the mixed second partial in
// the E1E2 part.
func EvalDual(e Expr, env DualEnv) (hyperdual.Number, error) {
	switch n := e.(type) {
	case *Const:
		return hyperdual.Number{Real: n.Float64()}, nil
	case *Var:
		x, ok := env[n.name]
		if !ok {
			return hyperdual.Number{}, fmt.Errorf("%w: %s", ErrUnbound, n.name)
		}
		return x, nil
	case *Sum:
		var acc hyperdual.Number
		for _, t := range n.terms {
			x, err := EvalDual(t, env)
			if err != nil {
				return hyperdual.Number{}, err
			}
			acc = hyperdual.Add(acc, x)
		}
		return acc, nil
	case *Product:
		acc := hyperdual.Number{Real: 1}
		for _, f := range n.factors {
			x, err := EvalDual(f, env)
			if err != nil {
				return hyperdual.Number{}, err
			}
			acc = hyperdual.Mul(acc, x)
		}
		return acc, nil
	case *Pow:
		x, err := EvalDual(n.base, env)
		if err != nil {
			return hyperdual.Number{}, err
		}
		return dualPowi(x, n.exp), nil
	case *Sin:
		x, err := EvalDual(n.arg, env)
		if err != nil {
			return hyperdual.Number{}, err
		}
		return hyperdual.Sin(x), nil
	case *Cos:
		x, err := EvalDual(n.arg, env)
		if err != nil {
			return hyperdual.Number{}, err
		}
		return hyperdual.Cos(x), nil
	case *Derivative:
		return EvalDual(diff(n.expr, n.wrt), env)
	}
	panic("symbolic: unknown expression node")
}

func dualPowi(x hyperdual.Number, n int) hyperdual.Number {
	if n < 0 {
		return hyperdual.Inv(dualPowi(x, -n))
	}
	y := hyperdual.Number{Real: 1}
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			y = hyperdual.Mul(y, x)
		}
		x = hyperdual.Mul(x, x)
	}
	return y
}
