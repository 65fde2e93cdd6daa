package verify

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/hyperdual"

	"github.com/notargets/curlcurl/frame"
	"github.com/notargets/curlcurl/symbolic"
	"github.com/notargets/curlcurl/utils"
)

// Field is a vector valued function of a point.
type Field func(x [3]float64) [3]float64

// FieldOf evaluates v numerically. v must only depend on its frame's
// coordinates.
func FieldOf(v frame.Vector) (F Field, err error) {
	if _, err = v.Eval([3]float64{}); err != nil {
		return
	}
	F = func(x [3]float64) [3]float64 {
		r, _ := v.Eval(x)
		return r
	}
	return
}

// FiniteDifferenceCurl approximates curl F at x from a central difference
// Jacobian. A zero step uses gonum's default for the central formula.
func FiniteDifferenceCurl(F Field, x [3]float64, step float64, concurrent bool) (C *mat.VecDense) {
	var (
		J = mat.NewDense(3, 3, nil)
	)
	fd.Jacobian(J, func(y, xs []float64) {
		r := F([3]float64{xs[0], xs[1], xs[2]})
		copy(y, r[:])
	}, x[:], &fd.JacobianSettings{
		Formula:    fd.Central,
		Step:       step,
		Concurrent: concurrent,
	})
	C = utils.CurlFromJacobian(J)
	return
}

func dualEnv(R *frame.ReferenceFrame, x [3]float64, e1, e2 int) symbolic.DualEnv {
	env := make(symbolic.DualEnv, 3)
	for i, c := range R.Coords() {
		n := hyperdual.Number{Real: x[i]}
		if i == e1 {
			n.E1mag = 1
		}
		if i == e2 {
			n.E2mag = 1
		}
		env[c.Name()] = n
	}
	return env
}

// DualJacobian returns J(i,j) = dv_i/dx_j at x, exact to rounding, by
// evaluating v on hyperdual numbers.
func DualJacobian(v frame.Vector, x [3]float64) (J *mat.Dense, err error) {
	var (
		R = v.Frame()
		n hyperdual.Number
	)
	J = mat.NewDense(3, 3, nil)
	for j := 0; j < 3; j++ {
		env := dualEnv(R, x, j, -1)
		for i, c := range v.Components() {
			if n, err = symbolic.EvalDual(c, env); err != nil {
				return
			}
			J.Set(i, j, n.E1mag)
		}
	}
	return
}

func DualCurl(v frame.Vector, x [3]float64) (C *mat.VecDense, err error) {
	var J *mat.Dense
	if J, err = DualJacobian(v, x); err != nil {
		return
	}
	C = utils.CurlFromJacobian(J)
	return
}

// DualCurlCurl returns curl curl v at x as grad(div v) - lap v, built from
// the second partials of v obtained on hyperdual numbers.
func DualCurlCurl(v frame.Vector, x [3]float64) (C *mat.VecDense, err error) {
	var (
		R    = v.Frame()
		comp = v.Components()
		// H[i] is the Hessian of component i
		H [3]*mat.SymDense
		n hyperdual.Number
	)
	for i := range H {
		H[i] = mat.NewSymDense(3, nil)
	}
	for j := 0; j < 3; j++ {
		for k := j; k < 3; k++ {
			env := dualEnv(R, x, j, k)
			for i, c := range comp {
				if n, err = symbolic.EvalDual(c, env); err != nil {
					return
				}
				H[i].SetSym(j, k, n.E1E2mag)
			}
		}
	}
	C = mat.NewVecDense(3, nil)
	for i := 0; i < 3; i++ {
		var graddiv, lap float64
		for j := 0; j < 3; j++ {
			graddiv += H[j].At(i, j)
			lap += H[i].At(j, j)
		}
		C.SetVec(i, graddiv-lap)
	}
	return
}
