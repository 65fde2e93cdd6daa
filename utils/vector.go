package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func NewVec3(a [3]float64) (V *mat.VecDense) {
	V = mat.NewVecDense(3, []float64{a[0], a[1], a[2]})
	return
}

func VecGetF64(v mat.Vector) (r []float64) {
	r = make([]float64, v.Len())
	for i := 0; i < v.Len(); i++ {
		r[i] = v.AtVec(i)
	}
	return
}

// VecMaxAbsDiff returns max_i |a_i - b_i|.
func VecMaxAbsDiff(a, b mat.Vector) (d float64) {
	if a.Len() != b.Len() {
		panic("vector length mismatch")
	}
	d = floats.Distance(VecGetF64(a), VecGetF64(b), math.Inf(1))
	return
}

// CurlFromJacobian returns the curl of a field from its 3x3 Jacobian,
// J(i,j) = dF_i/dx_j.
func CurlFromJacobian(J mat.Matrix) (C *mat.VecDense) {
	var (
		nr, nc = J.Dims()
	)
	if nr != 3 || nc != 3 {
		panic("curl requires a 3x3 Jacobian")
	}
	C = mat.NewVecDense(3, []float64{
		J.At(2, 1) - J.At(1, 2),
		J.At(0, 2) - J.At(2, 0),
		J.At(1, 0) - J.At(0, 1),
	})
	return
}

// ConvergenceOrder is the observed order of accuracy between two errors
// measured at resolutions h1 and h2.
func ConvergenceOrder(e1, e2, h1, h2 float64) (p float64) {
	p = math.Log(e1/e2) / math.Log(h1/h2)
	return
}
