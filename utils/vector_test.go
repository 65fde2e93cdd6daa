package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestVector(t *testing.T) {
	v := NewVec3([3]float64{1, 2, 3})
	require.Equal(t, 3, v.Len())
	assert.Equal(t, []float64{1, 2, 3}, VecGetF64(v))

	w := NewVec3([3]float64{1, 2.5, 1})
	assert.Equal(t, 2., VecMaxAbsDiff(v, w))
	assert.Panics(t, func() { VecMaxAbsDiff(v, mat.NewVecDense(2, nil)) })
}

func TestCurlFromJacobian(t *testing.T) {
	// F = (-y, x, 0) has J = [[0,-1,0],[1,0,0],[0,0,0]] and curl (0,0,2)
	J := mat.NewDense(3, 3, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 0,
	})
	assert.Equal(t, []float64{0, 0, 2}, VecGetF64(CurlFromJacobian(J)))
	// A symmetric Jacobian (a gradient field) has no curl.
	S := mat.NewSymDense(3, []float64{
		1, 2, 3,
		2, 4, 5,
		3, 5, 6,
	})
	assert.Equal(t, []float64{0, 0, 0}, VecGetF64(CurlFromJacobian(S)))
	assert.Panics(t, func() { CurlFromJacobian(mat.NewDense(2, 3, nil)) })
}

func TestConvergenceOrder(t *testing.T) {
	assert.InDelta(t, 2., ConvergenceOrder(4e-4, 1e-4, 0.2, 0.1), 1e-12)
	assert.InDelta(t, 1., ConvergenceOrder(0.5, 0.25, 1, 0.5), 1e-12)
	assert.True(t, math.IsNaN(ConvergenceOrder(0, 0, 1, 0.5)))
}
