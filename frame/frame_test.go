package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/curlcurl/symbolic"
)

func newFrame(t *testing.T) *ReferenceFrame {
	R, err := NewReferenceFrame("R")
	require.NoError(t, err)
	return R
}

func TestNewReferenceFrame(t *testing.T) {
	R := newFrame(t)
	assert.Equal(t, "R_x", R.Coord(0).Name())
	assert.Equal(t, "R_z", R.Coord(2).Name())
	assert.Equal(t, "R.y", R.BasisName(1))
	assert.Same(t, R.Coord(1), R.Symbols()["x1"])
	assert.Same(t, R.Coord(1), R.Symbols()["R_y"])

	for _, name := range []string{"", "1R", "R.x", "R_"} {
		_, err := NewReferenceFrame(name)
		assert.True(t, errors.Is(err, ErrFrameName), name)
	}
}

func TestVectorString(t *testing.T) {
	var (
		R    = newFrame(t)
		x, y = R.Coord(0), R.Coord(1)
	)
	assert.Equal(t, "0", Zero(R).String())
	assert.Equal(t, "R.x + R.y - R.z", R.X().Add(R.Y()).Sub(R.Z()).String())
	v := R.X().Scale(symbolic.Sub(symbolic.SinOf(x), symbolic.CosOf(y))).
		Add(R.Y().Scale(symbolic.Neg(symbolic.SinOf(x)))).
		Add(R.Z().Scale(symbolic.Int(2)))
	assert.Equal(t, "(sin(R_x) - cos(R_y))*R.x - sin(R_x)*R.y + 2*R.z", v.String())
	assert.Equal(t, `\left(\sin\left(R_{x}\right) - \cos\left(R_{y}\right)\right) \hat{R}_{x} - \sin\left(R_{x}\right) \hat{R}_{y} + 2 \hat{R}_{z}`, v.LaTeX())
}

func TestVectorAlgebra(t *testing.T) {
	var (
		R       = newFrame(t)
		x, y, z = R.Coord(0), R.Coord(1), R.Coord(2)
		a       = NewVector(R, symbolic.Mul(x, y), symbolic.SinOf(z), symbolic.Int(1))
		b       = NewVector(R, symbolic.Neg(symbolic.Mul(y, x)), symbolic.Int(0), symbolic.CosOf(x))
	)
	sum := a.Add(b)
	assert.True(t, symbolic.IsZero(sum.Component(0)))
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, a.Scale(symbolic.Int(2)).Equal(a.Add(a)))
	assert.False(t, a.Equal(b))

	S, err := NewReferenceFrame("S")
	require.NoError(t, err)
	assert.Panics(t, func() { a.Add(S.X()) })
	assert.Panics(t, func() { Curl(a, S) })
}

func TestVectorEval(t *testing.T) {
	var (
		R    = newFrame(t)
		x, z = R.Coord(0), R.Coord(2)
		v    = NewVector(R, symbolic.SinOf(x), symbolic.Int(3), symbolic.Mul(x, z))
	)
	r, err := v.Eval([3]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, math.Sin(1), r[0], 1e-15)
	assert.Equal(t, 3., r[1])
	assert.Equal(t, 3., r[2])

	stray := NewVector(R, symbolic.NewVar("q"), symbolic.Int(0), symbolic.Int(0))
	_, err = stray.Eval([3]float64{})
	assert.True(t, errors.Is(err, symbolic.ErrUnbound))
}

func TestOperatorIdentities(t *testing.T) {
	var (
		R       = newFrame(t)
		x, y, z = R.Coord(0), R.Coord(1), R.Coord(2)
		f       = symbolic.Mul(symbolic.SinOf(symbolic.Mul(x, y)), symbolic.CosOf(z), symbolic.Power(x, 2))
		v       = NewVector(R,
			symbolic.Mul(symbolic.CosOf(x), symbolic.SinOf(y)),
			symbolic.Mul(x, z, symbolic.SinOf(z)),
			symbolic.Power(symbolic.CosOf(y), 3),
		)
	)
	// curl grad f = 0
	assert.True(t, Curl(Gradient(f, R), R).IsZero())
	// div curl v = 0
	assert.True(t, symbolic.IsZero(Divergence(Curl(v, R), R)))
	// curl curl v = grad div v - lap v
	assert.True(t, Curl(Curl(v, R), R).Equal(Gradient(Divergence(v, R), R).Sub(Laplacian(v, R))))
	// div grad f = lap f
	assert.True(t, symbolic.Equal(Divergence(Gradient(f, R), R), ScalarLaplacian(f, R)))
}

func TestCurlOfRotation(t *testing.T) {
	var (
		R    = newFrame(t)
		x, y = R.Coord(0), R.Coord(1)
		// rigid rotation about z: (-y, x, 0)
		v = NewVector(R, symbolic.Neg(y), x, symbolic.Int(0))
	)
	assert.Equal(t, "2*R.z", Curl(v, R).String())
	assert.Equal(t, "0", Divergence(v, R).String())
}
