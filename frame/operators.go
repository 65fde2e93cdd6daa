package frame

import (
	"github.com/notargets/curlcurl/symbolic"
)

// Curl returns the simplified curl of v with respect to R:
//
//	(dVz/dy - dVy/dz) R.x + (dVx/dz - dVz/dx) R.y + (dVy/dx - dVx/dy) R.z
func Curl(v Vector, R *ReferenceFrame) Vector {
	v.mustBeIn(R)
	var (
		c = R.coords
		d = func(i, j int) symbolic.Expr { return symbolic.D(v.comp[i], c[j]) }
	)
	return NewVector(R,
		symbolic.Sub(d(2, 1), d(1, 2)),
		symbolic.Sub(d(0, 2), d(2, 0)),
		symbolic.Sub(d(1, 0), d(0, 1)),
	).Simplify()
}

// Divergence returns the simplified scalar dVx/dx + dVy/dy + dVz/dz.
func Divergence(v Vector, R *ReferenceFrame) symbolic.Expr {
	v.mustBeIn(R)
	terms := make([]symbolic.Expr, 3)
	for i, c := range R.coords {
		terms[i] = symbolic.D(v.comp[i], c)
	}
	return symbolic.Simplify(symbolic.Add(terms...))
}

func Gradient(f symbolic.Expr, R *ReferenceFrame) Vector {
	c := R.coords
	return NewVector(R,
		symbolic.D(f, c[0]),
		symbolic.D(f, c[1]),
		symbolic.D(f, c[2]),
	).Simplify()
}

// ScalarLaplacian returns the sum of the unmixed second partials of f.
func ScalarLaplacian(f symbolic.Expr, R *ReferenceFrame) symbolic.Expr {
	terms := make([]symbolic.Expr, 3)
	for i, c := range R.coords {
		terms[i] = symbolic.D(symbolic.D(f, c), c)
	}
	return symbolic.Simplify(symbolic.Add(terms...))
}

// Laplacian is the vector Laplacian, taken componentwise since the frame is
// Cartesian.
func Laplacian(v Vector, R *ReferenceFrame) Vector {
	v.mustBeIn(R)
	return NewVector(R,
		ScalarLaplacian(v.comp[0], R),
		ScalarLaplacian(v.comp[1], R),
		ScalarLaplacian(v.comp[2], R),
	)
}
