// Package frame provides an orthonormal right-handed Cartesian reference
// frame and symbolic vector fields expressed in it.
package frame

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/notargets/curlcurl/symbolic"
)

var ErrFrameName = errors.New("frame: invalid frame name")

var (
	frameName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	axisNames = [3]string{"x", "y", "z"}
)

// ReferenceFrame named R has coordinate variables R_x, R_y, R_z and unit
// basis vectors R.x, R.y, R.z.
type ReferenceFrame struct {
	name   string
	coords [3]*symbolic.Var
}

func NewReferenceFrame(name string) (R *ReferenceFrame, err error) {
	if !frameName.MatchString(name) {
		err = fmt.Errorf("%w: %q", ErrFrameName, name)
		return
	}
	R = &ReferenceFrame{name: name}
	for i, axis := range axisNames {
		R.coords[i] = symbolic.NewVar(name + "_" + axis)
	}
	return
}

func (R *ReferenceFrame) Name() string { return R.name }

// Coord returns the i-th coordinate variable, i in 0..2.
func (R *ReferenceFrame) Coord(i int) *symbolic.Var { return R.coords[i] }

func (R *ReferenceFrame) Coords() [3]*symbolic.Var { return R.coords }

// BasisName returns the printed name of the i-th unit vector, e.g. "R.x".
func (R *ReferenceFrame) BasisName(i int) string { return R.name + "." + axisNames[i] }

func (R *ReferenceFrame) basisLaTeX(i int) string {
	return `\hat{` + R.name + `}_{` + axisNames[i] + `}`
}

// Symbols returns the names a formula may use for the coordinates: the
// frame's own names (R_x, R_y, R_z) and the positional aliases x0, x1, x2.
func (R *ReferenceFrame) Symbols() map[string]*symbolic.Var {
	m := make(map[string]*symbolic.Var, 6)
	for i, c := range R.coords {
		m[c.Name()] = c
		m[fmt.Sprintf("x%d", i)] = c
	}
	return m
}

// Basis returns the i-th unit vector.
func (R *ReferenceFrame) Basis(i int) Vector {
	v := Zero(R)
	v.comp[i] = symbolic.Int(1)
	return v
}

func (R *ReferenceFrame) X() Vector { return R.Basis(0) }
func (R *ReferenceFrame) Y() Vector { return R.Basis(1) }
func (R *ReferenceFrame) Z() Vector { return R.Basis(2) }

// Env binds the frame's coordinates to a point.
func (R *ReferenceFrame) Env(point [3]float64) symbolic.Env {
	env := make(symbolic.Env, 3)
	for i, c := range R.coords {
		env[c.Name()] = point[i]
	}
	return env
}
