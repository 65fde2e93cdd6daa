package frame

import (
	"strings"

	"github.com/notargets/curlcurl/symbolic"
)

// Vector is a symbolic vector field c0*R.x + c1*R.y + c2*R.z. Values are
// immutable; every operation returns a new Vector.
type Vector struct {
	frame *ReferenceFrame
	comp  [3]symbolic.Expr
}

func NewVector(R *ReferenceFrame, c0, c1, c2 symbolic.Expr) Vector {
	return Vector{frame: R, comp: [3]symbolic.Expr{c0, c1, c2}}
}

func Zero(R *ReferenceFrame) Vector {
	return NewVector(R, symbolic.Int(0), symbolic.Int(0), symbolic.Int(0))
}

func (v Vector) Frame() *ReferenceFrame { return v.frame }

func (v Vector) Component(i int) symbolic.Expr { return v.comp[i] }

func (v Vector) Components() [3]symbolic.Expr { return v.comp }

func (v Vector) mustMatch(w Vector) { v.mustBeIn(w.frame) }

func (v Vector) mustBeIn(R *ReferenceFrame) {
	if v.frame != R {
		panic("frame: vector expressed in a different frame")
	}
}

func (v Vector) Add(w Vector) Vector {
	v.mustMatch(w)
	var r Vector
	r.frame = v.frame
	for i := range r.comp {
		r.comp[i] = symbolic.Add(v.comp[i], w.comp[i])
	}
	return r
}

func (v Vector) Sub(w Vector) Vector {
	return v.Add(w.Scale(symbolic.Int(-1)))
}

// Scale multiplies every component by the scalar expression s.
func (v Vector) Scale(s symbolic.Expr) Vector {
	var r Vector
	r.frame = v.frame
	for i := range r.comp {
		r.comp[i] = symbolic.Mul(s, v.comp[i])
	}
	return r
}

func (v Vector) Simplify() Vector {
	var r Vector
	r.frame = v.frame
	for i := range r.comp {
		r.comp[i] = symbolic.Simplify(v.comp[i])
	}
	return r
}

// Equal reports whether every component of v - w simplifies to zero.
func (v Vector) Equal(w Vector) bool {
	v.mustMatch(w)
	for i := range v.comp {
		if !symbolic.Equal(v.comp[i], w.comp[i]) {
			return false
		}
	}
	return true
}

func (v Vector) IsZero() bool {
	for _, c := range v.comp {
		if !symbolic.IsZero(c) {
			return false
		}
	}
	return true
}

// Eval evaluates the field at a point given in the frame's coordinates.
func (v Vector) Eval(point [3]float64) (r [3]float64, err error) {
	env := v.frame.Env(point)
	for i, c := range v.comp {
		if r[i], err = symbolic.Eval(c, env); err != nil {
			return
		}
	}
	return
}

// String renders the simplified field as, for example,
// "(sin(R_x)*cos(R_y) - sin(R_x)*cos(R_z))*R.x + sin(R_y)*R.z".
func (v Vector) String() string {
	return v.render(symbolic.Expr.String, v.frame.BasisName, "(", ")", "*")
}

func (v Vector) LaTeX() string {
	return v.render(symbolic.Expr.LaTeX, v.frame.basisLaTeX, `\left(`, `\right)`, " ")
}

func (v Vector) render(str func(symbolic.Expr) string, basis func(int) string, open, close, times string) string {
	var parts []string
	for i, c := range v.comp {
		c = symbolic.Simplify(c)
		var s string
		switch n := c.(type) {
		case *symbolic.Const:
			switch n.String() {
			case "0":
				continue
			case "1":
				s = basis(i)
			case "-1":
				s = "-" + basis(i)
			default:
				s = str(c) + times + basis(i)
			}
		case *symbolic.Sum:
			s = open + str(c) + close + times + basis(i)
		default:
			s = str(c) + times + basis(i)
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "0"
	}
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
