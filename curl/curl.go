// Package curl computes the curl, and the curl of the curl, of the vector
// field
//
//	V = sin(x1)*sin(x2)*e0 + sin(x0)*sin(x2)*e1 + sin(x0)*sin(x1)*e2
//
// and renders the three fields for inspection.
package curl

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/notargets/curlcurl/frame"
	"github.com/notargets/curlcurl/symbolic"
)

// Weights of R.x, R.y and R.z in V. x0, x1, x2 are the frame coordinates.
var fieldFormula = [3]string{
	"sin(x1)*sin(x2)",
	"sin(x0)*sin(x2)",
	"sin(x0)*sin(x1)",
}

const DefaultFrameName = "R"

type Options struct {
	FrameName string
	Format    Format
}

func DefaultOptions() Options {
	return Options{FrameName: DefaultFrameName, Format: Text}
}

// Result holds the frame, the field and its two curls.
type Result struct {
	Frame    *frame.ReferenceFrame
	Field    frame.Vector
	Curl     frame.Vector
	CurlCurl frame.Vector
}

// BuildField returns V as a sum of three scalar times basis vector terms.
func BuildField(R *frame.ReferenceFrame) (V frame.Vector, err error) {
	var (
		symbols = R.Symbols()
		w       [3]symbolic.Expr
	)
	for i, src := range fieldFormula {
		if w[i], err = symbolic.Parse(src, symbols); err != nil {
			err = fmt.Errorf("building field component %s: %w", R.BasisName(i), err)
			return
		}
	}
	V = R.X().Scale(w[0]).
		Add(R.Y().Scale(w[1])).
		Add(R.Z().Scale(w[2])).
		Simplify()
	return
}

// CurlOf returns the simplified symbolic curl of v in R.
func CurlOf(v frame.Vector, R *frame.ReferenceFrame) frame.Vector {
	return frame.Curl(v, R)
}

// Compute builds the frame and the field and takes both curls.
func Compute(opts Options, log *zap.Logger) (res *Result, err error) {
	var (
		R     *frame.ReferenceFrame
		V     frame.Vector
		start = time.Now()
	)
	if R, err = frame.NewReferenceFrame(opts.FrameName); err != nil {
		return
	}
	if V, err = BuildField(R); err != nil {
		return
	}
	W := CurlOf(V, R)
	log.Debug("computed curl", zap.Duration("elapsed", time.Since(start)))
	res = &Result{
		Frame:    R,
		Field:    V,
		Curl:     W,
		CurlCurl: CurlOf(W, R),
	}
	log.Debug("computed curl of curl", zap.Duration("elapsed", time.Since(start)))
	return
}

// Run computes the fields and writes them to w in the requested format.
func Run(w io.Writer, opts Options, log *zap.Logger) (res *Result, err error) {
	if res, err = Compute(opts, log); err != nil {
		return
	}
	if err = res.Write(w, opts.Format); err != nil {
		return
	}
	log.Debug("wrote fields", zap.String("frame", res.Frame.Name()), zap.Stringer("format", opts.Format))
	return
}
