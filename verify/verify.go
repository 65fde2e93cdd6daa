// Package verify cross-checks the symbolic curls numerically: against
// central finite differences, against exact derivatives on hyperdual
// numbers, against the identity curl curl V = grad div V - lap V, and at the
// origin where every field of this problem vanishes.
package verify

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/curlcurl/curl"
	"github.com/notargets/curlcurl/frame"
	"github.com/notargets/curlcurl/utils"
)

// ErrMismatch marks a check whose error exceeded the tolerance.
var ErrMismatch = errors.New("verify: mismatch")

type Params struct {
	Points     [][3]float64
	Tolerance  float64
	Step       float64 // finite difference step, 0 selects gonum's default
	Concurrent bool
}

func DefaultParams() Params {
	return Params{
		Points:    [][3]float64{{1, 2, 3}},
		Tolerance: 1e-6,
		Step:      1e-5,
	}
}

type Outcome struct {
	Check    string    `json:"check"`
	Point    []float64 `json:"point,omitempty"`
	MaxError float64   `json:"maxError"`
	Passed   bool      `json:"passed"`
}

type Report struct {
	Tolerance float64   `json:"tolerance"`
	Outcomes  []Outcome `json:"outcomes"`
}

func (r *Report) Passed() bool {
	for _, o := range r.Outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// Check runs every cross-check on res. All failures are reported together
// in the returned error; each one wraps ErrMismatch. Evaluation errors abort
// the run.
func Check(res *curl.Result, p Params, log *zap.Logger) (rep *Report, err error) {
	var (
		R      = res.Frame
		merr   *multierror.Error
		fields = res.Fields()
	)
	rep = &Report{Tolerance: p.Tolerance}
	record := func(o Outcome) {
		rep.Outcomes = append(rep.Outcomes, o)
		log.Debug("check", zap.String("check", o.Check), zap.Float64s("point", o.Point),
			zap.Float64("maxError", o.MaxError), zap.Bool("passed", o.Passed))
		switch {
		case o.Passed:
		case o.Point == nil:
			merr = multierror.Append(merr, fmt.Errorf("%s does not hold: %w", o.Check, ErrMismatch))
		default:
			merr = multierror.Append(merr, fmt.Errorf("%s at %v: max error %.3g exceeds %.3g: %w",
				o.Check, o.Point, o.MaxError, p.Tolerance, ErrMismatch))
		}
	}
	numeric := func(o Outcome) {
		o.Passed = o.MaxError <= p.Tolerance
		record(o)
	}

	identity := frame.Gradient(frame.Divergence(res.Field, R), R).Sub(frame.Laplacian(res.Field, R))
	record(Outcome{Check: "curl curl V = grad div V - lap V", Passed: res.CurlCurl.Equal(identity)})

	for i, v := range fields {
		var r [3]float64
		if r, err = v.Eval([3]float64{}); err != nil {
			return
		}
		numeric(Outcome{
			Check:    curl.Labels[i] + " at origin",
			Point:    []float64{0, 0, 0},
			MaxError: utils.VecMaxAbsDiff(utils.NewVec3(r), mat.NewVecDense(3, nil)),
		})
	}

	var perPoint [][]Outcome
	if perPoint, err = checkPoints(res, p); err != nil {
		return
	}
	for _, outcomes := range perPoint {
		for _, o := range outcomes {
			numeric(o)
		}
	}
	log.Debug("verification finished", zap.Int("checks", len(rep.Outcomes)), zap.Bool("passed", rep.Passed()))
	err = merr.ErrorOrNil()
	return
}

// checkPoints measures the numeric checks at every sample point. With
// p.Concurrent the points are split over one worker per CPU.
func checkPoints(res *curl.Result, p Params) (perPoint [][]Outcome, err error) {
	var (
		np   = 1
		errs = make([]error, len(p.Points))
		wg   sync.WaitGroup
	)
	if p.Concurrent {
		np = runtime.NumCPU()
	}
	perPoint = make([][]Outcome, len(p.Points))
	pm := utils.NewPartitionMap(np, len(p.Points))
	for n := 0; n < pm.ParallelDegree; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(n)
			for k := kMin; k < kMax; k++ {
				perPoint[k], errs[k] = checkPoint(res, p, p.Points[k])
			}
		}(n)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return
}

func checkPoint(res *curl.Result, p Params, x [3]float64) (outcomes []Outcome, err error) {
	var (
		fields = res.Fields()
		point  = []float64{x[0], x[1], x[2]}
		want   [2]*mat.VecDense
		F      Field
		got    *mat.VecDense
	)
	for k, v := range fields[1:] {
		var r [3]float64
		if r, err = v.Eval(x); err != nil {
			return
		}
		want[k] = utils.NewVec3(r)
	}
	for k, v := range fields[:2] {
		if F, err = FieldOf(v); err != nil {
			return
		}
		got = FiniteDifferenceCurl(F, x, p.Step, p.Concurrent)
		outcomes = append(outcomes, Outcome{
			Check:    curl.Labels[k+1] + " vs finite difference",
			Point:    point,
			MaxError: utils.VecMaxAbsDiff(got, want[k]),
		})
	}
	if got, err = DualCurl(res.Field, x); err != nil {
		return
	}
	outcomes = append(outcomes, Outcome{Check: curl.Labels[1] + " vs hyperdual", Point: point, MaxError: utils.VecMaxAbsDiff(got, want[0])})
	if got, err = DualCurlCurl(res.Field, x); err != nil {
		return
	}
	outcomes = append(outcomes, Outcome{Check: curl.Labels[2] + " vs hyperdual", Point: point, MaxError: utils.VecMaxAbsDiff(got, want[1])})
	return
}
