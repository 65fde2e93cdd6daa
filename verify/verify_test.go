package verify

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notargets/curlcurl/curl"
	"github.com/notargets/curlcurl/frame"
	"github.com/notargets/curlcurl/symbolic"
	"github.com/notargets/curlcurl/utils"
)

func compute(t *testing.T) *curl.Result {
	res, err := curl.Compute(curl.DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	return res
}

func TestCheckPasses(t *testing.T) {
	var (
		res = compute(t)
		p   = DefaultParams()
	)
	p.Points = append(p.Points, [3]float64{-0.4, 0.25, 2.2}, [3]float64{3, -1, 0.5})
	p.Concurrent = true
	rep, err := Check(res, p, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, rep.Passed())
	// identity + three origin checks + four checks per point
	assert.Len(t, rep.Outcomes, 1+3+4*len(p.Points))
	for _, o := range rep.Outcomes {
		assert.LessOrEqual(t, o.MaxError, p.Tolerance, o.Check)
	}
}

func TestCheckLogsOnlyAtDebug(t *testing.T) {
	res := compute(t)
	core, logs := observer.New(zapcore.InfoLevel)
	_, err := Check(res, DefaultParams(), zap.New(core))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())

	core, logs = observer.New(zapcore.DebugLevel)
	_, err = Check(res, DefaultParams(), zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("verification finished").Len())
}

func TestCheckReportsEveryMismatch(t *testing.T) {
	res := compute(t)
	// Claim curl curl V = curl V.
	res.CurlCurl = res.Curl
	rep, err := Check(res, DefaultParams(), zap.NewNop())
	require.Error(t, err)
	assert.False(t, rep.Passed())
	assert.True(t, errors.Is(err, ErrMismatch))

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	// identity, finite difference and hyperdual checks of curl curl V
	assert.Len(t, merr.Errors, 3)
	for _, e := range merr.Errors {
		assert.True(t, errors.Is(e, ErrMismatch))
	}
}

func TestCheckUnboundVariable(t *testing.T) {
	res := compute(t)
	res.Curl = res.Curl.Add(res.Frame.X().Scale(symbolic.NewVar("q")))
	_, err := Check(res, DefaultParams(), zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, symbolic.ErrUnbound))
}

func TestFiniteDifferenceCurl(t *testing.T) {
	rotation := func(x [3]float64) [3]float64 { return [3]float64{-x[1], x[0], 0} }
	C := FiniteDifferenceCurl(rotation, [3]float64{0.3, -2, 5}, 0, false)
	assert.InDeltaSlice(t, []float64{0, 0, 2}, utils.VecGetF64(C), 1e-9)
}

func TestDualMatchesSymbolic(t *testing.T) {
	res := compute(t)
	for _, x := range [][3]float64{{1, 2, 3}, {0.1, -0.7, 1.9}, {0, 0, 0}} {
		got, err := DualCurl(res.Field, x)
		require.NoError(t, err)
		want, err := res.Curl.Eval(x)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want[:], utils.VecGetF64(got), 1e-14)

		got, err = DualCurlCurl(res.Field, x)
		require.NoError(t, err)
		want, err = res.CurlCurl.Eval(x)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want[:], utils.VecGetF64(got), 1e-14)
	}
}

func TestDualCurlCurlGeneralField(t *testing.T) {
	R, err := frame.NewReferenceFrame("S")
	require.NoError(t, err)
	var (
		x = R.Coords()
		// a field with non-zero divergence
		v = frame.NewVector(R,
			symbolic.Mul(symbolic.Power(x[0], 2), symbolic.CosOf(x[1])),
			symbolic.Mul(x[0], x[1], x[2]),
			symbolic.SinOf(symbolic.Mul(x[0], x[2])),
		)
		pt = [3]float64{0.5, 1.5, -1}
	)
	got, err := DualCurlCurl(v, pt)
	require.NoError(t, err)
	want, err := frame.Curl(frame.Curl(v, R), R).Eval(pt)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want[:], utils.VecGetF64(got), 1e-13)
}

func TestConvergence(t *testing.T) {
	res := compute(t)
	cs, err := Convergence(res, [3]float64{1, 2, 3}, DefaultSteps())
	require.NoError(t, err)
	require.Len(t, cs.Errors, len(DefaultSteps()))
	orders := cs.Orders()
	assert.Equal(t, 0., orders[0])
	for i := 1; i < len(orders); i++ {
		assert.InDelta(t, 2., orders[i], 0.01)
		assert.Less(t, cs.Errors[i], cs.Errors[i-1])
	}

	var buf bytes.Buffer
	require.NoError(t, cs.WriteCSV(&buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(DefaultSteps()))
	assert.Equal(t, []string{"title", "step", "maxError", "order"}, records[0])
	assert.Equal(t, "0.1", records[1][1])
	assert.Empty(t, records[1][3])
	assert.NotEmpty(t, records[2][3])

	_, err = Convergence(res, [3]float64{1, 2, 3}, []float64{0.1, 0})
	assert.Error(t, err)
}

func TestOrdersOfExactData(t *testing.T) {
	cs := NewConvergenceStudy("synthetic", [3]float64{})
	for _, h := range []float64{0.4, 0.2, 0.1} {
		cs.Add(h, 3*math.Pow(h, 4))
	}
	assert.InDeltaSlice(t, []float64{0, 4, 4}, cs.Orders(), 1e-12)
}

func TestReadCSV(t *testing.T) {
	a := NewConvergenceStudy("b second", [3]float64{})
	a.Add(0.2, 4e-2)
	a.Add(0.1, 1e-2)
	c := NewConvergenceStudy("a first", [3]float64{})
	c.Add(1, 1)
	c.Add(0.5, 0.5)
	c.Add(0.25, 0.25)

	var buf bytes.Buffer
	require.NoError(t, a.WriteCSV(&buf))
	// a second table appended, header included
	require.NoError(t, c.WriteCSV(&buf))
	studies, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, studies, 2)
	assert.Equal(t, "a first", studies[0].Title)
	assert.InDeltaSlice(t, []float64{0, 1, 1}, studies[0].Orders(), 1e-12)
	assert.Equal(t, "b second", studies[1].Title)
	assert.InDeltaSlice(t, []float64{0, 2}, studies[1].Orders(), 1e-12)

	_, err = ReadCSV(bytes.NewBufferString("title,step,maxError,order\nx,abc,1,\n"))
	assert.Error(t, err)
}
