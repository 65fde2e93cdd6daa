package curl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notargets/curlcurl/frame"
	"github.com/notargets/curlcurl/symbolic"
)

const (
	wantField    = "sin(R_y)*sin(R_z)*R.x + sin(R_x)*sin(R_z)*R.y + sin(R_x)*sin(R_y)*R.z"
	wantCurl     = "(sin(R_x)*cos(R_y) - sin(R_x)*cos(R_z))*R.x + (-sin(R_y)*cos(R_x) + sin(R_y)*cos(R_z))*R.y + (sin(R_z)*cos(R_x) - sin(R_z)*cos(R_y))*R.z"
	wantCurlCurl = "2*sin(R_y)*sin(R_z)*R.x + 2*sin(R_x)*sin(R_z)*R.y + 2*sin(R_x)*sin(R_y)*R.z"
)

func setup(t *testing.T) (R *frame.ReferenceFrame, V frame.Vector) {
	var err error
	R, err = frame.NewReferenceFrame(DefaultFrameName)
	require.NoError(t, err)
	V, err = BuildField(R)
	require.NoError(t, err)
	return
}

func TestBuildField(t *testing.T) {
	R, V := setup(t)
	x := R.Coords()
	want := frame.NewVector(R,
		symbolic.Mul(symbolic.SinOf(x[1]), symbolic.SinOf(x[2])),
		symbolic.Mul(symbolic.SinOf(x[0]), symbolic.SinOf(x[2])),
		symbolic.Mul(symbolic.SinOf(x[0]), symbolic.SinOf(x[1])),
	)
	assert.True(t, V.Equal(want))
	assert.Equal(t, wantField, V.String())
}

func TestCurlOfField(t *testing.T) {
	R, V := setup(t)
	var (
		x   = R.Coords()
		sin = func(i int) symbolic.Expr { return symbolic.SinOf(x[i]) }
		cos = func(i int) symbolic.Expr { return symbolic.CosOf(x[i]) }
	)
	analytic := frame.NewVector(R,
		symbolic.Sub(symbolic.Mul(sin(0), cos(1)), symbolic.Mul(sin(0), cos(2))),
		symbolic.Sub(symbolic.Mul(sin(1), cos(2)), symbolic.Mul(sin(1), cos(0))),
		symbolic.Sub(symbolic.Mul(sin(2), cos(0)), symbolic.Mul(sin(2), cos(1))),
	)
	W := CurlOf(V, R)
	assert.True(t, W.Sub(analytic).IsZero())
	assert.Equal(t, wantCurl, W.String())
	assert.Equal(t, wantCurlCurl, CurlOf(W, R).String())
}

func TestCurlIsDeterministic(t *testing.T) {
	R, V := setup(t)
	a, b := CurlOf(V, R), CurlOf(V, R)
	for i := 0; i < 3; i++ {
		assert.Equal(t, a.Component(i).String(), b.Component(i).String())
	}
	assert.True(t, a.Equal(b))
}

func TestCurlIsLinear(t *testing.T) {
	R, A := setup(t)
	var (
		x = R.Coords()
		B = frame.NewVector(R,
			symbolic.Mul(symbolic.CosOf(x[0]), x[1]),
			symbolic.Power(symbolic.SinOf(x[2]), 2),
			symbolic.Mul(x[0], x[1], symbolic.CosOf(x[2])),
		)
		k = symbolic.Rational(-7, 3)
	)
	lhs := CurlOf(A.Add(B.Scale(k)), R)
	rhs := CurlOf(A, R).Add(CurlOf(B, R).Scale(k))
	assert.True(t, lhs.Equal(rhs))
}

func TestDoubleCurlIdentity(t *testing.T) {
	R, V := setup(t)
	direct := frame.Gradient(frame.Divergence(V, R), R).Sub(frame.Laplacian(V, R))
	assert.True(t, CurlOf(CurlOf(V, R), R).Equal(direct))
	// The field is divergence free, so curl curl V = -lap V = 2V here.
	assert.True(t, symbolic.IsZero(frame.Divergence(V, R)))
	assert.True(t, CurlOf(CurlOf(V, R), R).Equal(V.Scale(symbolic.Int(2))))
}

func TestVanishesAtOrigin(t *testing.T) {
	res, err := Compute(DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	for i, v := range res.Fields() {
		r, err := v.Eval([3]float64{})
		require.NoError(t, err)
		assert.Equal(t, [3]float64{}, r, Labels[i])
	}
}

func TestRunText(t *testing.T) {
	var buf bytes.Buffer
	res, err := Run(&buf, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t,
		"\nV = "+wantField+"\n"+
			"\ncurl V = "+wantCurl+"\n"+
			"\ncurl curl V = "+wantCurlCurl+"\n\n",
		buf.String())
}

func TestRunFormats(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(&buf, Options{FrameName: "N", Format: LaTeX}, zap.NewNop())
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `V = \sin\left(N_{y}\right) \sin\left(N_{z}\right) \hat{N}_{x}`)
	assert.Equal(t, 3, strings.Count(out, " = "))

	buf.Reset()
	_, err = Run(&buf, Options{FrameName: "R", Format: YAML}, zap.NewNop())
	require.NoError(t, err)
	var rep Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, Report{Frame: "R", Field: wantField, Curl: wantCurl, CurlCurl: wantCurlCurl}, rep)
}

func TestRunBadFrame(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(&buf, Options{FrameName: "R x"}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, frame.ErrFrameName))
	assert.Empty(t, buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("LaTeX")
	require.NoError(t, err)
	assert.Equal(t, LaTeX, f)
	assert.Equal(t, "yaml", YAML.String())
	_, err = ParseFormat("json")
	assert.Error(t, err)
}

func TestRunLogsOnlyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	core, logs := observer.New(zapcore.InfoLevel)
	_, err := Run(&buf, DefaultOptions(), zap.New(core))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())

	core, logs = observer.New(zapcore.DebugLevel)
	_, err = Run(&buf, DefaultOptions(), zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("wrote fields").Len())
}
