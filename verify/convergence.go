package verify

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/notargets/curlcurl/curl"
	"github.com/notargets/curlcurl/utils"
)

// ConvergenceStudy records the error of the finite difference curl of V
// against the symbolic curl for a sequence of step sizes.
type ConvergenceStudy struct {
	Title  string
	Point  [3]float64
	Steps  []float64
	Errors []float64
}

func DefaultSteps() []float64 {
	return []float64{1e-1, 5e-2, 2.5e-2, 1.25e-2, 6.25e-3}
}

func NewConvergenceStudy(title string, point [3]float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		Title: title,
		Point: point,
	}
}

func (cs *ConvergenceStudy) Add(step, maxError float64) {
	cs.Steps = append(cs.Steps, step)
	cs.Errors = append(cs.Errors, maxError)
}

// Orders returns the observed order of accuracy between each step and the
// one before it. The first entry has no predecessor and is zero.
func (cs *ConvergenceStudy) Orders() (p []float64) {
	p = make([]float64, len(cs.Steps))
	for i := 1; i < len(cs.Steps); i++ {
		p[i] = utils.ConvergenceOrder(cs.Errors[i-1], cs.Errors[i], cs.Steps[i-1], cs.Steps[i])
	}
	return
}

// Convergence measures the finite difference curl error of res.Field at
// point for each step.
func Convergence(res *curl.Result, point [3]float64, steps []float64) (cs *ConvergenceStudy, err error) {
	var (
		r [3]float64
		F Field
	)
	if r, err = res.Curl.Eval(point); err != nil {
		return
	}
	if F, err = FieldOf(res.Field); err != nil {
		return
	}
	want := utils.NewVec3(r)
	cs = NewConvergenceStudy("central difference curl V", point)
	for _, h := range steps {
		if h <= 0 {
			err = fmt.Errorf("convergence step must be positive, got %g", h)
			return
		}
		cs.Add(h, utils.VecMaxAbsDiff(FiniteDifferenceCurl(F, point, h, false), want))
	}
	return
}

// WriteCSV writes one row per step: title, step, max error, observed order.
func (cs *ConvergenceStudy) WriteCSV(w io.Writer) (err error) {
	var (
		cw     = csv.NewWriter(w)
		orders = cs.Orders()
		ff     = func(f float64) string { return strconv.FormatFloat(f, 'g', 6, 64) }
	)
	if err = cw.Write([]string{"title", "step", "maxError", "order"}); err != nil {
		return
	}
	for i := range cs.Steps {
		order := ""
		if i > 0 {
			order = ff(orders[i])
		}
		if err = cw.Write([]string{cs.Title, ff(cs.Steps[i]), ff(cs.Errors[i]), order}); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads tables written by WriteCSV, one study per title, sorted by
// title. The order column is ignored; Orders recomputes it.
func ReadCSV(r io.Reader) (studies []*ConvergenceStudy, err error) {
	var (
		records [][]string
		byTitle = make(map[string]*ConvergenceStudy)
	)
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	if records, err = cr.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		// header rows, possibly repeated by concatenated tables
		if rec[0] == "title" && rec[1] == "step" {
			continue
		}
		var step, maxError float64
		if step, err = strconv.ParseFloat(rec[1], 64); err != nil {
			err = fmt.Errorf("line %d: step: %w", i+1, err)
			return
		}
		if maxError, err = strconv.ParseFloat(rec[2], 64); err != nil {
			err = fmt.Errorf("line %d: maxError: %w", i+1, err)
			return
		}
		cs, ok := byTitle[rec[0]]
		if !ok {
			cs = NewConvergenceStudy(rec[0], [3]float64{})
			byTitle[rec[0]] = cs
		}
		cs.Add(step, maxError)
	}
	for _, cs := range byTitle {
		studies = append(studies, cs)
	}
	sort.Slice(studies, func(i, j int) bool { return studies[i].Title < studies[j].Title })
	return
}
