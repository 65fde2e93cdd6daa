/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/notargets/curlcurl/InputParameters"
	"github.com/notargets/curlcurl/curl"
	"github.com/notargets/curlcurl/verify"
)

func newVerifyCmd(s *session) *cobra.Command {
	def := verify.DefaultParams()
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check the symbolic curls numerically",
		Long: `
Evaluates curl V and curl curl V at sample points and compares them with
central finite differences and with exact hyperdual derivatives of V. Also
checks curl curl V = grad div V - lap V symbolically and that every field
vanishes at the origin.

curlcurl verify --point 1,2,3 --point 0.5,-1,2 --tolerance 1e-6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var (
				opts curl.Options
				p    verify.Params
				res  *curl.Result
				rep  *verify.Report
			)
			if opts, err = s.options(); err != nil {
				return
			}
			if p, err = s.verifyParams(cmd.Flags(), cmd.ErrOrStderr(), &opts); err != nil {
				return
			}
			if res, err = curl.Compute(opts, s.log); err != nil {
				return
			}
			rep, err = verify.Check(res, p, s.log)
			if rep != nil {
				if werr := writeReport(cmd.OutOrStdout(), rep, opts.Format); err == nil {
					err = werr
				}
			}
			return
		},
	}
	fs := verifyCmd.Flags()
	fs.StringArray("point", nil, "sample point x,y,z, repeat for more points (default 1,2,3)")
	fs.Float64("tolerance", def.Tolerance, "largest accepted absolute error")
	fs.Float64("step", def.Step, "central difference step")
	fs.Bool("concurrent", false, "evaluate the finite difference stencil concurrently")
	fs.StringP("inputParametersFile", "I", "", "YAML file with sample points and tolerances like:"+InputParameters.Example)
	s.bind(fs, "tolerance", "step")
	return verifyCmd
}

// verifyParams merges, lowest precedence first: defaults, config and
// environment, the input parameters file, explicit flags.
func (s *session) verifyParams(fs *pflag.FlagSet, diag io.Writer, opts *curl.Options) (p verify.Params, err error) {
	var (
		ipFile string
		points []string
	)
	p = verify.DefaultParams()
	p.Tolerance = s.v.GetFloat64("tolerance")
	p.Step = s.v.GetFloat64("step")
	if p.Concurrent, err = fs.GetBool("concurrent"); err != nil {
		return
	}
	if ipFile, err = fs.GetString("inputParametersFile"); err != nil {
		return
	}
	if ipFile != "" {
		var ip *InputParameters.InputParameters
		if ip, err = InputParameters.ReadFile(ipFile); err != nil {
			return
		}
		ip.Print(diag)
		if ip.Frame != "" && !fs.Changed("frame") {
			opts.FrameName = ip.Frame
		}
		if len(ip.SamplePoints) != 0 {
			p.Points = ip.SamplePoints
		}
		if ip.Tolerance > 0 && !fs.Changed("tolerance") {
			p.Tolerance = ip.Tolerance
		}
		if ip.Step > 0 && !fs.Changed("step") {
			p.Step = ip.Step
		}
	}
	if points, err = fs.GetStringArray("point"); err != nil {
		return
	}
	if len(points) != 0 {
		p.Points = make([][3]float64, len(points))
		for i, pt := range points {
			if p.Points[i], err = parsePoint(pt); err != nil {
				return
			}
		}
	}
	return
}

func writeReport(w io.Writer, rep *verify.Report, format curl.Format) (err error) {
	if format == curl.YAML {
		var body []byte
		if body, err = yaml.Marshal(rep); err != nil {
			return
		}
		_, err = w.Write(body)
		return
	}
	var failed int
	fmt.Fprintf(w, "tolerance %.3g\n", rep.Tolerance)
	for _, o := range rep.Outcomes {
		status := "ok"
		if !o.Passed {
			status = "FAIL"
			failed++
		}
		if o.Point == nil {
			fmt.Fprintf(w, "%-4s  %s\n", status, o.Check)
			continue
		}
		fmt.Fprintf(w, "%-4s  %-32s at %-20s max error %.3e\n", status, o.Check, fmt.Sprint(o.Point), o.MaxError)
	}
	if failed == 0 {
		_, err = fmt.Fprintf(w, "all %d checks passed\n", len(rep.Outcomes))
	} else {
		_, err = fmt.Fprintf(w, "%d of %d checks failed\n", failed, len(rep.Outcomes))
	}
	return
}
