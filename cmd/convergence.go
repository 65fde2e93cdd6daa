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
	"github.com/spf13/cobra"

	"github.com/notargets/curlcurl/InputParameters"
	"github.com/notargets/curlcurl/curl"
	"github.com/notargets/curlcurl/verify"
)

func newConvergenceCmd(s *session) *cobra.Command {
	convergenceCmd := &cobra.Command{
		Use:   "convergence",
		Short: "Finite difference step size study of curl V",
		Long: `
Measures the max error of the central difference curl of V against the
symbolic curl for a sequence of halving steps, and prints a CSV table with the
observed order of accuracy, which should approach 2.

curlcurl convergence --point 1,2,3 --steps 0.1,0.05,0.025`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var (
				opts   curl.Options
				res    *curl.Result
				cs     *verify.ConvergenceStudy
				point  = verify.DefaultParams().Points[0]
				steps  = verify.DefaultSteps()
				title  string
				ipFile string
			)
			if opts, err = s.options(); err != nil {
				return
			}
			fs := cmd.Flags()
			if ipFile, err = fs.GetString("inputParametersFile"); err != nil {
				return
			}
			if ipFile != "" {
				var ip *InputParameters.InputParameters
				if ip, err = InputParameters.ReadFile(ipFile); err != nil {
					return
				}
				ip.Print(cmd.ErrOrStderr())
				if ip.Frame != "" && !fs.Changed("frame") {
					opts.FrameName = ip.Frame
				}
				if len(ip.SamplePoints) != 0 {
					point = ip.SamplePoints[0]
				}
				if len(ip.Steps) != 0 {
					steps = ip.Steps
				}
				title = ip.Title
			}
			if fs.Changed("point") {
				var pt string
				if pt, err = fs.GetString("point"); err != nil {
					return
				}
				if point, err = parsePoint(pt); err != nil {
					return
				}
			}
			if fs.Changed("steps") {
				var st string
				if st, err = fs.GetString("steps"); err != nil {
					return
				}
				if steps, err = parseFloats(st); err != nil {
					return
				}
			}
			if res, err = curl.Compute(opts, s.log); err != nil {
				return
			}
			if cs, err = verify.Convergence(res, point, steps); err != nil {
				return
			}
			if title != "" {
				cs.Title = title
			}
			return cs.WriteCSV(cmd.OutOrStdout())
		},
	}
	convergenceCmd.Flags().String("point", "1,2,3", "evaluation point x,y,z")
	convergenceCmd.Flags().String("steps", "0.1,0.05,0.025,0.0125,0.00625", "comma separated finite difference steps")
	convergenceCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the point, steps and title like:"+InputParameters.Example)
	return convergenceCmd
}
