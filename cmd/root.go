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
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/curlcurl/curl"
	"github.com/notargets/curlcurl/logging"
)

// session is the state shared by the root command and its subcommands.
type session struct {
	cfgFile string
	v       *viper.Viper
	log     *zap.Logger
	prof    interface{ Stop() }
}

// NewRootCmd returns the curlcurl command tree with its own configuration.
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

func newRootCmd() (rootCmd *cobra.Command, s *session) {
	s = &session{v: viper.New(), log: zap.NewNop()}
	rootCmd = &cobra.Command{
		Use:   "curlcurl",
		Short: "Symbolic curl and curl of curl of a vector field",
		Long: `
Builds the vector field

	V = sin(x1)sin(x2) e0 + sin(x0)sin(x2) e1 + sin(x0)sin(x1) e2

in a Cartesian reference frame and prints V, curl V and curl curl V,

curlcurl --frame R --format text`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.start,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { s.stop() },
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var opts curl.Options
			if opts, err = s.options(); err != nil {
				return
			}
			_, err = curl.Run(cmd.OutOrStdout(), opts, s.log)
			return
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.curlcurl.yaml)")
	pf.String("frame", curl.DefaultFrameName, "name of the reference frame, coordinates are <frame>_x, <frame>_y, <frame>_z")
	pf.String("format", curl.Text.String(), "output format: text, latex or yaml")
	pf.BoolP("verbose", "v", false, "debug logging to stderr")
	pf.Bool("profile", false, "write a CPU profile to the working directory")
	s.bind(pf, "frame", "format", "verbose", "profile")

	rootCmd.AddCommand(newVerifyCmd(s), newConvergenceCmd(s))
	return
}

// Execute runs the command line and exits non zero on error. Errors go to
// stderr only.
func Execute() {
	rootCmd, s := newRootCmd()
	err := rootCmd.Execute()
	s.stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (s *session) bind(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := s.v.BindPFlag(name, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// readConfig loads the config file and the CURLCURL_ environment. A missing
// default config file is not an error, a missing explicit one is.
func (s *session) readConfig() (err error) {
	if s.cfgFile != "" {
		s.v.SetConfigFile(s.cfgFile)
	} else {
		var home string
		if home, err = homedir.Dir(); err != nil {
			return
		}
		s.v.AddConfigPath(home)
		s.v.SetConfigName(".curlcurl")
	}
	s.v.SetEnvPrefix("CURLCURL")
	s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	s.v.AutomaticEnv()
	if err = s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.cfgFile == "" && errors.As(err, &notFound) {
			err = nil
		}
	}
	return
}

func (s *session) start(cmd *cobra.Command, args []string) (err error) {
	if err = s.readConfig(); err != nil {
		return
	}
	if s.log, err = logging.New(s.v.GetBool("verbose")); err != nil {
		return
	}
	if f := s.v.ConfigFileUsed(); f != "" {
		s.log.Debug("config", zap.String("file", f))
	}
	if s.v.GetBool("profile") {
		s.prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook)
	}
	return
}

func (s *session) stop() {
	if s.prof != nil {
		s.prof.Stop()
		s.prof = nil
	}
	_ = s.log.Sync()
}

func (s *session) options() (opts curl.Options, err error) {
	opts = curl.DefaultOptions()
	opts.FrameName = s.v.GetString("frame")
	opts.Format, err = curl.ParseFormat(s.v.GetString("format"))
	return
}

// parseFloats parses a comma separated list of numbers.
func parseFloats(s string) (f []float64, err error) {
	for _, field := range strings.Split(s, ",") {
		var x float64
		if x, err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			err = fmt.Errorf("parsing %q: %w", s, err)
			return nil, err
		}
		f = append(f, x)
	}
	return
}

// parsePoint parses "x,y,z".
func parsePoint(s string) (x [3]float64, err error) {
	var f []float64
	if f, err = parseFloats(s); err != nil {
		return
	}
	if len(f) != 3 {
		err = fmt.Errorf("point %q must have 3 coordinates, has %d", s, len(f))
		return
	}
	copy(x[:], f)
	return
}
