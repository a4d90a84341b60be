/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"runtime"
	"strings"
	"time"

	"github.com/Comcast/patmatch/match"
	"github.com/Comcast/patmatch/rules"
	"github.com/Comcast/patmatch/store"
	"github.com/Comcast/patmatch/store/bolt"
	"github.com/Comcast/patmatch/tools"
	"github.com/Comcast/patmatch/util"

	"github.com/google/go-cmp/cmp"
	"github.com/jsccast/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbPrefix marks a -r value as the name of a stored rule set.
const dbPrefix = "db:"

// NotMatched is returned by "pattern" when the message doesn't match.
var NotMatched = errors.New("no match")

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "patmatch",
		Short:         "Pattern matching and rule sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.ReadInConfig(); err != nil {
				if _, is := err.(viper.ConfigFileNotFoundError); !is {
					return err
				}
			}
			util.Logging = v.GetBool("verbose")
			level := v.GetString("log-level")
			if util.Logging {
				level = "debug"
			}
			return util.SetLevel(level)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set the log level")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")
	cmd.PersistentFlags().String("db", "rules.db", "BoltDB file for stored rule sets")
	cmd.PersistentFlags().Duration("timeout", 10*time.Second, "Overall timeout")

	v.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
	v.BindPFlag("db", cmd.PersistentFlags().Lookup("db"))
	v.BindPFlag("timeout", cmd.PersistentFlags().Lookup("timeout"))

	// Optional ./.patmatch.yaml
	v.SetConfigName(".patmatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// PATMATCH_LOG_LEVEL, PATMATCH_DB, ...
	v.SetEnvPrefix("patmatch")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cmd.AddCommand(
		newPatternCommand(v),
		newEvalCommand(v),
		newValidateCommand(v),
		newRulesCommand(v),
		newDocCommand(v),
		newAnalyzeCommand(v),
	)

	return cmd
}

func withTimeout(v *viper.Viper) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), v.GetDuration("timeout"))
}

// parseValue parses JSON or YAML, reading the named file if s starts
// with '@'.
func parseValue(s string) (interface{}, error) {
	src := []byte(s)
	if strings.HasPrefix(s, "@") {
		bs, err := ioutil.ReadFile(s[1:])
		if err != nil {
			return nil, err
		}
		src = bs
	}
	var x interface{}
	if err := yaml.Unmarshal(src, &x); err != nil {
		return nil, errors.Wrapf(err, "parsing %q", s)
	}
	return x, nil
}

func parseBindings(s string) (match.Bindings, error) {
	bs := match.NewBindings()
	if s == "" {
		return bs, nil
	}
	x, err := parseValue(s)
	if err != nil {
		return nil, err
	}
	m, is := x.(map[string]interface{})
	if !is && x != nil {
		return nil, fmt.Errorf("bindings should be a map, not a %T", x)
	}
	for k, v := range m {
		bs[k] = v
	}
	return bs, nil
}

func openStore(v *viper.Viper) (*bolt.Store, error) {
	s := bolt.NewStore(v.GetString("db"))
	s.Debug = util.Logging
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadRuleSet reads and compiles a rule set from a file or, given
// "db:NAME", from the store.
func loadRuleSet(ctx context.Context, v *viper.Viper, ref string) (*rules.RuleSet, error) {
	if ref == "" {
		return nil, errors.New("no rule set given (-r)")
	}
	if strings.HasPrefix(ref, dbPrefix) {
		s, err := openStore(v)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return store.Load(ctx, s, ref[len(dbPrefix):], nil)
	}
	rs, err := rules.ParseFile(ref)
	if err != nil {
		return nil, err
	}
	if err = rs.Compile(ctx, nil); err != nil {
		return nil, err
	}
	return rs, nil
}

func writeJSON(out io.Writer, x interface{}) error {
	js, err := json.Marshal(&x)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", js)
	return err
}

// bench calls f n times and logs the mean time and allocation.
func bench(n int, what string, f func() error) error {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	allocs := stats.TotalAlloc
	then := time.Now()
	for i := 0; i < n; i++ {
		if err := f(); err != nil {
			return err
		}
	}
	elapsed := time.Now().Sub(then)
	meanNanos := elapsed.Nanoseconds() / int64(n)

	runtime.ReadMemStats(&stats)
	allocated := (stats.TotalAlloc - allocs) / uint64(n)

	util.GetLogger().Info().
		Int("iterations", n).
		Int64("meanNanos", meanNanos).
		Uint64("meanBytes", allocated).
		Msgf("%s benchmark", what)

	return nil
}

func newPatternCommand(v *viper.Viper) *cobra.Command {
	var (
		patternSrc, messageSrc, bindingsSrc, wantSrc string
		n                                            int
	)

	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Match a message against a pattern and print the bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(v)
			defer cancel()

			pat, err := parseValue(patternSrc)
			if err != nil {
				return err
			}
			msg, err := parseValue(messageSrc)
			if err != nil {
				return err
			}
			bs, err := parseBindings(bindingsSrc)
			if err != nil {
				return err
			}

			p, err := rules.CompilePattern(ctx, pat, nil)
			if err != nil {
				return err
			}

			if 0 < n {
				if err = bench(n, "pattern", func() error {
					p.Match(ctx, msg, bs)
					return nil
				}); err != nil {
					return err
				}
			}

			got, matched := p.Match(ctx, msg, bs)

			if wantSrc != "" {
				want, err := parseBindings(wantSrc)
				if err != nil {
					return err
				}
				if !matched {
					return NotMatched
				}
				if diff := cmp.Diff(want, got); diff != "" {
					return fmt.Errorf("unwanted bindings (-want +got):\n%s", diff)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "true")
				return nil
			}

			if !matched {
				return NotMatched
			}
			return writeJSON(cmd.OutOrStdout(), got)
		},
	}

	cmd.Flags().StringVarP(&patternSrc, "pattern", "p", "", "pattern")
	cmd.Flags().StringVarP(&messageSrc, "message", "m", "", "message")
	cmd.Flags().StringVarP(&bindingsSrc, "bindings", "b", "", "initial bindings")
	cmd.Flags().StringVarP(&wantSrc, "want", "w", "", "wanted bindings")
	cmd.Flags().IntVar(&n, "bench", 0, "number of times to run (and report time)")
	cmd.MarkFlagRequired("pattern")

	return cmd
}

// evalResult is what "eval" prints.
type evalResult struct {
	Value    interface{}    `json:"value"`
	Clause   int            `json:"clause"`
	Bindings match.Bindings `json:"bindings"`
	Traces   []match.Step   `json:"traces,omitempty"`
}

func newEvalCommand(v *viper.Viper) *cobra.Command {
	var (
		ref, messageSrc, bindingsSrc string
		n                            int
		traces                       bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Find the value of the first rule set clause that matches a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(v)
			defer cancel()

			rs, err := loadRuleSet(ctx, v, ref)
			if err != nil {
				return err
			}
			msg, err := parseValue(messageSrc)
			if err != nil {
				return err
			}
			bs, err := parseBindings(bindingsSrc)
			if err != nil {
				return err
			}

			if 0 < n {
				if err = bench(n, "eval", func() error {
					_, err := rs.Match(ctx, msg, bs)
					return err
				}); err != nil {
					return err
				}
			}

			r, err := rs.Match(ctx, msg, bs)
			if err != nil {
				return err
			}

			er := evalResult{
				Value:    r.Value,
				Clause:   r.Clause,
				Bindings: r.Bindings,
			}
			if traces {
				er.Traces = r.Traces.Steps()
			}
			return writeJSON(cmd.OutOrStdout(), er)
		},
	}

	cmd.Flags().StringVarP(&ref, "rules", "r", "", "rule set file or db:NAME")
	cmd.Flags().StringVarP(&messageSrc, "message", "m", "", "message")
	cmd.Flags().StringVarP(&bindingsSrc, "bindings", "b", "", "initial bindings")
	cmd.Flags().IntVar(&n, "bench", 0, "number of times to run (and report time)")
	cmd.Flags().BoolVarP(&traces, "traces", "t", false, "include traces")

	return cmd
}

// Invalid is returned by "validate" when a check fails.
type Invalid struct {
	Failures []interface{}
}

func (e *Invalid) Error() string {
	return fmt.Sprintf("%d failed checks", len(e.Failures))
}

func newValidateCommand(v *viper.Viper) *cobra.Command {
	var ref, messageSrc, bindingsSrc string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run all of a rule set's checks against a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(v)
			defer cancel()

			rs, err := loadRuleSet(ctx, v, ref)
			if err != nil {
				return err
			}
			msg, err := parseValue(messageSrc)
			if err != nil {
				return err
			}
			bs, err := parseBindings(bindingsSrc)
			if err != nil {
				return err
			}

			vr, err := rs.Validate(ctx, msg, bs)
			if err != nil {
				return err
			}
			fs := vr.Failures()
			if err = writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"valid":    vr.IsValid(),
				"failures": fs,
			}); err != nil {
				return err
			}
			if !vr.IsValid() {
				return &Invalid{fs}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&ref, "rules", "r", "", "rule set file or db:NAME")
	cmd.Flags().StringVarP(&messageSrc, "message", "m", "", "message")
	cmd.Flags().StringVarP(&bindingsSrc, "bindings", "b", "", "initial bindings")

	return cmd
}

func newRulesCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage stored rule sets",
	}

	withStore := func(f func(ctx context.Context, s store.Store, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(v)
			defer cancel()
			s, err := openStore(v)
			if err != nil {
				return err
			}
			defer s.Close()
			return f(ctx, s, cmd.OutOrStdout(), args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "put NAME FILE",
			Short: "Store a rule set",
			Args:  cobra.ExactArgs(2),
			RunE: withStore(func(ctx context.Context, s store.Store, out io.Writer, args []string) error {
				src, err := ioutil.ReadFile(args[1])
				if err != nil {
					return err
				}
				return store.Save(ctx, s, args[0], src)
			}),
		},
		&cobra.Command{
			Use:   "get NAME",
			Short: "Print a stored rule set",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(ctx context.Context, s store.Store, out io.Writer, args []string) error {
				e, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, e.Source)
				return err
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the stored rule sets",
			Args:  cobra.NoArgs,
			RunE: withStore(func(ctx context.Context, s store.Store, out io.Writer, args []string) error {
				names, err := s.List(ctx)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rm NAME",
			Short: "Remove a stored rule set",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(ctx context.Context, s store.Store, out io.Writer, args []string) error {
				return s.Remove(ctx, args[0])
			}),
		},
	)

	return cmd
}

func newDocCommand(v *viper.Viper) *cobra.Command {
	var (
		ref  string
		css  []string
		frag bool
	)

	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Render a rule set as HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(v)
			defer cancel()

			rs, err := loadRuleSet(ctx, v, ref)
			if err != nil {
				return err
			}
			if frag {
				return tools.RenderRuleSetHTML(rs, cmd.OutOrStdout())
			}
			return tools.RenderRuleSetPage(rs, cmd.OutOrStdout(), css)
		},
	}

	cmd.Flags().StringVarP(&ref, "rules", "r", "", "rule set file or db:NAME")
	cmd.Flags().StringSliceVar(&css, "css", nil, "CSS files for the page")
	cmd.Flags().BoolVar(&frag, "fragment", false, "write only an HTML fragment")

	return cmd
}

func newAnalyzeCommand(v *viper.Viper) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize a rule set's patterns and templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(v)
			defer cancel()

			rs, err := loadRuleSet(ctx, v, ref)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tools.Analyze(rs))
		},
	}

	cmd.Flags().StringVarP(&ref, "rules", "r", "", "rule set file or db:NAME")

	return cmd
}
