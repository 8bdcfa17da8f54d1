package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/njchilds90/gosymbolic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewSimplifyCmd() *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "simplify [formula]",
		Short: "Simplify a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engineOptions()
			e, err := gosymbolic.Parse(args[0], opts...)
			if err != nil {
				return errors.Wrap(err, "parse")
			}
			s := gosymbolic.NewSimplifier(opts...)
			out, err := s.Simplify(e)
			if err != nil {
				return errors.Wrap(err, "simplify")
			}
			st := s.Stats()
			logger.Debug("simplified", "iterations", st.Iterations, "rewrites", st.Rewrites,
				"cache_hits", st.CacheHits, "cycle", st.Cycle, "exhausted", st.Exhausted)
			if verify {
				if err := gosymbolic.NewVerifier().Verify(e, out, opts...); err != nil {
					logger.Error("verification failed, keeping original", "err", err)
					out = e
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "check the result at sample points and fall back to the input on mismatch")
	return cmd
}

func NewDiffCmd() *cobra.Command {
	var order int
	cmd := &cobra.Command{
		Use:   "diff [formula] [var]",
		Short: "Differentiate a formula and simplify the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engineOptions()
			e, err := gosymbolic.Parse(args[0], opts...)
			if err != nil {
				return errors.Wrap(err, "parse")
			}
			d, err := gosymbolic.DeriveN(e, gosymbolic.Intern(args[1]), order, opts...)
			if err != nil {
				return errors.Wrap(err, "differentiate")
			}
			out, err := gosymbolic.SimplifyExpr(d, opts...)
			if err != nil {
				return errors.Wrap(err, "simplify")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&order, "order", "n", 1, "derivative order")
	return cmd
}

// parseAssignments reads name=value pairs.
func parseAssignments(pairs []string) (map[string]float64, error) {
	env := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, errors.Errorf("expected name=value, got %q", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value of %s", name)
		}
		env[strings.TrimSpace(name)] = v
	}
	return env, nil
}

func NewEvalCmd() *cobra.Command {
	var (
		assigns  []string
		compiled bool
	)
	cmd := &cobra.Command{
		Use:   "eval [formula]",
		Short: "Evaluate a formula numerically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engineOptions()
			e, err := gosymbolic.Parse(args[0], opts...)
			if err != nil {
				return errors.Wrap(err, "parse")
			}
			env, err := parseAssignments(assigns)
			if err != nil {
				return err
			}
			var v float64
			if compiled {
				v, err = evalCompiled(e, env, opts)
			} else {
				v, err = e.Eval(env, opts...)
			}
			if err != nil {
				return errors.Wrap(err, "evaluate")
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&assigns, "set", nil, "variable bindings, e.g. --set x=1,y=2")
	cmd.Flags().BoolVar(&compiled, "compiled", false, "evaluate through the bytecode compiler")
	return cmd
}

func evalCompiled(e *gosymbolic.Expr, env map[string]float64, opts []gosymbolic.Option) (float64, error) {
	var params []string
	var inputs []float64
	for _, s := range gosymbolic.FreeSymbols(e) {
		if v, ok := env[s.Name()]; ok {
			params = append(params, s.Name())
			inputs = append(inputs, v)
		}
	}
	prog, err := gosymbolic.Compile(e, params, opts...)
	if err != nil {
		return 0, err
	}
	return prog.Eval(inputs...), nil
}

func NewLatexCmd() *cobra.Command {
	var unicode, simplify bool
	cmd := &cobra.Command{
		Use:   "latex [formula]",
		Short: "Render a formula as LaTeX or Unicode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engineOptions()
			e, err := gosymbolic.Parse(args[0], opts...)
			if err != nil {
				return errors.Wrap(err, "parse")
			}
			if simplify {
				if e, err = gosymbolic.SimplifyExpr(e, opts...); err != nil {
					return errors.Wrap(err, "simplify")
				}
			}
			if unicode {
				fmt.Fprintln(cmd.OutOrStdout(), e.Unicode())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.LaTeX())
			return nil
		},
	}
	cmd.Flags().BoolVar(&unicode, "unicode", false, "render with Unicode symbols instead")
	cmd.Flags().BoolVar(&simplify, "simplify", false, "simplify before rendering")
	return cmd
}

func NewJSONCmd() *cobra.Command {
	var decode bool
	cmd := &cobra.Command{
		Use:   "json [formula|-]",
		Short: "Encode a formula as JSON, or decode JSON from stdin with --decode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if decode {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "read stdin")
				}
				e, err := gosymbolic.FromJSON(data)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), e)
				return nil
			}
			if len(args) == 0 {
				return errors.New("a formula is required unless --decode is set")
			}
			e, err := gosymbolic.Parse(args[0], engineOptions()...)
			if err != nil {
				return errors.Wrap(err, "parse")
			}
			s, err := gosymbolic.ToJSON(e)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "read an expression object from stdin and print it")
	return cmd
}

func NewCompileCmd() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "compile [formula]",
		Short: "Compile a formula and print the bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engineOptions()
			e, err := gosymbolic.Parse(args[0], opts...)
			if err != nil {
				return errors.Wrap(err, "parse")
			}
			if len(params) == 0 {
				for _, s := range gosymbolic.FreeSymbols(e) {
					if s.Name() != "pi" && s.Name() != "e" {
						params = append(params, s.Name())
					}
				}
			}
			prog, err := gosymbolic.Compile(e, params, opts...)
			if err != nil {
				return errors.Wrap(err, "compile")
			}
			logger.Debug("compiled", "instructions", prog.Len(), "stack", prog.StackDepth())
			fmt.Fprintf(cmd.OutOrStdout(), "; params %v, stack depth %d\n%s", prog.Params(), prog.StackDepth(), prog)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&params, "params", nil, "parameter order (defaults to the free symbols by name)")
	return cmd
}

var (
	Version = "0.1.0"

	VersionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
)
