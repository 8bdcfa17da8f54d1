package commands

import (
	"os"

	"github.com/njchilds90/gosymbolic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

const defaultLogLevel = "info"

var logger = tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stderr))

func init() {
	registerFlagsRootCmd(RootCmd)
}

func registerFlagsRootCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log_level", defaultLogLevel, "log level, e.g. \"info\" or \"simplifier:debug,*:error\"")
	cmd.PersistentFlags().Bool("domain_safe", false, "skip rewrite rules that only hold on part of the domain")
	cmd.PersistentFlags().Int("max_depth", gosymbolic.DefaultMaxDepth, "maximum expression nesting depth")
	cmd.PersistentFlags().Int("max_nodes", gosymbolic.DefaultMaxNodes, "maximum expression node count")
	cmd.PersistentFlags().Int("max_iterations", gosymbolic.DefaultMaxIterations, "maximum simplification passes")
	cmd.PersistentFlags().StringSlice("fixed", nil, "names treated as constants (comma separated)")
}

// RootCmd is the root of the symb command tree. Every flag can also be
// set through a SYMB_ environment variable or the config file in the
// home directory; SYMB_TRACE=1 logs each rule application.
var RootCmd = &cobra.Command{
	Use:   "symb",
	Short: "Parse, differentiate, simplify and evaluate formulas",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log_level")
		if viper.GetBool(cli.TraceFlag) && !cmd.Flags().Changed("log_level") {
			level = "debug"
		}
		lg, err := tmflags.ParseLogLevel(level, tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stderr)), defaultLogLevel)
		if err != nil {
			return err
		}
		logger = lg.With("module", "symb")
		return nil
	},
}

// engineOptions builds engine options from the bound flags.
func engineOptions() []gosymbolic.Option {
	return []gosymbolic.Option{
		gosymbolic.DomainSafe(viper.GetBool("domain_safe")),
		gosymbolic.MaxDepth(viper.GetInt("max_depth")),
		gosymbolic.MaxNodes(viper.GetInt("max_nodes")),
		gosymbolic.MaxIterations(viper.GetInt("max_iterations")),
		gosymbolic.FixedVars(viper.GetStringSlice("fixed")...),
		gosymbolic.WithTrace(viper.GetBool(cli.TraceFlag)),
		gosymbolic.WithLogger(logger),
	}
}
