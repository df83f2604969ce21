// Command ddzsim plays bot-only Dou Di Zhu games and reports side win rates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts simOptions

	cmd := &cobra.Command{
		Use:           "ddzsim",
		Short:         "Simulate bot-only Dou Di Zhu games",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			summary, err := simulate(opts, logger)
			if err != nil {
				return err
			}
			summary.print(cmd.OutOrStdout())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.games, "games", 100, "number of games to play")
	flags.Int64Var(&opts.seed, "seed", 1, "seed for dealing and bidding")
	flags.StringVar(&opts.level, "level", "", "bot level for every seat: standard or smart (default from config)")
	flags.StringVar(&opts.configPath, "config", "", "path to a game config file")
	flags.StringVar(&opts.tier, "tier", "", "bet tier used for settlement")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every game")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
