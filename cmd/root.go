// Package cmd implements the regexia command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/Ruchi0214/Regexia/internal/bootstrap"
	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	cfgFile string
	debug   bool
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "regexia",
		Short: "Score text for manipulative language",
		Long: `Regexia scores documents against a catalog of named rules, ranks them,
and highlights the matches in the highest scoring ones.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCommand(),
		newAnalyzeCommand(),
		newRulesCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// loadDeps loads configuration and the logger shared by every command.
// One-shot commands log to stderr so their stdout stays machine-readable.
func loadDeps(logOutputs ...string) (*config.Config, logger.Logger, error) {
	cfg, err := bootstrap.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}

	log, err := bootstrap.CreateLogger(cfg, logOutputs...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "regexia version %s\n", Version)
		},
	}
}
