package cmd

import (
	"github.com/Ruchi0214/Regexia/internal/bootstrap"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadDeps()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			log.Info("Starting regexia",
				logger.String("version", Version),
				logger.Int("port", cfg.Service.Port),
			)
			if err = bootstrap.Serve(cmd.Context(), cfg, log); err != nil {
				log.Error("Server stopped with error", logger.Error(err))
				return err
			}
			return nil
		},
	}
}
