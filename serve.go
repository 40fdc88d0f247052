package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"waterwise-login/app"
	"waterwise-login/config"
	"waterwise-login/logging"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the login form over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := newLogger(cmd, cfg)

			application, err := app.New(cfg, logger)
			if err != nil {
				logging.LogError(logger, "failed to initialize application", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Start(ctx); err != nil {
				logging.LogError(logger, "server stopped with error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}
