package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"waterwise-login/config"
	"waterwise-login/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command of the login CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waterwise-login",
		Short: "Login form server and terminal client",
		Long: `waterwise-login serves the login form over HTTP and can submit a single
login from the terminal against the same authentication backend.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSubmitCmd())

	return cmd
}

// newLogger builds the logger described by cfg on the command's error stream.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
}
