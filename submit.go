package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"waterwise-login/app"
	"waterwise-login/config"
	"waterwise-login/login"
)

// terminalNavigator "navigates" by printing the absolute destination.
type terminalNavigator struct {
	out     io.Writer
	baseURL string
}

func (n terminalNavigator) Navigate(_ context.Context, target string) error {
	_, err := fmt.Fprintf(n.out, "Logged in. Continue at %s%s\n", strings.TrimRight(n.baseURL, "/"), target)
	return err
}

// NewSubmitCmd creates the submit subcommand, which runs one login form
// submission from the terminal.
func NewSubmitCmd() *cobra.Command {
	var email, password, endpoint, baseURL string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one login from the terminal",
		Long: `Submit validates the credentials, sends them to the configured backend and
prints where the browser would be sent next. The password is read from stdin
when --password is not given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if endpoint != "" {
				cfg.Transport.Kind = config.TransportHTTP
				cfg.Transport.Endpoint = endpoint
			}
			if baseURL != "" {
				cfg.Server.BaseURL = baseURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if password == "" {
				password, err = promptPassword(cmd)
				if err != nil {
					return err
				}
			}

			logger := newLogger(cmd, cfg)
			tr, err := app.NewTransport(cfg.Transport, logger)
			if err != nil {
				return err
			}

			nav := terminalNavigator{out: cmd.OutOrStdout(), baseURL: cfg.Server.BaseURL}
			ctrl, err := login.NewController(cfg.LoginSettings(), tr, nav, login.WithLogger(logger))
			if err != nil {
				return err
			}
			defer ctrl.Close()

			_ = ctrl.OnFieldChange(login.FieldEmail, email)
			_ = ctrl.OnFieldChange(login.FieldPassword, password)

			outcome, err := ctrl.OnSubmit(cmd.Context())
			if err != nil {
				printFieldErrors(cmd.ErrOrStderr(), login.FieldErrors(err))
				return err
			}

			state, ok := <-outcome
			if !ok {
				return oops.Code("LOGIN_ABANDONED").Errorf("login was abandoned before it settled")
			}
			if state.Phase != login.Succeeded {
				fmt.Fprintln(cmd.ErrOrStderr(), state.Message)
				return oops.Code("LOGIN_FAILED").With("form_id", ctrl.ID()).Errorf("%s", state.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email address")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "login endpoint URL (selects the http transport)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "origin used to print the redirect destination")

	return cmd
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", oops.Code("INPUT_FAILED").Wrapf(err, "read password")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printFieldErrors(w io.Writer, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, fields[name])
	}
}
