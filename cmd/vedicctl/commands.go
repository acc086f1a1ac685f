package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"vedic_counter/internal/client"

	"github.com/spf13/cobra"
)

const (
	envServer     = "VEDIC_SERVER"
	envToken      = "VEDIC_TOKEN"
	defaultServer = "http://localhost:8080"
	requestTimeout = 10 * time.Second
)

type options struct {
	server string
	token  string
}

// newRootCmd builds the command tree. Flags default to VEDIC_SERVER and VEDIC_TOKEN.
func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "vedicctl",
		Short:         "Drive a Vedic Counter server from the terminal",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", envOr(envServer, defaultServer), "server base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv(envToken), "bearer token from `vedicctl login`")

	root.AddCommand(
		stateCmd(opts),
		mutationCmd(opts, "inc", "Add one bead", (*client.Client).Increment),
		mutationCmd(opts, "dec", "Remove one bead (never below zero)", (*client.Client).Decrement),
		startCmd(opts),
		resetCmd(opts),
		mutationCmd(opts, "pause", "Pause the session timer", (*client.Client).PauseTimer),
		mutationCmd(opts, "resume", "Resume the session timer", (*client.Client).ResumeTimer),
		loginCmd(opts),
		whoamiCmd(opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (o *options) client() *client.Client {
	return client.New(o.server, o.token)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout)
}

func stateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current count, cycles and timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			view, err := opts.client().State(ctx)
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

type mutation func(*client.Client, context.Context) (client.Result, error)

func mutationCmd(opts *options, use, short string, call mutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := call(opts.client(), ctx)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func startCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start N",
		Short: "Set the starting number; non-numeric input counts as 0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := opts.client().SetStartingNumber(ctx, args[0])
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func resetCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the counter, cycles and timer after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !yes && !confirmReset(cmd.InOrStdin(), out) {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := opts.client().Reset(ctx, true)
			if err != nil {
				return err
			}
			printResult(out, res)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func loginCmd(opts *options) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a token for --token or VEDIC_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			token, err := opts.client().SignIn(ctx, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func whoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the token was issued to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			a, err := opts.client().Me(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", a.Username, a.UserID)
			return nil
		},
	}
}
