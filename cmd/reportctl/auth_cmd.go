package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *globalOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Sign in and print an access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return withCode(exitUsage, errors.New("--email is required"))
			}
			if password == "" {
				return withCode(exitUsage, errors.New("--password is required"))
			}

			c, err := newAPIClient(opts, false)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts)
			defer cancel()

			tok, err := c.Login(ctx, email, password)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tok)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newMeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user, permissions and accessible branches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAPIClient(opts, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts)
			defer cancel()

			me, err := c.Me(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), me)
		},
	}
}
