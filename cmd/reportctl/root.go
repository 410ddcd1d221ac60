package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	envBaseURL = "REPORTCTL_BASE_URL"
	envToken   = "REPORTCTL_TOKEN"
)

type globalOptions struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "reportctl",
		Short:         "Branch daily report client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	baseURL := os.Getenv(envBaseURL)
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", baseURL, "API base URL (env "+envBaseURL+")")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv(envToken), "access token (env "+envToken+")")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newMeCmd(opts))
	cmd.AddCommand(newNavigationCmd(opts))
	cmd.AddCommand(newBranchesCmd(opts))
	cmd.AddCommand(newReportsCmd(opts))
	cmd.AddCommand(newAuditCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(code)
	}
}
