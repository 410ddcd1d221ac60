package main

import (
	"context"
	"errors"
	"strings"

	"github.com/cmlabs-hris/branch-report-go/internal/client"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAPIClient(opts *globalOptions, requireToken bool) (*client.Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, withCode(exitUsage, errors.New("--base-url is required"))
	}
	if requireToken && strings.TrimSpace(opts.Token) == "" {
		return nil, withCode(exitUsage, errors.New("--token is required (or set "+envToken+")"))
	}
	c, err := client.New(opts.BaseURL, client.WithToken(strings.TrimSpace(opts.Token)))
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	return c, nil
}

// requestContext bounds one command by --timeout and tags its requests with
// a single request ID so server logs can be correlated.
func requestContext(cmd *cobra.Command, opts *globalOptions) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = client.WithRequestID(ctx, uuid.NewString())
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return context.WithCancel(ctx)
}
