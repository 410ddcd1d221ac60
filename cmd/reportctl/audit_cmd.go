package main

import (
	"github.com/cmlabs-hris/branch-report-go/internal/domain/audit"
	"github.com/spf13/cobra"
)

func newAuditCmd(opts *globalOptions) *cobra.Command {
	var filter audit.ListFilter

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit log entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := filter.Validate(); err != nil {
				return err
			}

			c, err := newAPIClient(opts, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts)
			defer cancel()

			res, err := c.AuditLogs(ctx, filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&filter.EntityID, "entity", "", "only entries for this entity ID")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", audit.DefaultPageSize, "page size")
	return cmd
}
