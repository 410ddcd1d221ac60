package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/client"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/reportview"
	"github.com/spf13/cobra"
)

type reportsOptions struct {
	*globalOptions
	Timezone string
}

// now returns the current time in the business timezone.
func (o *reportsOptions) now() (func() time.Time, error) {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("--tz: %w", err))
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

func newReportsCmd(global *globalOptions) *cobra.Command {
	opts := &reportsOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List, submit and review daily branch reports",
	}
	cmd.PersistentFlags().StringVar(&opts.Timezone, "tz", "Asia/Jakarta", "business timezone for today's date")

	cmd.AddCommand(newReportsListCmd(opts))
	cmd.AddCommand(newReportsGetCmd(opts))
	cmd.AddCommand(newReportsCreateCmd(opts))
	cmd.AddCommand(newReportsUpdateCmd(opts))
	cmd.AddCommand(newReportsPendingCmd(opts))
	cmd.AddCommand(newReportsReviewCmd(opts))
	cmd.AddCommand(newReportsSummaryCmd(opts))
	return cmd
}

func newReportsListCmd(opts *reportsOptions) *cobra.Command {
	var (
		filter     report.ListFilter
		reportType string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports matching a filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.ReportType = report.Type(strings.ToLower(strings.TrimSpace(reportType)))
			filter.Status = report.Status(strings.ToLower(strings.TrimSpace(status)))
			if err := filter.Validate(); err != nil {
				return err
			}

			c, err := newAPIClient(opts.globalOptions, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts.globalOptions)
			defer cancel()

			res, err := c.ListReports(ctx, filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&filter.Date, "date", "", "report date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.BranchID, "branch", "", "branch ID")
	cmd.Flags().StringVar(&reportType, "type", "", "plan or actual")
	cmd.Flags().StringVar(&status, "status", "", "pending, approved or rejected")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", report.DefaultPageSize, "page size")
	return cmd
}

func newReportsGetCmd(opts *reportsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts.globalOptions, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts.globalOptions)
			defer cancel()

			r, err := c.GetReport(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), r)
		},
	}
}

// sessionView builds a report view for the signed-in user.
func sessionView(ctx context.Context, c *client.Client, now func() time.Time) (*reportview.View, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	role, err := access.ParseRole(me.Role)
	if err != nil {
		return nil, err
	}
	actor := access.Actor{
		UserID:            me.ID,
		Role:              role,
		AssignedBranchIDs: me.AssignedBranchIDs,
	}
	if me.BranchID != nil {
		actor.BranchID = *me.BranchID
	}
	return reportview.New(c, actor, now), nil
}

type confirmation struct {
	Message string        `json:"message"`
	Report  report.Report `json:"report"`
}

func newReportsCreateCmd(opts *reportsOptions) *cobra.Command {
	var (
		date       string
		branchID   string
		reportType string
		form       reportview.Form
	)

	cmd := &cobra.Command{
		Use:   "create --type plan|actual",
		Short: "Submit a plan or actual report",
		Long: "Submit a plan or actual report for a branch and day. An actual report\n" +
			"is refused until a plan report exists for the same branch and day.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, ok := report.ParseType(reportType)
			if !ok || t == "" {
				return withCode(exitUsage, errors.New("--type must be plan or actual"))
			}
			now, err := opts.now()
			if err != nil {
				return err
			}

			c, err := newAPIClient(opts.globalOptions, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts.globalOptions)
			defer cancel()

			view, err := sessionView(ctx, c, now)
			if err != nil {
				return err
			}
			if date != "" {
				if err := view.SetDate(date); err != nil {
					return err
				}
			}
			if branchID != "" {
				view.SetBranch(branchID)
			}

			if err := view.BeginCreate(ctx, t); err != nil {
				return withCode(exitCode(err), errors.New(reportview.ErrorMessage(err)))
			}
			created, err := view.Create(ctx, form)
			if err != nil {
				return withCode(exitCode(err), errors.New(reportview.ErrorMessage(err)))
			}
			return writeJSON(cmd.OutOrStdout(), confirmation{Message: report.MsgCreated, Report: created})
		},
	}

	cmd.Flags().StringVar(&reportType, "type", "", "plan or actual")
	cmd.Flags().StringVar(&date, "date", "", "report date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&branchID, "branch", "", "branch ID, defaults to your home branch")
	cmd.Flags().StringVar(&form.WriteOffs, "write-offs", "", "write-offs amount")
	cmd.Flags().StringVar(&form.NinetyPlus, "ninety-plus", "", "90+ days amount")
	cmd.Flags().StringVar(&form.Content, "content", "", "free-text notes")
	return cmd
}

func newReportsUpdateCmd(opts *reportsOptions) *cobra.Command {
	var form reportview.Form

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a pending report or resubmit a rejected one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.now()
			if err != nil {
				return err
			}

			c, err := newAPIClient(opts.globalOptions, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts.globalOptions)
			defer cancel()

			view, err := sessionView(ctx, c, now)
			if err != nil {
				return err
			}
			current, err := c.GetReport(ctx, args[0])
			if err != nil {
				return err
			}
			if err := view.BeginEdit(current); err != nil {
				return withCode(exitValidation, errors.New(reportview.ErrorMessage(err)))
			}
			msg, err := view.SubmitEdit(ctx, form)
			if err != nil {
				return withCode(exitCode(err), errors.New(reportview.ErrorMessage(err)))
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"message": msg})
		},
	}

	cmd.Flags().StringVar(&form.WriteOffs, "write-offs", "", "write-offs amount")
	cmd.Flags().StringVar(&form.NinetyPlus, "ninety-plus", "", "90+ days amount")
	cmd.Flags().StringVar(&form.Content, "content", "", "free-text notes")
	return cmd
}

func newReportsPendingCmd(opts *reportsOptions) *cobra.Command {
	var reportType string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List reports waiting for review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, ok := report.ParseType(reportType)
			if !ok {
				return withCode(exitUsage, errors.New("--type must be plan or actual"))
			}

			c, err := newAPIClient(opts.globalOptions, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts.globalOptions)
			defer cancel()

			reports, err := c.PendingReports(ctx, t)
			if err != nil {
				return err
			}
			if reports == nil {
				reports = []report.Report{}
			}
			return writeJSON(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().StringVar(&reportType, "type", "", "plan or actual, both when empty")
	return cmd
}

func newReportsReviewCmd(opts *reportsOptions) *cobra.Command {
	var (
		reject   bool
		comments string
		notify   bool
	)

	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Approve a pending report, or reject it with --reject --comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := report.ReviewRequest{Status: report.StatusApproved, NotifyUsers: notify}
			if reject {
				req.Status = report.StatusRejected
			}
			if c := strings.TrimSpace(comments); c != "" {
				req.Comments = &c
			}
			if err := req.Validate(); err != nil {
				return err
			}

			c, err := newAPIClient(opts.globalOptions, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts.globalOptions)
			defer cancel()

			res, err := c.ReviewReport(ctx, args[0], req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&reject, "reject", false, "reject instead of approve")
	cmd.Flags().StringVar(&comments, "comments", "", "review comments, required when rejecting")
	cmd.Flags().BoolVar(&notify, "notify", true, "notify the submitter")
	return cmd
}

func newReportsSummaryCmd(opts *reportsOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-type totals for a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAPIClient(opts.globalOptions, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts.globalOptions)
			defer cancel()

			res, err := c.Summary(ctx, date)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "report date (YYYY-MM-DD), defaults to today")
	return cmd
}
