package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/audit"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/database"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/sse"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Notifier delivers an event to every open stream of a user.
type Notifier interface {
	Publish(userID string, event sse.Event) int
}

type ReportServiceImpl struct {
	reportRepository report.ReportRepository
	auditRepository  audit.AuditRepository
	branchService    branch.BranchService
	tx               database.Transactor
	notifier         Notifier
	logger           *slog.Logger
	now              func() time.Time
}

// NewReportService wires the report workflow. now must return times in the
// business timezone; it decides what "today" means.
func NewReportService(
	reportRepository report.ReportRepository,
	auditRepository audit.AuditRepository,
	branchService branch.BranchService,
	tx database.Transactor,
	notifier Notifier,
	logger *slog.Logger,
	now func() time.Time,
) report.ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		reportRepository: reportRepository,
		auditRepository:  auditRepository,
		branchService:    branchService,
		tx:               tx,
		notifier:         notifier,
		logger:           logger,
		now:              now,
	}
}

func (s *ReportServiceImpl) require(actor access.Actor, p access.Permission) error {
	if !actor.Can(p) {
		metrics.RecordAccessDenied(metrics.ReasonPermission)
		return fmt.Errorf("%s: %w", p, access.ErrPermissionDenied)
	}
	return nil
}

// scope resolves the branches actor may read.
func (s *ReportServiceImpl) scope(ctx context.Context, actor access.Actor) (report.Scope, access.Hierarchy, error) {
	if actor.Role.IsAdmin() {
		return report.Scope{All: true}, nil, nil
	}
	hierarchy, err := s.branchService.Hierarchy(ctx)
	if err != nil {
		return report.Scope{}, nil, err
	}
	return report.Scope{BranchIDs: actor.AccessibleBranches(hierarchy)}, hierarchy, nil
}

func (s *ReportServiceImpl) checkBranch(ctx context.Context, actor access.Actor, branchID string) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	hierarchy, err := s.branchService.Hierarchy(ctx)
	if err != nil {
		return err
	}
	if !actor.CanAccessBranch(branchID, hierarchy) {
		metrics.RecordAccessDenied(metrics.ReasonBranch)
		return access.ErrBranchAccessDenied
	}
	return nil
}

// List implements report.ReportService.
func (s *ReportServiceImpl) List(ctx context.Context, actor access.Actor, filter report.ListFilter) (report.ListResponse, error) {
	if err := s.require(actor, access.PermissionViewReports); err != nil {
		return report.ListResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return report.ListResponse{}, err
	}
	filter.Normalize()

	scope, hierarchy, err := s.scope(ctx, actor)
	if err != nil {
		return report.ListResponse{}, err
	}
	if filter.BranchID != "" && !scope.All && !actor.CanAccessBranch(filter.BranchID, hierarchy) {
		metrics.RecordAccessDenied(metrics.ReasonBranch)
		return report.ListResponse{}, access.ErrBranchAccessDenied
	}

	reports, total, err := s.reportRepository.List(ctx, filter, scope)
	if err != nil {
		return report.ListResponse{}, fmt.Errorf("failed to list reports: %w", err)
	}

	pagination := report.NewPagination(total, filter.Page, filter.Limit)
	return report.ListResponse{Data: reports, Pagination: &pagination}, nil
}

// Get implements report.ReportService.
func (s *ReportServiceImpl) Get(ctx context.Context, actor access.Actor, id string) (report.Report, error) {
	if err := s.require(actor, access.PermissionViewReports); err != nil {
		return report.Report{}, err
	}

	r, err := s.reportRepository.GetByID(ctx, id)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to get report: %w", err)
	}
	if err := s.checkBranch(ctx, actor, r.Branch.ID); err != nil {
		return report.Report{}, err
	}
	return r, nil
}

// Create implements report.ReportService.
func (s *ReportServiceImpl) Create(ctx context.Context, actor access.Actor, req report.CreateReportRequest) (report.Report, error) {
	if err := s.require(actor, access.PermissionCreateReports); err != nil {
		return report.Report{}, err
	}
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}
	if !actor.HasAnyBranch() {
		metrics.RecordAccessDenied(metrics.ReasonBranch)
		return report.Report{}, access.ErrNoBranchAssigned
	}
	if err := s.checkBranch(ctx, actor, req.BranchID); err != nil {
		return report.Report{}, err
	}

	date, err := report.ParseDate(req.Date)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to parse report date: %w", err)
	}

	if req.ReportType == report.TypeActual {
		var plan *report.Report
		found, err := s.reportRepository.FindByKey(ctx, date.Time, req.BranchID, report.TypePlan)
		switch {
		case err == nil:
			plan = &found
		case !errors.Is(err, report.ErrReportNotFound):
			return report.Report{}, fmt.Errorf("failed to look up plan report: %w", err)
		}
		if err := report.CheckPlanLink(&req, plan); err != nil {
			return report.Report{}, err
		}
	}

	newReport := report.Report{
		Date:           date,
		Branch:         report.BranchRef{ID: req.BranchID},
		WriteOffs:      req.WriteOffs,
		NinetyPlus:     req.NinetyPlus,
		WriteOffsPlan:  req.WriteOffsPlan,
		NinetyPlusPlan: req.NinetyPlusPlan,
		ReportType:     req.ReportType,
		Status:         report.StatusPending,
		Content:        req.Content,
		SubmittedBy:    report.UserRef{ID: actor.UserID},
		PlanReportID:   req.PlanReportID,
	}

	var created report.Report
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.reportRepository.Create(ctx, newReport)
		if err != nil {
			return err
		}
		return s.audit(ctx, actor, audit.ActionCreate, nil, &created,
			fmt.Sprintf("Created %s report for %s on %s", created.ReportType, created.Branch.Code, created.Date))
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}

	metrics.RecordReportSubmitted(string(created.ReportType), false)
	s.logger.InfoContext(ctx, "report created",
		"report_id", created.ID, "branch_id", created.Branch.ID, "type", created.ReportType, "user_id", actor.UserID)

	return created, nil
}

// Update implements report.ReportService.
func (s *ReportServiceImpl) Update(ctx context.Context, actor access.Actor, req report.UpdateReportRequest) (report.Report, error) {
	if err := s.require(actor, access.PermissionEditReports); err != nil {
		return report.Report{}, err
	}
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}

	existing, err := s.reportRepository.GetByID(ctx, req.ID)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to get report: %w", err)
	}
	if err := report.CanEdit(actor, existing, s.now()); err != nil {
		metrics.RecordAccessDenied(metrics.ReasonEdit)
		return report.Report{}, err
	}

	before := existing
	resubmitted := report.ApplyUpdate(&existing, req)

	var updated report.Report
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.reportRepository.Update(ctx, existing)
		if err != nil {
			return err
		}
		description := fmt.Sprintf("Updated %s report for %s on %s", updated.ReportType, updated.Branch.Code, updated.Date)
		if resubmitted {
			description = fmt.Sprintf("Resubmitted %s report for %s on %s", updated.ReportType, updated.Branch.Code, updated.Date)
		}
		return s.audit(ctx, actor, audit.ActionUpdate, &before, &updated, description)
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to update report: %w", err)
	}

	if resubmitted {
		metrics.RecordReportSubmitted(string(updated.ReportType), true)
	}
	s.logger.InfoContext(ctx, "report updated",
		"report_id", updated.ID, "resubmitted", resubmitted, "user_id", actor.UserID)

	return updated, nil
}

// ListPending implements report.ReportService.
func (s *ReportServiceImpl) ListPending(ctx context.Context, actor access.Actor, reportType report.Type) ([]report.Report, error) {
	if err := s.require(actor, access.PermissionReviewReports); err != nil {
		return nil, err
	}
	if reportType != "" && !reportType.Valid() {
		return nil, validator.ValidationErrors{{Field: "type", Message: "type must be one of: plan, actual"}}
	}

	scope, _, err := s.scope(ctx, actor)
	if err != nil {
		return nil, err
	}

	reports, err := s.reportRepository.ListPending(ctx, reportType, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reports: %w", err)
	}
	return reports, nil
}

// Review implements report.ReportService.
func (s *ReportServiceImpl) Review(ctx context.Context, actor access.Actor, id string, req report.ReviewRequest) (report.ReviewResponse, error) {
	if err := s.require(actor, access.PermissionReviewReports); err != nil {
		return report.ReviewResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.ReviewResponse{}, err
	}

	existing, err := s.reportRepository.GetByID(ctx, id)
	if err != nil {
		return report.ReviewResponse{}, fmt.Errorf("failed to get report: %w", err)
	}
	if err := s.checkBranch(ctx, actor, existing.Branch.ID); err != nil {
		return report.ReviewResponse{}, err
	}

	before := existing
	if err := report.Review(&existing, actor.UserID, req, s.now()); err != nil {
		return report.ReviewResponse{}, err
	}

	var reviewed report.Report
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		reviewed, err = s.reportRepository.Update(ctx, existing)
		if err != nil {
			return err
		}
		return s.audit(ctx, actor, audit.ActionReview, &before, &reviewed,
			fmt.Sprintf("Marked %s report for %s on %s as %s", reviewed.ReportType, reviewed.Branch.Code, reviewed.Date, reviewed.Status))
	})
	if err != nil {
		return report.ReviewResponse{}, fmt.Errorf("failed to review report: %w", err)
	}

	metrics.RecordReportReviewed(string(reviewed.Status))
	message := report.ReviewMessage(reviewed.Status)

	if req.NotifyUsers {
		s.notify(ctx, reviewed, message)
	}

	return report.ReviewResponse{Message: message, Report: reviewed}, nil
}

// Summary implements report.ReportService. An empty date means today.
func (s *ReportServiceImpl) Summary(ctx context.Context, actor access.Actor, date string) (report.SummaryResponse, error) {
	if err := s.require(actor, access.PermissionViewReports); err != nil {
		return report.SummaryResponse{}, err
	}

	day := report.NewDate(s.now())
	if date != "" {
		parsed, err := report.ParseDate(date)
		if err != nil {
			return report.SummaryResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
		}
		day = parsed
	}

	scope, _, err := s.scope(ctx, actor)
	if err != nil {
		return report.SummaryResponse{}, err
	}

	totals, err := s.reportRepository.SumByType(ctx, day.Time, scope)
	if err != nil {
		return report.SummaryResponse{}, fmt.Errorf("failed to summarise reports: %w", err)
	}

	byType := make(map[report.Type]report.TypeTotal, len(totals))
	for _, t := range totals {
		byType[t.ReportType] = t
	}
	result := make([]report.TypeTotal, 0, 2)
	for _, t := range []report.Type{report.TypePlan, report.TypeActual} {
		total, ok := byType[t]
		if !ok {
			total = report.TypeTotal{ReportType: t, WriteOffs: decimal.Zero, NinetyPlus: decimal.Zero}
		}
		result = append(result, total)
	}

	return report.SummaryResponse{Date: day.String(), Totals: result}, nil
}

func (s *ReportServiceImpl) audit(ctx context.Context, actor access.Actor, action audit.Action, before, after *report.Report, description string) error {
	entry := audit.Log{
		UserID:      actor.UserID,
		EntityType:  audit.EntityReport,
		Action:      action,
		Description: description,
	}
	if after != nil {
		entry.EntityID = after.ID
		branchID := after.Branch.ID
		entry.BranchID = &branchID
	}

	var err error
	if before != nil {
		if entry.Before, err = json.Marshal(before); err != nil {
			return fmt.Errorf("failed to encode audit snapshot: %w", err)
		}
	}
	if after != nil {
		if entry.After, err = json.Marshal(after); err != nil {
			return fmt.Errorf("failed to encode audit snapshot: %w", err)
		}
	}

	if err := s.auditRepository.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// notify pushes the review outcome to the submitter's open streams.
func (s *ReportServiceImpl) notify(ctx context.Context, r report.Report, message string) {
	if s.notifier == nil {
		return
	}
	delivered := s.notifier.Publish(r.SubmittedBy.ID, sse.Event{
		Type: report.EventReportReviewed,
		Data: report.ReviewEvent{
			ReportID:   r.ID,
			ReportType: r.ReportType,
			Status:     r.Status,
			Date:       r.Date,
			BranchName: r.Branch.Name,
			Comments:   r.Comments,
			Message:    message,
		},
	})
	s.logger.DebugContext(ctx, "review notification published",
		"report_id", r.ID, "user_id", r.SubmittedBy.ID, "deliveries", delivered)
}
