package report

import (
	"math"
	"strings"

	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type CreateReportRequest struct {
	Date           string   `json:"date"`
	BranchID       string   `json:"branchId"`
	WriteOffs      float64  `json:"writeOffs"`
	NinetyPlus     float64  `json:"ninetyPlus"`
	WriteOffsPlan  *float64 `json:"writeOffsPlan,omitempty"`
	NinetyPlusPlan *float64 `json:"ninetyPlusPlan,omitempty"`
	ReportType     Type     `json:"reportType"`
	Content        *string  `json:"content,omitempty"`
	PlanReportID   *string  `json:"planReportId,omitempty"`
}

func (r *CreateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	// Date
	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	// Branch
	if validator.IsEmpty(r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branchId",
			Message: "branchId is required",
		})
	}

	// Type
	if !r.ReportType.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "reportType",
			Message: "reportType must be one of: plan, actual",
		})
	}
	if r.ReportType == TypePlan && r.PlanReportID != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "planReportId",
			Message: "planReportId is only allowed on actual reports",
		})
	}

	// Amounts
	errs = appendAmountError(errs, FieldWriteOffs, r.WriteOffs)
	errs = appendAmountError(errs, FieldNinetyPlus, r.NinetyPlus)
	if r.WriteOffsPlan != nil {
		errs = appendAmountError(errs, FieldWriteOffsPlan, *r.WriteOffsPlan)
	}
	if r.NinetyPlusPlan != nil {
		errs = appendAmountError(errs, FieldNinetyPlusPlan, *r.NinetyPlusPlan)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateReportRequest struct {
	ID         string  `json:"id"`
	WriteOffs  float64 `json:"writeOffs"`
	NinetyPlus float64 `json:"ninetyPlus"`
	Content    *string `json:"content,omitempty"`
}

func (r *UpdateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	errs = appendAmountError(errs, FieldWriteOffs, r.WriteOffs)
	errs = appendAmountError(errs, FieldNinetyPlus, r.NinetyPlus)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	Status      Status  `json:"status"`
	Comments    *string `json:"comments,omitempty"`
	NotifyUsers bool    `json:"notifyUsers"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != StatusApproved && r.Status != StatusRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: approved, rejected",
		})
	}
	if r.Status == StatusRejected && (r.Comments == nil || validator.IsEmpty(*r.Comments)) {
		errs = append(errs, validator.ValidationError{
			Field:   "comments",
			Message: "comments are required when rejecting a report",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewResponse struct {
	Message string `json:"message"`
	Report  Report `json:"report"`
}

// ListFilter narrows GET /api/reports. Empty strings mean "any".
type ListFilter struct {
	Date       string `json:"date,omitempty"`
	BranchID   string `json:"branchId,omitempty"`
	ReportType Type   `json:"reportType,omitempty"`
	Status     Status `json:"status,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != "" {
		if _, ok := validator.IsValidDate(f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.ReportType != "" && !f.ReportType.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "reportType",
			Message: "reportType must be one of: plan, actual",
		})
	}
	if f.Status != "" && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected",
		})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Limit < 0 || f.Limit > MaxPageSize {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize fills paging defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Scope restricts repository reads to a set of branches. All bypasses the set.
type Scope struct {
	All       bool
	BranchIDs []string
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

type ListResponse struct {
	Data       []Report    `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// TypeTotal is the aggregate of one report type over a day.
type TypeTotal struct {
	ReportType Type            `json:"reportType"`
	Count      int64           `json:"count"`
	Pending    int64           `json:"pending"`
	WriteOffs  decimal.Decimal `json:"writeOffs"`
	NinetyPlus decimal.Decimal `json:"ninetyPlus"`
}

type SummaryResponse struct {
	Date   string      `json:"date"`
	Totals []TypeTotal `json:"totals"`
}

// ParseType accepts the query form of a report type; empty means any.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return "", true
	}
	return t, t.Valid()
}

// EventReportReviewed is the notification type pushed to a submitter.
const EventReportReviewed = "report_reviewed"

// ReviewEvent is the payload of EventReportReviewed.
type ReviewEvent struct {
	ReportID   string  `json:"reportId"`
	ReportType Type    `json:"reportType"`
	Status     Status  `json:"status"`
	Date       Date    `json:"date"`
	BranchName string  `json:"branchName"`
	Comments   *string `json:"comments,omitempty"`
	Message    string  `json:"message"`
}
