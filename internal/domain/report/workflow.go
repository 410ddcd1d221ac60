package report

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
)

// Field identifies a numeric report input.
type Field struct {
	Name  string // JSON field name
	Label string // label shown to users
}

var (
	FieldWriteOffs      = Field{Name: "writeOffs", Label: "Write-offs"}
	FieldNinetyPlus     = Field{Name: "ninetyPlus", Label: "90+ Days"}
	FieldWriteOffsPlan  = Field{Name: "writeOffsPlan", Label: "Write-offs Plan"}
	FieldNinetyPlusPlan = Field{Name: "ninetyPlusPlan", Label: "90+ Days Plan"}
)

func (f Field) invalid() validator.ValidationError {
	return validator.ValidationError{
		Field:   f.Name,
		Message: "Please enter a valid " + f.Label + " amount",
	}
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func appendAmountError(errs validator.ValidationErrors, f Field, v float64) validator.ValidationErrors {
	if !validAmount(v) {
		return append(errs, f.invalid())
	}
	return errs
}

// ParseAmount converts raw form input into an amount. Empty input is zero;
// anything that is not a finite number >= 0 yields a field-scoped
// validator.ValidationErrors. Only decimal notation is accepted and "-0"
// reads as plain zero.
func ParseAmount(f Field, input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, nil
	}
	if isHexLiteral(s) {
		return 0, validator.ValidationErrors{f.invalid()}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !validAmount(v) {
		return 0, validator.ValidationErrors{f.invalid()}
	}
	if v == 0 {
		return 0, nil
	}
	return v, nil
}

func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// CanEdit decides whether actor may open r for editing at now. now must
// already be in the business timezone.
func CanEdit(actor access.Actor, r Report, now time.Time) error {
	if r.IsRejected() && !r.Date.SameDay(now) {
		return ErrRejectedReportExpired
	}
	if !actor.Role.IsAdmin() && (actor.BranchID == "" || actor.BranchID != r.Branch.ID) {
		return ErrEditNotAllowed
	}
	return nil
}

// ApplyUpdate writes the edited figures onto r. A rejected report goes back to
// pending with its review cleared; the return value tells whether that
// happened.
func ApplyUpdate(r *Report, req UpdateReportRequest) (resubmitted bool) {
	r.WriteOffs = req.WriteOffs
	r.NinetyPlus = req.NinetyPlus
	if req.Content != nil {
		r.Content = req.Content
	}

	if r.IsRejected() {
		r.Status = StatusPending
		r.ReviewedBy = nil
		r.ReviewedAt = nil
		r.Comments = nil
		return true
	}
	return false
}

// UpdateMessage is the confirmation shown after saving an edit of a report
// that had status before.
func UpdateMessage(before Status) string {
	if before == StatusRejected {
		return MsgResubmitted
	}
	return MsgUpdated
}

// CheckPlanLink enforces plan-before-actual. plan is the plan report found for
// the same date and branch, nil when none exists. On success the request's
// PlanReportID points at plan.
func CheckPlanLink(req *CreateReportRequest, plan *Report) error {
	if req.ReportType != TypeActual {
		return nil
	}
	if plan == nil {
		return ErrPlanReportRequired
	}
	if req.PlanReportID != nil && *req.PlanReportID != plan.ID {
		return ErrPlanReportMismatch
	}
	id := plan.ID
	req.PlanReportID = &id
	if req.WriteOffsPlan == nil {
		v := plan.WriteOffs
		req.WriteOffsPlan = &v
	}
	if req.NinetyPlusPlan == nil {
		v := plan.NinetyPlus
		req.NinetyPlusPlan = &v
	}
	return nil
}

// Review moves a pending report to its reviewed state.
func Review(r *Report, reviewerID string, req ReviewRequest, at time.Time) error {
	if !r.IsPending() {
		return ErrReportAlreadyReviewed
	}
	r.Status = req.Status
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &at
	r.Comments = req.Comments
	return nil
}

// ReviewMessage is the confirmation returned by the approve endpoint.
func ReviewMessage(status Status) string {
	if status == StatusRejected {
		return MsgRejected
	}
	return MsgApproved
}
