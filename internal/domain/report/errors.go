package report

import (
	"errors"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

var (
	ErrReportNotFound        = errors.New("report not found")
	ErrReportExists          = errors.New("report already exists for this date, branch and type")
	ErrPlanReportRequired    = errors.New("plan report required before actual report")
	ErrPlanReportMismatch    = errors.New("plan report does not match branch and date")
	ErrEditNotAllowed        = errors.New("report belongs to another branch")
	ErrRejectedReportExpired = errors.New("rejected report is from a previous day")
	ErrReportAlreadyReviewed = errors.New("report has already been reviewed")
)

// Messages shown to users for workflow outcomes.
const (
	MsgCreated           = "Report created successfully"
	MsgUpdated           = "Report updated successfully"
	MsgResubmitted       = "Report resubmitted successfully. Waiting for approval."
	MsgApproved          = "Report approved successfully"
	MsgRejected          = "Report rejected successfully"
	MsgPlanRequiredTitle = "Plan Report Required"
)

var userMessages = map[error]string{
	ErrPlanReportRequired:        "You need to create a Morning Plan report before creating an Evening Actual report for the same day and branch.",
	ErrPlanReportMismatch:        "The selected plan report does not belong to the same day and branch.",
	ErrEditNotAllowed:            "You can only edit reports for your assigned branch.",
	ErrRejectedReportExpired:     "You can only edit rejected reports from today's session.",
	ErrReportAlreadyReviewed:     "This report has already been reviewed.",
	ErrReportExists:              "A report of this type already exists for this day and branch.",
	ErrReportNotFound:            "Report not found",
	access.ErrBranchAccessDenied: "You don't have access to this branch.",
	access.ErrNoBranchAssigned:   "You are not assigned to any branch. Contact an administrator.",
}

// UserMessage returns the sentence shown to users for a workflow error.
func UserMessage(err error) (string, bool) {
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}
