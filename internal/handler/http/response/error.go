package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.First(), validationErrs.ToMap())
		return
	}

	message := func(fallback string) string {
		if msg, ok := report.UserMessage(err); ok {
			return msg
		}
		return fallback
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrGoogleAccountNotLinked):
		Forbidden(w, "No account is registered for this Google email")
	case errors.Is(err, auth.ErrGoogleEmailNotVerified):
		Forbidden(w, "Google email is not verified")

	// Access errors
	case errors.Is(err, access.ErrPermissionDenied):
		Error(w, http.StatusForbidden, "PERMISSION_DENIED", "You don't have permission to perform this action.", nil)
	case errors.Is(err, access.ErrNoBranchAssigned):
		Error(w, http.StatusForbidden, "NO_BRANCH_ASSIGNED", message("You are not assigned to any branch."), nil)
	case errors.Is(err, access.ErrBranchAccessDenied):
		Error(w, http.StatusForbidden, "BRANCH_ACCESS_DENIED", message("You don't have access to this branch."), nil)
	case errors.Is(err, report.ErrEditNotAllowed):
		Error(w, http.StatusForbidden, "EDIT_NOT_ALLOWED", message(err.Error()), nil)
	case errors.Is(err, report.ErrRejectedReportExpired):
		Error(w, http.StatusForbidden, "REJECTED_REPORT_EXPIRED", message(err.Error()), nil)

	// Report workflow errors
	case errors.Is(err, report.ErrPlanReportRequired):
		Conflict(w, "PLAN_REPORT_REQUIRED", message(err.Error()))
	case errors.Is(err, report.ErrPlanReportMismatch):
		Conflict(w, "PLAN_REPORT_MISMATCH", message(err.Error()))
	case errors.Is(err, report.ErrReportAlreadyReviewed):
		Conflict(w, "REPORT_ALREADY_REVIEWED", message(err.Error()))
	case errors.Is(err, report.ErrReportExists):
		Conflict(w, "REPORT_EXISTS", message(err.Error()))
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")

	// User and branch errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "EMAIL_EXISTS", "Email already registered")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "USERNAME_EXISTS", "Username already taken")
	case errors.Is(err, user.ErrCannotEditUser):
		Forbidden(w, "You can't edit this user")
	case errors.Is(err, user.ErrCannotChangeBranch):
		Forbidden(w, "You can't assign this branch")
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
