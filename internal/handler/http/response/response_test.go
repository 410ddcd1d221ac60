package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"plan required", fmt.Errorf("create: %w", report.ErrPlanReportRequired), http.StatusConflict, "PLAN_REPORT_REQUIRED",
			"You need to create a Morning Plan report before creating an Evening Actual report for the same day and branch."},
		{"expired rejection", report.ErrRejectedReportExpired, http.StatusForbidden, "REJECTED_REPORT_EXPIRED",
			"You can only edit rejected reports from today's session."},
		{"foreign branch", report.ErrEditNotAllowed, http.StatusForbidden, "EDIT_NOT_ALLOWED",
			"You can only edit reports for your assigned branch."},
		{"branch denied", access.ErrBranchAccessDenied, http.StatusForbidden, "BRANCH_ACCESS_DENIED",
			"You don't have access to this branch."},
		{"permission", fmt.Errorf("view_reports: %w", access.ErrPermissionDenied), http.StatusForbidden, "PERMISSION_DENIED",
			"You don't have permission to perform this action."},
		{"already reviewed", report.ErrReportAlreadyReviewed, http.StatusConflict, "REPORT_ALREADY_REVIEWED",
			"This report has already been reviewed."},
		{"not found", report.ErrReportNotFound, http.StatusNotFound, "NOT_FOUND", "Report not found"},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
			"An unexpected error occurred"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decode(t, rec)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Error)
		})
	}
}

func TestHandleError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "writeOffs", Message: "Please enter a valid Write-offs amount"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "Please enter a valid Write-offs amount", body.Error)
	assert.Equal(t, map[string]string{"writeOffs": "Please enter a valid Write-offs amount"}, body.Details)
}
