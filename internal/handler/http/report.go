package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
)

type ReportHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// List handles GET /reports
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	var errs validator.ValidationErrors
	filter := report.ListFilter{
		Date:       strings.TrimSpace(query.Get("date")),
		BranchID:   strings.TrimSpace(query.Get("branchId")),
		ReportType: report.Type(strings.ToLower(strings.TrimSpace(query.Get("reportType")))),
		Status:     report.Status(strings.ToLower(strings.TrimSpace(query.Get("status")))),
		Page:       intQuery(r, "page", &errs),
		Limit:      intQuery(r, "limit", &errs),
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.reportService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /reports/{id}
func (h *reportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, report.ErrReportNotFound)
	if !ok {
		return
	}

	result, err := h.reportService.Get(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create handles POST /reports
func (h *reportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req report.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result)
}

// Update handles PATCH /reports
func (h *reportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req report.UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPending handles GET /reports/pending
func (h *reportHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	reportType, valid := report.ParseType(r.URL.Query().Get("type"))
	if !valid {
		response.HandleError(w, validator.ValidationErrors{{Field: "type", Message: "type must be one of: plan, actual"}})
		return
	}

	result, err := h.reportService.ListPending(r.Context(), actor, reportType)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		result = []report.Report{}
	}

	response.Success(w, result)
}

// Review handles POST /reports/{id}/approve
func (h *reportHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, report.ErrReportNotFound)
	if !ok {
		return
	}

	var req report.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.Review(r.Context(), actor, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary handles GET /reports/summary
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.Summary(r.Context(), actor, strings.TrimSpace(r.URL.Query().Get("date")))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
