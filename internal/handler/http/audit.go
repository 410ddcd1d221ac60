package http

import (
	"net/http"
	"strings"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/audit"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{
		auditService: auditService,
	}
}

// List handles GET /audit-logs
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	filter := audit.ListFilter{
		EntityID: strings.TrimSpace(r.URL.Query().Get("entityId")),
		Page:     intQuery(r, "page", &errs),
		Limit:    intQuery(r, "limit", &errs),
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.auditService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
