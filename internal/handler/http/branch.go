package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/response"
)

type BranchHandler interface {
	ListSimple(w http.ResponseWriter, r *http.Request)
	Hierarchy(w http.ResponseWriter, r *http.Request)
	RefreshHierarchy(w http.ResponseWriter, r *http.Request)
}

type branchHandlerImpl struct {
	branchService branch.BranchService
}

func NewBranchHandler(branchService branch.BranchService) BranchHandler {
	return &branchHandlerImpl{
		branchService: branchService,
	}
}

// ListSimple handles GET /branches/simple
func (h *branchHandlerImpl) ListSimple(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	branches, err := h.branchService.ListSimple(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, branches)
}

// Hierarchy handles GET /branches/hierarchy
func (h *branchHandlerImpl) Hierarchy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	hierarchy, err := h.branchService.AccessibleHierarchy(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if hierarchy == nil {
		hierarchy = access.Hierarchy{}
	}

	response.Success(w, hierarchy)
}

// RefreshHierarchy handles POST /branches/hierarchy/refresh
func (h *branchHandlerImpl) RefreshHierarchy(w http.ResponseWriter, r *http.Request) {
	hierarchy, err := h.branchService.Refresh(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Branch hierarchy refreshed", "branches", len(hierarchy))
	response.Success(w, hierarchy)
}
