package http

import (
	"net/http"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/navigation"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/response"
)

type NavigationHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type navigationHandlerImpl struct {
	branchService branch.BranchService
}

func NewNavigationHandler(branchService branch.BranchService) NavigationHandler {
	return &navigationHandlerImpl{
		branchService: branchService,
	}
}

// Get handles GET /navigation
func (h *navigationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	hierarchy, err := h.branchService.Hierarchy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, navigation.ForActor(actor, hierarchy))
}
