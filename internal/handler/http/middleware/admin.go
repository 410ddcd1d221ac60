package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/metrics"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !actor.Role.IsAdmin() {
			metrics.RecordAccessDenied(metrics.ReasonPermission)
			response.HandleError(w, access.ErrPermissionDenied)
			return
		}

		next.ServeHTTP(w, r)
	})
}
