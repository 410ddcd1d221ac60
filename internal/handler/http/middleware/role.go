package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/metrics"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !actor.Can(permission) {
				metrics.RecordAccessDenied(metrics.ReasonPermission)
				response.Error(w, http.StatusForbidden, "PERMISSION_DENIED",
					fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, actor.Role), nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission passes when the user holds at least one of permissions.
func RequireAnyPermission(permissions ...access.Permission) func(http.Handler) http.Handler {
	names := make([]string, len(permissions))
	for i, p := range permissions {
		names[i] = string(p)
	}
	required := strings.Join(names, "', '")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !actor.CanAny(permissions...) {
				metrics.RecordAccessDenied(metrics.ReasonPermission)
				response.Error(w, http.StatusForbidden, "PERMISSION_DENIED",
					fmt.Sprintf("Insufficient permissions: required one of '%s'", required), nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
