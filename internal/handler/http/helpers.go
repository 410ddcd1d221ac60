package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// requireActor returns the session actor or answers 401.
func requireActor(w http.ResponseWriter, r *http.Request) (access.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return access.Actor{}, false
	}
	return actor, true
}

// intQuery parses an optional integer query parameter. Absent means 0.
func intQuery(r *http.Request, key string, errs *validator.ValidationErrors) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, validator.ValidationError{
			Field:   key,
			Message: key + " must be a number",
		})
		return 0
	}
	return n
}

// idParam returns the {id} path parameter. Anything that is not a UUID cannot
// name a stored row, so it is answered with notFound.
func idParam(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}
