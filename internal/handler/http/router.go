package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/branch-report-go/internal/config"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Branch       BranchHandler
	Report       ReportHandler
	User         UserHandler
	Navigation   NavigationHandler
	Audit        AuditHandler
	Notification NotificationHandler
}

func NewRouter(cfg config.AppConfig, logger *slog.Logger, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Route("/oauth/google", func(r chi.Router) {
				r.Get("/", h.Auth.LoginWithGoogle)
				r.Get("/callback", h.Auth.OAuthCallbackGoogle)
			})
		})

		// EventSource authenticates with a query token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/me", h.User.Me)
			r.Get("/navigation", h.Navigation.Get)
			r.Get("/notifications/sse-token", h.Notification.GetSSEToken)

			r.Route("/branches", func(r chi.Router) {
				r.Get("/simple", h.Branch.ListSimple)
				r.Get("/hierarchy", h.Branch.Hierarchy)

				// Admin only
				r.With(middleware.AdminOnly).Post("/hierarchy/refresh", h.Branch.RefreshHierarchy)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", h.Report.List)
				r.Post("/", h.Report.Create)
				r.Patch("/", h.Report.Update)
				r.Get("/summary", h.Report.Summary)
				r.Get("/{id}", h.Report.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyPermission(access.PermissionReviewReports, access.PermissionApproveReports))
					r.Get("/pending", h.Report.ListPending)
					r.Post("/{id}/approve", h.Report.Review)
				})
			})

			r.Patch("/users/{id}", h.User.Update)

			r.With(middleware.RequirePermission(access.PermissionViewAuditLogs)).Get("/audit-logs", h.Audit.List)
		})
	})
	return r
}
