package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/config"
	appHTTP "github.com/cmlabs-hris/branch-report-go/internal/handler/http"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/cache"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/cron"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/database"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/logger"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/sse"
	"github.com/cmlabs-hris/branch-report-go/internal/repository/postgresql"
	auditService "github.com/cmlabs-hris/branch-report-go/internal/service/audit"
	serviceAuth "github.com/cmlabs-hris/branch-report-go/internal/service/auth"
	branchService "github.com/cmlabs-hris/branch-report-go/internal/service/branch"
	reportService "github.com/cmlabs-hris/branch-report-go/internal/service/report"
	userService "github.com/cmlabs-hris/branch-report-go/internal/service/user"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: database.DefaultPoolOptions.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)

	var hierarchyCache cache.Cache = cache.NewMemoryCache()
	if addr := cfg.RedisAddr(); addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   "branch-report:",
		})
		if err != nil {
			log.Warn("Redis unavailable, using in-process cache", "addr", addr, "error", err)
		} else {
			defer redisCache.Close()
			hierarchyCache = redisCache
			log.Info("Connected to redis", "addr", addr)
		}
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(oauth.GoogleConfig{
			ClientID:     cfg.OAuth2Google.ClientID,
			ClientSecret: cfg.OAuth2Google.ClientSecret,
			RedirectURL:  cfg.OAuth2Google.RedirectURL,
			Scopes:       cfg.OAuth2Google.Scopes,
		})
	}

	hub := sse.NewHub()
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	// Repositories
	branchRepo := postgresql.NewBranchRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	transactor := postgresql.NewTransactor(db)

	// Services
	branchSvc := branchService.NewBranchService(branchRepo, hierarchyCache, cfg.Redis.TTL, log)
	authSvc := serviceAuth.NewAuthService(userRepo, jwtService)
	userSvc := userService.NewUserService(userRepo, branchSvc)
	auditSvc := auditService.NewAuditService(auditRepo, branchSvc)
	reportSvc := reportService.NewReportService(reportRepo, auditRepo, branchSvc, transactor, hub, log, now)

	// Warm the hierarchy cache; a failure is retried by the scheduler.
	if _, err := branchSvc.Refresh(ctx); err != nil {
		log.Warn("Initial branch hierarchy load failed", "error", err)
	}

	scheduler := cron.NewScheduler(log)
	cron.NewBranchJobs(branchSvc, cfg.App.HierarchyRefresh).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg.App, log, jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, googleService, cfg.App.FrontendURL, cfg.App.IsProduction()),
		Branch:       appHTTP.NewBranchHandler(branchSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		Navigation:   appHTTP.NewNavigationHandler(branchSvc),
		Audit:        appHTTP.NewAuditHandler(auditSvc),
		Notification: appHTTP.NewNotificationHandler(hub, jwtService),
	})

	// Notification streams end when their request context does.
	streamCtx, closeStreams := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}
	server.RegisterOnShutdown(closeStreams)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
