package logger

import (
	"io"
	"log/slog"

	"github.com/cmlabs-hris/branch-report-go/internal/config"
	"github.com/go-chi/httplog/v3"
)

const appName = "branch-report"

// New returns a JSON logger whose attribute names follow the ECS schema used
// by the request logger, tagged with the app, version and env.
func New(w io.Writer, cfg config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
}
