package report

import (
	"context"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

// ReportService defines the report workflow operations
type ReportService interface {
	List(ctx context.Context, actor access.Actor, filter ListFilter) (ListResponse, error)
	Get(ctx context.Context, actor access.Actor, id string) (Report, error)
	Create(ctx context.Context, actor access.Actor, req CreateReportRequest) (Report, error)
	Update(ctx context.Context, actor access.Actor, req UpdateReportRequest) (Report, error)
	ListPending(ctx context.Context, actor access.Actor, reportType Type) ([]Report, error)
	Review(ctx context.Context, actor access.Actor, id string, req ReviewRequest) (ReviewResponse, error)
	Summary(ctx context.Context, actor access.Actor, date string) (SummaryResponse, error)
}
