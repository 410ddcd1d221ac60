package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	Create(ctx context.Context, r Report) (Report, error)
	GetByID(ctx context.Context, id string) (Report, error)
	// FindByKey returns the report for (date, branch, type) or ErrReportNotFound.
	FindByKey(ctx context.Context, date time.Time, branchID string, reportType Type) (Report, error)
	List(ctx context.Context, filter ListFilter, scope Scope) ([]Report, int64, error)
	ListPending(ctx context.Context, reportType Type, scope Scope) ([]Report, error)
	Update(ctx context.Context, r Report) (Report, error)
	SumByType(ctx context.Context, date time.Time, scope Scope) ([]TypeTotal, error)
}
