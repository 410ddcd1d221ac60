package audit

import (
	"context"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

type AuditService interface {
	List(ctx context.Context, actor access.Actor, filter ListFilter) (ListResponse, error)
}
