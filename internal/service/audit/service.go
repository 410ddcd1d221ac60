package audit

import (
	"context"
	"fmt"
	"math"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/audit"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/metrics"
)

type AuditServiceImpl struct {
	audit.AuditRepository
	branchService branch.BranchService
}

func NewAuditService(auditRepository audit.AuditRepository, branchService branch.BranchService) audit.AuditService {
	return &AuditServiceImpl{
		AuditRepository: auditRepository,
		branchService:   branchService,
	}
}

// List implements audit.AuditService. Non-admins only see entries of
// branches they can reach.
func (s *AuditServiceImpl) List(ctx context.Context, actor access.Actor, filter audit.ListFilter) (audit.ListResponse, error) {
	if !actor.Can(access.PermissionViewAuditLogs) {
		metrics.RecordAccessDenied(metrics.ReasonPermission)
		return audit.ListResponse{}, access.ErrPermissionDenied
	}
	if err := filter.Validate(); err != nil {
		return audit.ListResponse{}, err
	}
	filter.Normalize()

	var branchIDs []string
	if !actor.Role.IsAdmin() {
		hierarchy, err := s.branchService.Hierarchy(ctx)
		if err != nil {
			return audit.ListResponse{}, err
		}
		branchIDs = actor.AccessibleBranches(hierarchy)
	}

	logs, total, err := s.AuditRepository.List(ctx, filter, branchIDs)
	if err != nil {
		return audit.ListResponse{}, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return audit.ListResponse{
		Data: logs,
		Pagination: audit.Pagination{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	}, nil
}
