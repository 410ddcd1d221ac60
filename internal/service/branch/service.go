package branch

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/cache"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/metrics"
)

const hierarchyCacheKey = "branch:hierarchy"

type BranchServiceImpl struct {
	branchRepository branch.BranchRepository
	cache            cache.Cache
	ttl              time.Duration
	logger           *slog.Logger
}

func NewBranchService(branchRepository branch.BranchRepository, c cache.Cache, ttl time.Duration, logger *slog.Logger) branch.BranchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BranchServiceImpl{
		branchRepository: branchRepository,
		cache:            c,
		ttl:              ttl,
		logger:           logger,
	}
}

// Hierarchy implements branch.BranchService. Cache failures fall through to
// the database.
func (s *BranchServiceImpl) Hierarchy(ctx context.Context) (access.Hierarchy, error) {
	var cached access.Hierarchy
	hit, err := s.cache.GetJSON(ctx, hierarchyCacheKey, &cached)
	if err != nil {
		s.logger.WarnContext(ctx, "branch hierarchy cache read failed", "error", err)
	}
	metrics.RecordHierarchyCache(hit && err == nil)
	if hit && err == nil && cached != nil {
		return cached, nil
	}

	return s.Refresh(ctx)
}

// Refresh implements branch.BranchService.
func (s *BranchServiceImpl) Refresh(ctx context.Context) (access.Hierarchy, error) {
	hierarchy, err := s.branchRepository.Hierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load branch hierarchy: %w", err)
	}

	if err := s.cache.SetJSON(ctx, hierarchyCacheKey, hierarchy, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "branch hierarchy cache write failed", "error", err)
	}

	return hierarchy, nil
}

// ListSimple implements branch.BranchService. Admins get every branch.
func (s *BranchServiceImpl) ListSimple(ctx context.Context, actor access.Actor) ([]branch.SimpleBranch, error) {
	branches, err := s.branchRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	result := make([]branch.SimpleBranch, 0, len(branches))
	if actor.Role.IsAdmin() {
		for _, b := range branches {
			result = append(result, b.Simple())
		}
		return result, nil
	}

	hierarchy, err := s.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	accessible := actor.AccessibleBranches(hierarchy)
	for _, b := range branches {
		if slices.Contains(accessible, b.ID) {
			result = append(result, b.Simple())
		}
	}
	return result, nil
}

// AccessibleHierarchy implements branch.BranchService.
func (s *BranchServiceImpl) AccessibleHierarchy(ctx context.Context, actor access.Actor) (access.Hierarchy, error) {
	hierarchy, err := s.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsAdmin() {
		return hierarchy, nil
	}

	accessible := actor.AccessibleBranches(hierarchy)
	result := access.Hierarchy{}
	for _, n := range hierarchy {
		if slices.Contains(accessible, n.ID) {
			result = append(result, n)
		}
	}
	return result, nil
}

// GetByID implements branch.BranchService.
func (s *BranchServiceImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	b, err := s.branchRepository.GetByID(ctx, id)
	if err != nil {
		return branch.Branch{}, fmt.Errorf("failed to get branch %s: %w", id, err)
	}
	return b, nil
}
