package branch

import (
	"context"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

type BranchService interface {
	// Hierarchy returns the full branch tree, served from cache when warm.
	Hierarchy(ctx context.Context) (access.Hierarchy, error)
	// Refresh reloads the tree from storage and rewrites the cache.
	Refresh(ctx context.Context) (access.Hierarchy, error)
	ListSimple(ctx context.Context, actor access.Actor) ([]SimpleBranch, error)
	AccessibleHierarchy(ctx context.Context, actor access.Actor) (access.Hierarchy, error)
	GetByID(ctx context.Context, id string) (Branch, error)
}
