package branch

import (
	"context"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

type BranchRepository interface {
	GetByID(ctx context.Context, id string) (Branch, error)
	List(ctx context.Context) ([]Branch, error)
	// Hierarchy returns every branch reachable from a root with its
	// materialised root-to-node path, ordered by path.
	Hierarchy(ctx context.Context) (access.Hierarchy, error)
}
