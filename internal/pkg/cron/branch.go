package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
)

// BranchJobs keeps the cached branch hierarchy warm.
type BranchJobs struct {
	branchService branch.BranchService
	interval      time.Duration
}

func NewBranchJobs(branchService branch.BranchService, interval time.Duration) *BranchJobs {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BranchJobs{branchService: branchService, interval: interval}
}

func (j *BranchJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_branch_hierarchy", j.interval, j.RefreshHierarchy)
}

// RefreshHierarchy reloads the tree from the database into the cache.
func (j *BranchJobs) RefreshHierarchy(ctx context.Context) error {
	_, err := j.branchService.Refresh(ctx)
	return err
}
