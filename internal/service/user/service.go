package user

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/metrics"
)

type UserServiceImpl struct {
	user.UserRepository
	branchService branch.BranchService
}

func NewUserService(userRepository user.UserRepository, branchService branch.BranchService) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		branchService:  branchService,
	}
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context, actor access.Actor) (user.MeResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.MeResponse{}, fmt.Errorf("failed to get current user: %w", err)
	}

	hierarchy, err := s.branchService.Hierarchy(ctx)
	if err != nil {
		return user.MeResponse{}, err
	}

	current := u.Actor()
	return user.MeResponse{
		UserResponse:        u.ToResponse(),
		Permissions:         access.RolePermissions(current.Role),
		AccessibleBranchIDs: current.AccessibleBranches(hierarchy),
	}, nil
}

// Update implements user.UserService.
//
// Users may edit their own profile. Editing someone else requires edit_user
// and reach over the target's home branch. Moving anyone to another branch
// requires edit_user and reach over the destination.
func (s *UserServiceImpl) Update(ctx context.Context, actor access.Actor, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	target, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	self := actor.UserID == target.ID
	canEditUsers := actor.Can(access.PermissionEditUser)

	if !self && !canEditUsers {
		metrics.RecordAccessDenied(metrics.ReasonPermission)
		return user.UserResponse{}, user.ErrCannotEditUser
	}

	if !actor.Role.IsAdmin() && (!self || req.BranchID != nil) {
		hierarchy, err := s.branchService.Hierarchy(ctx)
		if err != nil {
			return user.UserResponse{}, err
		}

		if !self && (target.BranchID == nil || !actor.CanAccessBranch(*target.BranchID, hierarchy)) {
			metrics.RecordAccessDenied(metrics.ReasonBranch)
			return user.UserResponse{}, user.ErrCannotEditUser
		}

		if req.BranchID != nil && !sameBranch(target.BranchID, *req.BranchID) {
			if !canEditUsers || !actor.CanAccessBranch(*req.BranchID, hierarchy) {
				metrics.RecordAccessDenied(metrics.ReasonBranch)
				return user.UserResponse{}, user.ErrCannotChangeBranch
			}
		}
	}

	if req.BranchID != nil && !sameBranch(target.BranchID, *req.BranchID) {
		if _, err := s.branchService.GetByID(ctx, *req.BranchID); err != nil {
			return user.UserResponse{}, err
		}
	}

	updated, err := s.UserRepository.Update(ctx, id, req)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	return updated.ToResponse(), nil
}

func sameBranch(current *string, next string) bool {
	return current != nil && *current == next
}
