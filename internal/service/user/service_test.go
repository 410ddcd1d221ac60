package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *mockUserRepository) LinkGoogleAccount(ctx context.Context, userID, googleID string) error {
	args := m.Called(ctx, userID, googleID)
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(user.User), args.Error(1)
}

type stubBranchService struct {
	branch.BranchService
	hierarchy access.Hierarchy
}

func (s stubBranchService) Hierarchy(context.Context) (access.Hierarchy, error) {
	return s.hierarchy, nil
}

func (s stubBranchService) GetByID(_ context.Context, id string) (branch.Branch, error) {
	for _, n := range s.hierarchy {
		if n.ID == id {
			return branch.Branch{ID: n.ID, Name: n.Name, ParentID: n.ParentID}, nil
		}
	}
	return branch.Branch{}, fmt.Errorf("failed to get branch %s: %w", id, branch.ErrBranchNotFound)
}

func ptr(s string) *string { return &s }

var testHierarchy = access.Hierarchy{
	{ID: "A", Name: "Region A", Level: 0, Path: []string{"A"}},
	{ID: "B", Name: "Area B", ParentID: ptr("A"), Level: 1, Path: []string{"A", "B"}},
	{ID: "C", Name: "Branch C", ParentID: ptr("B"), Level: 2, Path: []string{"A", "B", "C"}},
	{ID: "D", Name: "Region D", Level: 0, Path: []string{"D"}},
}

func newTestService() (*mockUserRepository, user.UserService) {
	repo := new(mockUserRepository)
	return repo, NewUserService(repo, stubBranchService{hierarchy: testHierarchy})
}

func TestMe(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	repo.On("GetByID", ctx, "mgr").Return(user.User{
		ID: "mgr", Username: "mgr", Role: access.RoleBranchManager, BranchID: ptr("B"),
	}, nil)

	me, err := svc.Me(ctx, access.Actor{UserID: "mgr", Role: access.RoleBranchManager, BranchID: "B"})

	require.NoError(t, err)
	assert.Equal(t, "branch_manager", me.Role)
	assert.Equal(t, []string{"B", "C"}, me.AccessibleBranchIDs)
	assert.Contains(t, me.Permissions, access.PermissionReviewReports)
	assert.NotContains(t, me.Permissions, access.PermissionManageSettings)
	assert.Equal(t, []string{}, me.AssignedBranchIDs)
}

func TestUpdate_SelfProfile(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	me := access.Actor{UserID: "u1", Role: access.RoleUser, BranchID: "C"}
	repo.On("GetByID", ctx, "u1").Return(user.User{ID: "u1", Role: access.RoleUser, BranchID: ptr("C")}, nil)
	repo.On("Update", ctx, "u1", user.UpdateUserRequest{Email: ptr("new@example.com")}).
		Return(user.User{ID: "u1", Email: "new@example.com", Role: access.RoleUser}, nil)

	resp, err := svc.Update(ctx, me, "u1", user.UpdateUserRequest{Email: ptr("  NEW@example.com ")})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)
}

func TestUpdate_Refusals(t *testing.T) {
	ctx := context.Background()
	target := user.User{ID: "u2", Role: access.RoleUser, BranchID: ptr("C")}

	t.Run("other user without edit_user", func(t *testing.T) {
		repo, svc := newTestService()
		repo.On("GetByID", ctx, "u2").Return(target, nil)

		_, err := svc.Update(ctx, access.Actor{UserID: "u1", Role: access.RoleUser, BranchID: "C"}, "u2",
			user.UpdateUserRequest{Name: ptr("X")})
		assert.ErrorIs(t, err, user.ErrCannotEditUser)
	})

	t.Run("manager outside subtree", func(t *testing.T) {
		repo, svc := newTestService()
		repo.On("GetByID", ctx, "u2").Return(target, nil)

		_, err := svc.Update(ctx, access.Actor{UserID: "m", Role: access.RoleBranchManager, BranchID: "D"}, "u2",
			user.UpdateUserRequest{Name: ptr("X")})
		assert.ErrorIs(t, err, user.ErrCannotEditUser)
	})

	t.Run("self branch change", func(t *testing.T) {
		repo, svc := newTestService()
		repo.On("GetByID", ctx, "u2").Return(target, nil)

		_, err := svc.Update(ctx, access.Actor{UserID: "u2", Role: access.RoleUser, BranchID: "C"}, "u2",
			user.UpdateUserRequest{BranchID: ptr("B")})
		assert.ErrorIs(t, err, user.ErrCannotChangeBranch)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manager moving user out of reach", func(t *testing.T) {
		repo, svc := newTestService()
		repo.On("GetByID", ctx, "u2").Return(target, nil)

		_, err := svc.Update(ctx, access.Actor{UserID: "m", Role: access.RoleBranchManager, BranchID: "B"}, "u2",
			user.UpdateUserRequest{BranchID: ptr("D")})
		assert.ErrorIs(t, err, user.ErrCannotChangeBranch)
	})

	t.Run("empty body", func(t *testing.T) {
		_, svc := newTestService()

		_, err := svc.Update(ctx, access.Actor{UserID: "u2", Role: access.RoleUser}, "u2", user.UpdateUserRequest{})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestUpdate_ManagerMovesWithinSubtree(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	repo.On("GetByID", ctx, "u2").Return(user.User{ID: "u2", Role: access.RoleUser, BranchID: ptr("C")}, nil)
	repo.On("Update", ctx, "u2", user.UpdateUserRequest{BranchID: ptr("B")}).
		Return(user.User{ID: "u2", Role: access.RoleUser, BranchID: ptr("B")}, nil)

	resp, err := svc.Update(ctx, access.Actor{UserID: "m", Role: access.RoleBranchManager, BranchID: "A"}, "u2",
		user.UpdateUserRequest{BranchID: ptr("B")})

	require.NoError(t, err)
	assert.Equal(t, "B", *resp.BranchID)
}

func TestUpdate_AdminAssignsUnknownBranch(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	repo.On("GetByID", ctx, "u2").Return(user.User{ID: "u2", Role: access.RoleUser, BranchID: ptr("C")}, nil)

	_, err := svc.Update(ctx, access.Actor{UserID: "admin", Role: access.RoleAdmin}, "u2",
		user.UpdateUserRequest{BranchID: ptr("Z")})

	assert.ErrorIs(t, err, branch.ErrBranchNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_AdminAssignsExistingBranch(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	repo.On("GetByID", ctx, "u2").Return(user.User{ID: "u2", Role: access.RoleUser, BranchID: ptr("C")}, nil)
	repo.On("Update", ctx, "u2", user.UpdateUserRequest{BranchID: ptr("D")}).
		Return(user.User{ID: "u2", Role: access.RoleUser, BranchID: ptr("D")}, nil)

	resp, err := svc.Update(ctx, access.Actor{UserID: "admin", Role: access.RoleAdmin}, "u2",
		user.UpdateUserRequest{BranchID: ptr("D")})

	require.NoError(t, err)
	assert.Equal(t, "D", *resp.BranchID)
}
