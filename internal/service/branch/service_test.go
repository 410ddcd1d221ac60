package branch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBranchRepository struct {
	mock.Mock
}

func (m *mockBranchRepository) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(branch.Branch), args.Error(1)
}

func (m *mockBranchRepository) List(ctx context.Context) ([]branch.Branch, error) {
	args := m.Called(ctx)
	return args.Get(0).([]branch.Branch), args.Error(1)
}

func (m *mockBranchRepository) Hierarchy(ctx context.Context) (access.Hierarchy, error) {
	args := m.Called(ctx)
	return args.Get(0).(access.Hierarchy), args.Error(1)
}

func ptr(s string) *string { return &s }

// A <- B <- C, plus an unrelated root D.
var testHierarchy = access.Hierarchy{
	{ID: "A", Name: "Region A", Level: 0, Path: []string{"A"}},
	{ID: "B", Name: "Area B", ParentID: ptr("A"), Level: 1, Path: []string{"A", "B"}},
	{ID: "C", Name: "Branch C", ParentID: ptr("B"), Level: 2, Path: []string{"A", "B", "C"}},
	{ID: "D", Name: "Region D", Level: 0, Path: []string{"D"}},
}

var testBranches = []branch.Branch{
	{ID: "B", Code: "B", Name: "Area B"},
	{ID: "C", Code: "C", Name: "Branch C"},
	{ID: "D", Code: "D", Name: "Region D"},
	{ID: "A", Code: "A", Name: "Region A"},
}

func newTestService() (*mockBranchRepository, branch.BranchService) {
	repo := new(mockBranchRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, NewBranchService(repo, cache.NewMemoryCache(), time.Minute, logger)
}

func TestHierarchy_ServedFromCacheAfterFirstLoad(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	repo.On("Hierarchy", ctx).Return(testHierarchy, nil).Once()

	first, err := svc.Hierarchy(ctx)
	require.NoError(t, err)
	second, err := svc.Hierarchy(ctx)
	require.NoError(t, err)

	assert.Equal(t, testHierarchy, first)
	assert.Equal(t, testHierarchy, second)
	repo.AssertNumberOfCalls(t, "Hierarchy", 1)
}

func TestHierarchy_RepositoryError(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	boom := errors.New("db down")
	repo.On("Hierarchy", ctx).Return(access.Hierarchy(nil), boom)

	_, err := svc.Hierarchy(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestListSimple(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees all", func(t *testing.T) {
		repo, svc := newTestService()
		repo.On("List", ctx).Return(testBranches, nil)

		got, err := svc.ListSimple(ctx, access.Actor{UserID: "a", Role: access.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, got, 4)
		repo.AssertNotCalled(t, "Hierarchy", mock.Anything)
	})

	t.Run("manager sees subtree", func(t *testing.T) {
		repo, svc := newTestService()
		repo.On("List", ctx).Return(testBranches, nil)
		repo.On("Hierarchy", ctx).Return(testHierarchy, nil)

		got, err := svc.ListSimple(ctx, access.Actor{UserID: "m", Role: access.RoleBranchManager, BranchID: "B"})
		require.NoError(t, err)
		assert.Equal(t, []branch.SimpleBranch{
			{ID: "B", Code: "B", Name: "Area B"},
			{ID: "C", Code: "C", Name: "Branch C"},
		}, got)
	})

	t.Run("user without branch sees nothing", func(t *testing.T) {
		repo, svc := newTestService()
		repo.On("List", ctx).Return(testBranches, nil)
		repo.On("Hierarchy", ctx).Return(testHierarchy, nil)

		got, err := svc.ListSimple(ctx, access.Actor{UserID: "u", Role: access.RoleUser})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})
}

func TestAccessibleHierarchy(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	repo.On("Hierarchy", ctx).Return(testHierarchy, nil)

	got, err := svc.AccessibleHierarchy(ctx, access.Actor{UserID: "s", Role: access.RoleSupervisor, BranchID: "B"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ID)

	all, err := svc.AccessibleHierarchy(ctx, access.Actor{UserID: "a", Role: access.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetByID_WrapsNotFound(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()
	repo.On("GetByID", ctx, "X").Return(branch.Branch{}, branch.ErrBranchNotFound)

	_, err := svc.GetByID(ctx, "X")
	assert.ErrorIs(t, err, branch.ErrBranchNotFound)
}
