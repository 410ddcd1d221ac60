package http

import (
	"context"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/audit"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/oauth"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

func (m *mockAuthService) LoginWithGoogle(ctx context.Context, email, googleID string, verified bool) (auth.TokenResponse, error) {
	args := m.Called(ctx, email, googleID, verified)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

type mockGoogleService struct {
	mock.Mock
}

func (m *mockGoogleService) GenerateState() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockGoogleService) RedirectURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (m *mockGoogleService) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	tok, _ := args.Get(0).(*oauth2.Token)
	return tok, args.Error(1)
}

func (m *mockGoogleService) VerifyUser(ctx context.Context, token *oauth2.Token) (oauth.GoogleInformation, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(oauth.GoogleInformation), args.Error(1)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) List(ctx context.Context, actor access.Actor, filter report.ListFilter) (report.ListResponse, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).(report.ListResponse), args.Error(1)
}

func (m *mockReportService) Get(ctx context.Context, actor access.Actor, id string) (report.Report, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(report.Report), args.Error(1)
}

func (m *mockReportService) Create(ctx context.Context, actor access.Actor, req report.CreateReportRequest) (report.Report, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(report.Report), args.Error(1)
}

func (m *mockReportService) Update(ctx context.Context, actor access.Actor, req report.UpdateReportRequest) (report.Report, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(report.Report), args.Error(1)
}

func (m *mockReportService) ListPending(ctx context.Context, actor access.Actor, reportType report.Type) ([]report.Report, error) {
	args := m.Called(ctx, actor, reportType)
	reports, _ := args.Get(0).([]report.Report)
	return reports, args.Error(1)
}

func (m *mockReportService) Review(ctx context.Context, actor access.Actor, id string, req report.ReviewRequest) (report.ReviewResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return args.Get(0).(report.ReviewResponse), args.Error(1)
}

func (m *mockReportService) Summary(ctx context.Context, actor access.Actor, date string) (report.SummaryResponse, error) {
	args := m.Called(ctx, actor, date)
	return args.Get(0).(report.SummaryResponse), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Me(ctx context.Context, actor access.Actor) (user.MeResponse, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(user.MeResponse), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, actor access.Actor, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

type mockAuditService struct {
	mock.Mock
}

func (m *mockAuditService) List(ctx context.Context, actor access.Actor, filter audit.ListFilter) (audit.ListResponse, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).(audit.ListResponse), args.Error(1)
}

// stubBranchService serves a fixed tree.
type stubBranchService struct {
	hierarchy access.Hierarchy
	refreshed int
}

func (s *stubBranchService) Hierarchy(context.Context) (access.Hierarchy, error) {
	return s.hierarchy, nil
}

func (s *stubBranchService) Refresh(context.Context) (access.Hierarchy, error) {
	s.refreshed++
	return s.hierarchy, nil
}

func (s *stubBranchService) ListSimple(_ context.Context, actor access.Actor) ([]branch.SimpleBranch, error) {
	var out []branch.SimpleBranch
	for _, id := range actor.AccessibleBranches(s.hierarchy) {
		if node, ok := s.hierarchy.Find(id); ok {
			out = append(out, branch.SimpleBranch{ID: node.ID, Name: node.Name, Code: node.Code})
		}
	}
	return out, nil
}

func (s *stubBranchService) AccessibleHierarchy(_ context.Context, actor access.Actor) (access.Hierarchy, error) {
	var out access.Hierarchy
	for _, id := range actor.AccessibleBranches(s.hierarchy) {
		if node, ok := s.hierarchy.Find(id); ok {
			out = append(out, node)
		}
	}
	return out, nil
}

func (s *stubBranchService) GetByID(_ context.Context, id string) (branch.Branch, error) {
	node, ok := s.hierarchy.Find(id)
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return branch.Branch{ID: node.ID, Code: node.Code, Name: node.Name, ParentID: node.ParentID}, nil
}

func oauthInfo(email, googleID string, verified bool) oauth.GoogleInformation {
	return oauth.GoogleInformation{GoogleID: googleID, Email: email, VerifiedEmail: verified}
}
