package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers the routes reportctl uses and records what it saw.
type fakeServer struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   map[string][]byte

	plans   []report.Report
	current report.Report
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		assert.NoError(t, json.NewEncoder(w).Encode(v))
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			write(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password", "code": "INVALID_CREDENTIALS"})
			return
		}
		write(w, http.StatusOK, map[string]any{"accessToken": "tok-1", "expiresAt": 1700000000})
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		branch := "B1"
		write(w, http.StatusOK, user.MeResponse{UserResponse: user.UserResponse{
			ID: "u-1", Role: "supervisor", BranchID: &branch, AssignedBranchIDs: []string{},
		}})
	})
	mux.HandleFunc("GET /api/reports", func(w http.ResponseWriter, r *http.Request) {
		data := []report.Report{}
		if r.URL.Query().Get("reportType") == "plan" {
			data = f.plans
		}
		write(w, http.StatusOK, report.ListResponse{Data: data})
	})
	mux.HandleFunc("GET /api/reports/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != f.current.ID {
			write(w, http.StatusNotFound, map[string]string{"error": "Report not found", "code": "REPORT_NOT_FOUND"})
			return
		}
		write(w, http.StatusOK, f.current)
	})
	mux.HandleFunc("POST /api/reports", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusCreated, report.Report{ID: "r-new", ReportType: report.TypePlan, Status: report.StatusPending})
	})
	mux.HandleFunc("PATCH /api/reports", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, f.current)
	})
	mux.HandleFunc("POST /api/reports/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, report.ReviewResponse{Message: report.MsgApproved})
	})
	mux.HandleFunc("GET /api/reports/pending", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		if f.bodies == nil {
			f.bodies = map[string][]byte{}
		}
		f.bodies[r.Method+" "+r.URL.Path] = body.Bytes()
		f.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body.Bytes()))
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeServer) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.URL.Path == path {
			n++
		}
	}
	return n
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{"--base-url", srv.URL, "--token", "tok-1"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return fake, srv
}

func today() string {
	loc, _ := time.LoadLocation("Asia/Jakarta")
	return time.Now().In(loc).Format(report.DateLayout)
}

func TestLogin(t *testing.T) {
	_, srv := newFakeServer(t)

	out, err := runCLI(t, srv, "login", "--email", "a@b.c", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, `"accessToken": "tok-1"`)

	_, err = runCLI(t, srv, "login", "--email", "a@b.c", "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password (401 INVALID_CREDENTIALS)", err.Error())
	assert.Equal(t, exitAuth, exitCode(err))

	_, err = runCLI(t, srv, "login", "--password", "secret")
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestRequestsCarryOneRequestID(t *testing.T) {
	fake, srv := newFakeServer(t)

	_, err := runCLI(t, srv, "reports", "create", "--type", "plan", "--write-offs", "10", "--ninety-plus", "5")
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.NotEmpty(t, fake.requests)
	id := fake.requests[0].Header.Get("X-Request-Id")
	assert.NotEmpty(t, id)
	for _, r := range fake.requests {
		assert.Equal(t, id, r.Header.Get("X-Request-Id"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
	}
}

func TestReportsCreate_Plan(t *testing.T) {
	fake, srv := newFakeServer(t)

	out, err := runCLI(t, srv, "reports", "create", "--type", "plan", "--write-offs", "1234.56", "--ninety-plus", "0", "--content", "morning")
	require.NoError(t, err)
	assert.Contains(t, out, report.MsgCreated)

	var sent report.CreateReportRequest
	require.NoError(t, json.Unmarshal(fake.bodies["POST /api/reports"], &sent))
	assert.Equal(t, today(), sent.Date)
	assert.Equal(t, "B1", sent.BranchID)
	assert.Equal(t, report.TypePlan, sent.ReportType)
	assert.Equal(t, 1234.56, sent.WriteOffs)
	assert.Equal(t, "morning", *sent.Content)
}

func TestReportsCreate_ActualNeedsPlan(t *testing.T) {
	fake, srv := newFakeServer(t)

	_, err := runCLI(t, srv, "reports", "create", "--type", "actual", "--write-offs", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Morning Plan report")
	assert.Zero(t, fake.count(http.MethodPost, "/api/reports"))

	fake.plans = []report.Report{{ID: "p-1", ReportType: report.TypePlan}}
	_, err = runCLI(t, srv, "reports", "create", "--type", "actual", "--write-offs", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.count(http.MethodPost, "/api/reports"))
}

func TestReportsCreate_InvalidAmount(t *testing.T) {
	fake, srv := newFakeServer(t)

	_, err := runCLI(t, srv, "reports", "create", "--type", "plan", "--write-offs", "-5")
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid Write-offs amount", err.Error())
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Zero(t, fake.count(http.MethodPost, "/api/reports"))
}

func TestReportsUpdate(t *testing.T) {
	fake, srv := newFakeServer(t)
	loc, _ := time.LoadLocation("Asia/Jakarta")

	fake.current = report.Report{
		ID:     "r-1",
		Date:   report.NewDate(time.Now().In(loc).AddDate(0, 0, -1)),
		Branch: report.BranchRef{ID: "B1"},
		Status: report.StatusRejected,
	}
	_, err := runCLI(t, srv, "reports", "update", "r-1", "--write-offs", "2")
	require.Error(t, err)
	assert.Equal(t, "You can only edit rejected reports from today's session.", err.Error())
	assert.Zero(t, fake.count(http.MethodPatch, "/api/reports"))

	fake.current.Date = report.NewDate(time.Now().In(loc))
	out, err := runCLI(t, srv, "reports", "update", "r-1", "--write-offs", "2")
	require.NoError(t, err)
	assert.Contains(t, out, report.MsgResubmitted)
	assert.Equal(t, 1, fake.count(http.MethodPatch, "/api/reports"))
}

func TestReportsReview(t *testing.T) {
	fake, srv := newFakeServer(t)

	_, err := runCLI(t, srv, "reports", "review", "r-1", "--reject")
	require.Error(t, err)
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Zero(t, fake.count(http.MethodPost, "/api/reports/r-1/approve"))

	out, err := runCLI(t, srv, "reports", "review", "r-1")
	require.NoError(t, err)
	assert.Contains(t, out, report.MsgApproved)

	var sent report.ReviewRequest
	require.NoError(t, json.Unmarshal(fake.bodies["POST /api/reports/r-1/approve"], &sent))
	assert.Equal(t, report.StatusApproved, sent.Status)
	assert.True(t, sent.NotifyUsers)
}

func TestReportsPending_EmptyIsArray(t *testing.T) {
	_, srv := newFakeServer(t)

	out, err := runCLI(t, srv, "reports", "pending")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))

	_, err = runCLI(t, srv, "reports", "pending", "--type", "forecast")
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestReportsList_ValidatesFilter(t *testing.T) {
	fake, srv := newFakeServer(t)

	_, err := runCLI(t, srv, "reports", "list", "--date", "15-03-2024")
	require.Error(t, err)
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Zero(t, fake.count(http.MethodGet, "/api/reports"))

	_, err = runCLI(t, srv, "reports", "list", "--type", "PLAN", "--status", "pending")
	require.NoError(t, err)
	fake.mu.Lock()
	q := fake.requests[len(fake.requests)-1].URL.Query()
	fake.mu.Unlock()
	assert.Equal(t, "plan", q.Get("reportType"))
	assert.Equal(t, "pending", q.Get("status"))
	assert.Equal(t, "1", q.Get("page"))
}

func TestReportsGet_NotFound(t *testing.T) {
	_, srv := newFakeServer(t)

	_, err := runCLI(t, srv, "reports", "get", "missing")
	require.Error(t, err)
	assert.Equal(t, exitAPI, exitCode(err))
}

func TestMissingToken(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--base-url", "http://localhost:1", "--token", "", "me"})
	err := cmd.Execute()
	assert.Equal(t, exitUsage, exitCode(err))
}
