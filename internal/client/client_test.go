package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithToken("tok"))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
	_, err = New("")
	assert.Error(t, err)
}

func TestListReports_SendsFilterAndAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reports", r.URL.Path)
		assert.Equal(t, "2024-03-15", r.URL.Query().Get("date"))
		assert.Equal(t, "B1", r.URL.Query().Get("branchId"))
		assert.Equal(t, "plan", r.URL.Query().Get("reportType"))
		assert.Equal(t, "", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))
		_, _ = w.Write([]byte(`{"data":[{"id":"r1","date":"2024-03-15","reportType":"plan","status":"pending"}],"pagination":{"total":1,"page":1,"limit":10,"totalPages":1}}`))
	})

	out, err := c.ListReports(context.Background(), report.ListFilter{Date: "2024-03-15", BranchID: "B1", ReportType: report.TypePlan})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "r1", out.Data[0].ID)
	assert.Equal(t, int64(1), out.Pagination.Total)
}

func TestRequestID_FromContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get(requestIDHeader))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.PendingReports(WithRequestID(context.Background(), "req-42"), "")
	require.NoError(t, err)
}

func TestAPIError_CarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"You need to create a Morning Plan report first.","code":"PLAN_REPORT_REQUIRED"}`))
	})

	_, err := c.CreateReport(context.Background(), report.CreateReportRequest{ReportType: report.TypeActual})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "PLAN_REPORT_REQUIRED", apiErr.Code)
	assert.Equal(t, "You need to create a Morning Plan report first.", apiErr.Message)
}

func TestAPIError_FallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.ReviewReport(context.Background(), "r1", report.ReviewRequest{Status: report.StatusRejected})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Failed to reject report", apiErr.Message)
	assert.Equal(t, "", apiErr.Code)

	_, err = c.GetReport(context.Background(), "r9")
	apiErr, ok = AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Failed to fetch report with ID r9", apiErr.Message)
}

func TestLogin_StoresToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@example.com", body["email"])
		_, _ = w.Write([]byte(`{"accessToken":"new-token","expiresAt":1700000000}`))
	})

	_, err := c.Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "new-token", c.Token())
}

func TestTransportError_IsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.Me(context.Background())
	require.Error(t, err)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Me(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
