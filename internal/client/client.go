// Package client is a typed REST client for the branch report API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/audit"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/navigation"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

type errorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// doJSON sends reqBody as JSON and decodes a 2xx answer into out. fallback is
// the message used when an error response carries none.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody, out any, fallback string) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("json marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, requestID(ctx))
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("http read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err == nil {
			if strings.TrimSpace(eb.Error) != "" {
				apiErr.Message = eb.Error
			}
			apiErr.Code = eb.Code
			apiErr.Details = eb.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("json unmarshal response: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID makes requests issued with ctx carry id instead of a fresh one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Login exchanges credentials for an access token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (auth.TokenResponse, error) {
	var out auth.TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil,
		auth.LoginRequest{Email: email, Password: password}, &out, "Failed to sign in")
	if err != nil {
		return auth.TokenResponse{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

func (c *Client) Me(ctx context.Context) (user.MeResponse, error) {
	var out user.MeResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/me", nil, nil, &out, "Failed to fetch profile")
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	var out user.UserResponse
	err := c.doJSON(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(id), nil, req, &out, "Failed to update profile")
	return out, err
}

func (c *Client) Navigation(ctx context.Context) ([]navigation.Item, error) {
	var out []navigation.Item
	err := c.doJSON(ctx, http.MethodGet, "/api/navigation", nil, nil, &out, "Failed to fetch navigation")
	return out, err
}

func (c *Client) Branches(ctx context.Context) ([]branch.SimpleBranch, error) {
	var out []branch.SimpleBranch
	err := c.doJSON(ctx, http.MethodGet, "/api/branches/simple", nil, nil, &out, "Failed to fetch branches")
	return out, err
}

func (c *Client) BranchHierarchy(ctx context.Context) (access.Hierarchy, error) {
	var out access.Hierarchy
	err := c.doJSON(ctx, http.MethodGet, "/api/branches/hierarchy", nil, nil, &out, "Failed to fetch branch hierarchy")
	return out, err
}

func (c *Client) RefreshHierarchy(ctx context.Context) (access.Hierarchy, error) {
	var out access.Hierarchy
	err := c.doJSON(ctx, http.MethodPost, "/api/branches/hierarchy/refresh", nil, nil, &out, "Failed to refresh branch hierarchy")
	return out, err
}

func reportQuery(f report.ListFilter) url.Values {
	q := url.Values{}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.BranchID != "" {
		q.Set("branchId", f.BranchID)
	}
	if f.ReportType != "" {
		q.Set("reportType", string(f.ReportType))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

func (c *Client) ListReports(ctx context.Context, filter report.ListFilter) (report.ListResponse, error) {
	var out report.ListResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/reports", reportQuery(filter), nil, &out, "Failed to fetch reports")
	return out, err
}

func (c *Client) GetReport(ctx context.Context, id string) (report.Report, error) {
	var out report.Report
	err := c.doJSON(ctx, http.MethodGet, "/api/reports/"+url.PathEscape(id), nil, nil, &out,
		fmt.Sprintf("Failed to fetch report with ID %s", id))
	return out, err
}

func (c *Client) CreateReport(ctx context.Context, req report.CreateReportRequest) (report.Report, error) {
	var out report.Report
	err := c.doJSON(ctx, http.MethodPost, "/api/reports", nil, req, &out, "Failed to create report")
	return out, err
}

func (c *Client) UpdateReport(ctx context.Context, req report.UpdateReportRequest) (report.Report, error) {
	var out report.Report
	err := c.doJSON(ctx, http.MethodPatch, "/api/reports", nil, req, &out, "Failed to update report")
	return out, err
}

// PendingReports lists reports awaiting review. An empty reportType means both.
func (c *Client) PendingReports(ctx context.Context, reportType report.Type) ([]report.Report, error) {
	q := url.Values{}
	if reportType != "" {
		q.Set("type", string(reportType))
	}
	var out []report.Report
	err := c.doJSON(ctx, http.MethodGet, "/api/reports/pending", q, nil, &out, "Failed to fetch pending reports")
	return out, err
}

func (c *Client) ReviewReport(ctx context.Context, id string, req report.ReviewRequest) (report.ReviewResponse, error) {
	verb := "approve"
	if req.Status == report.StatusRejected {
		verb = "reject"
	}
	var out report.ReviewResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/reports/"+url.PathEscape(id)+"/approve", nil, req, &out,
		fmt.Sprintf("Failed to %s report", verb))
	return out, err
}

func (c *Client) Summary(ctx context.Context, date string) (report.SummaryResponse, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var out report.SummaryResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/reports/summary", q, nil, &out, "Failed to fetch report summary")
	return out, err
}

func (c *Client) AuditLogs(ctx context.Context, filter audit.ListFilter) (audit.ListResponse, error) {
	q := url.Values{}
	if filter.EntityID != "" {
		q.Set("entityId", filter.EntityID)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	var out audit.ListResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/audit-logs", q, nil, &out, "Failed to fetch audit logs")
	return out, err
}

func (c *Client) SSEToken(ctx context.Context) (auth.SSETokenResponse, error) {
	var out auth.SSETokenResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/notifications/sse-token", nil, nil, &out, "Failed to fetch stream token")
	return out, err
}
