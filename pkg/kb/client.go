// Package kb is the typed client for the remote knowledge-base API the admin
// pages talk to. It covers workspace listing and creation, document detail
// retrieval, and text/file ingestion. Failures surface as *APIError with the
// server's human-readable message; pages display the message and do not
// retry.
package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Option customises the client configuration.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (proxies, transports, test
// doubles).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout caps the duration of a single request. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(agent); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// WithLogger attaches a logger used at debug level for request outcomes. The
// client stays silent without one.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to one knowledge-base deployment. Construct it with New; the
// zero value is not usable.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *zap.Logger
}

// New constructs a client for the API rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("kb: base URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("kb: parse base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("kb: base URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		userAgent:  "go-kbadmin",
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// BaseURL reports the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListWorkspaces returns all workspaces in server order.
func (c *Client) ListWorkspaces(ctx context.Context) ([]WorkspaceSummary, error) {
	var out []WorkspaceSummary
	if err := c.getJSON(ctx, "/workspaces", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Workspace returns one workspace with its document listing.
func (c *Client) Workspace(ctx context.Context, id string) (WorkspaceDetail, error) {
	if strings.TrimSpace(id) == "" {
		return WorkspaceDetail{}, errors.New("kb: workspace id is required")
	}
	var out WorkspaceDetail
	if err := c.getJSON(ctx, "/workspaces/"+url.PathEscape(id), &out); err != nil {
		return WorkspaceDetail{}, err
	}
	return out, nil
}

// Document returns one document with its chunk preview.
func (c *Client) Document(ctx context.Context, workspaceID, documentID string) (DocumentDetail, error) {
	if strings.TrimSpace(workspaceID) == "" {
		return DocumentDetail{}, errors.New("kb: workspace id is required")
	}
	if strings.TrimSpace(documentID) == "" {
		return DocumentDetail{}, errors.New("kb: document id is required")
	}
	path := "/workspaces/" + url.PathEscape(workspaceID) + "/documents/" + url.PathEscape(documentID)
	var out DocumentDetail
	if err := c.getJSON(ctx, path, &out); err != nil {
		return DocumentDetail{}, err
	}
	return out, nil
}

// CreateWorkspace creates a workspace and returns its summary.
func (c *Client) CreateWorkspace(ctx context.Context, name, description string) (WorkspaceSummary, error) {
	if strings.TrimSpace(name) == "" {
		return WorkspaceSummary{}, errors.New("kb: workspace name is required")
	}
	payload := map[string]string{"name": name}
	if strings.TrimSpace(description) != "" {
		payload["description"] = description
	}
	var out WorkspaceSummary
	if err := c.postJSON(ctx, "/workspaces", payload, &out); err != nil {
		return WorkspaceSummary{}, err
	}
	return out, nil
}

// IngestText submits pasted text for server-side chunking and indexing.
func (c *Client) IngestText(ctx context.Context, workspaceID string, ingestion TextIngestion) error {
	if strings.TrimSpace(workspaceID) == "" {
		return errors.New("kb: workspace id is required")
	}
	if strings.TrimSpace(ingestion.Title) == "" {
		return errors.New("kb: ingestion title is required")
	}
	if ingestion.Content == "" {
		return errors.New("kb: ingestion content is required")
	}
	path := "/workspaces/" + url.PathEscape(workspaceID) + "/documents/text"
	return c.postJSON(ctx, path, ingestion, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("kb: encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	if ctx == nil {
		return errors.New("kb: context is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("kb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kb: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("kb: read response: %w", err)
	}

	c.logger.Debug("kb request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFromResponse(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("kb: decode response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL.String() + path
}
