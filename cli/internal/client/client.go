// ABOUTME: HTTP client for the Migration Advisor API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/markalston/migration-advisor/models"
)

// Client is the API client for the Migration Advisor backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL. The timeout covers
// the backend's own model deadline plus a rule fallback.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// AIStatus calls GET /api/v1/ai-status
func (c *Client) AIStatus(ctx context.Context) (*models.AIStatus, error) {
	var status models.AIStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/ai-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CostEstimate calls POST /api/v1/cost-estimation
func (c *Client) CostEstimate(ctx context.Context, input *models.CostRequest) (*models.CostEstimate, error) {
	var est models.CostEstimate
	if err := c.do(ctx, http.MethodPost, "/api/v1/cost-estimation", input, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// MigrationStrategy calls POST /api/v1/migration-strategy
func (c *Client) MigrationStrategy(ctx context.Context, input *models.StrategyRequest) (*models.MigrationStrategy, error) {
	var st models.MigrationStrategy
	if err := c.do(ctx, http.MethodPost, "/api/v1/migration-strategy", input, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Timeline calls POST /api/v1/timeline
func (c *Client) Timeline(ctx context.Context, input *models.TimelineRequest) (*models.Timeline, error) {
	var tl models.Timeline
	if err := c.do(ctx, http.MethodPost, "/api/v1/timeline", input, &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

// do sends one request and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if errResp.Details != "" {
		return fmt.Errorf("backend error: %s: %s", errResp.Error, errResp.Details)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
