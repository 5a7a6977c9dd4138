// Package shortcut provides a REST client for the Shortcut API v3.
//
// Every request carries the workspace API token in the Shortcut-Token header
// and passes through a shared token bucket so the process as a whole stays
// under Shortcut's published request budget.
package shortcut

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Shortcut API endpoint.
const DefaultBaseURL = "https://api.app.shortcut.com/api/v3"

const (
	defaultTimeout      = 30 * time.Second
	defaultRatePerMin   = 200
	defaultLimiterBurst = 10
)

// Client is the Shortcut API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
}

// New creates a new API client.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(defaultRatePerMin)/60.0), defaultLimiterBurst),
	}
}

// WithToken returns a new client bound to the given token. The HTTP client
// and the rate limiter are shared, so per-session copies still draw from one
// request budget.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		limiter:    c.limiter,
		token:      token,
	}
}

// WithTimeout returns a new client using the given request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	return &Client{
		baseURL: c.baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: c.httpClient.Transport,
		},
		limiter: c.limiter,
		token:   c.token,
	}
}

// WithRoundTripper returns a new client whose outbound requests go through
// the given RoundTripper. Used to instrument upstream calls.
func (c *Client) WithRoundTripper(rt http.RoundTripper) *Client {
	return &Client{
		baseURL: c.baseURL,
		httpClient: &http.Client{
			Timeout:   c.httpClient.Timeout,
			Transport: rt,
		},
		limiter: c.limiter,
		token:   c.token,
	}
}

// WithRateLimit returns a new client throttled to the given number of
// requests per minute. Zero or negative disables throttling.
func (c *Client) WithRateLimit(perMinute int) *Client {
	var limiter *rate.Limiter
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), defaultLimiterBurst)
	}
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		limiter:    limiter,
		token:      c.token,
	}
}

// do performs an HTTP request and decodes the response.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Shortcut-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			apiErr.StatusCode = resp.StatusCode
			return &apiErr
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// put performs a PUT request.
func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}
