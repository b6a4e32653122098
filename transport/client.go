// Package transport wraps all outbound backend calls: it resolves the
// current bearer token, serializes request bodies, and normalizes every
// response into a uniform status/data shape.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/accessguard/console/credentials"
	"github.com/accessguard/console/metrics"
)

// Client issues authenticated requests against one backend base URL. It
// reads the credential store on every call so a refreshed token is picked up
// immediately; it never writes to the store.
type Client struct {
	baseURL string
	store   credentials.Store
	http    *http.Client
	metrics *metrics.Metrics
}

// NewClient creates a transport client for the given base URL. The metrics
// instance may be nil.
func NewClient(baseURL string, store credentials.Store, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		http:    &http.Client{},
		metrics: m,
	}
}

// PostJSON sends a JSON-encoded POST using the stored access token, if any.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "")
}

// PostForm sends a form-urlencoded POST using the stored access token, if
// any.
func (c *Client) PostForm(ctx context.Context, path string, fields url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(fields.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, "")
}

// Get sends a GET. An explicit non-empty token takes precedence over the
// stored one.
func (c *Client) Get(ctx context.Context, path, token string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(req, token)
}

func (c *Client) do(req *http.Request, explicitToken string) (*Response, error) {
	token := explicitToken
	if token == "" {
		pair, err := c.store.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to read credential store: %w", err)
		}
		if pair != nil {
			token = pair.AccessToken
		}
	}
	// Never send an empty bearer header
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncRequest(req.Method, 0)
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.metrics.IncRequest(req.Method, 0)
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}

	c.metrics.IncRequest(req.Method, res.StatusCode)
	return newResponse(res.StatusCode, body), nil
}
