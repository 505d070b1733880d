package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
)

// Client is the surface of the remote verification API the dashboard
// consumes. The sync engine depends on this interface only.
type Client interface {
	// Status fetches the full certificate collection (terminal statuses only).
	Status(ctx context.Context) ([]entities.Certificate, error)
	// Check verifies a single domain on demand.
	Check(ctx context.Context, domain string) (entities.Certificate, error)
	// BulkAdd submits domains for monitoring and returns the server's
	// acceptance message.
	BulkAdd(ctx context.Context, domains []string) (string, error)
	// Delete removes a domain from monitoring.
	Delete(ctx context.Context, domain string) error
}

// HTTPClient talks to the daemon API over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a Client for the API served at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Status implements Client.
func (c *HTTPClient) Status(ctx context.Context) ([]entities.Certificate, error) {
	var certs []entities.Certificate
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &certs); err != nil {
		return nil, err
	}

	return certs, nil
}

// Check implements Client.
func (c *HTTPClient) Check(ctx context.Context, domain string) (entities.Certificate, error) {
	var cert entities.Certificate
	if err := c.do(ctx, http.MethodGet, "/api/check/"+url.PathEscape(domain), nil, &cert); err != nil {
		return entities.Certificate{}, err
	}

	return cert, nil
}

// BulkAdd implements Client.
func (c *HTTPClient) BulkAdd(ctx context.Context, domains []string) (string, error) {
	body := struct {
		Domains []string `json:"domains"`
	}{Domains: domains}

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/domains/bulk", body, &resp); err != nil {
		return "", err
	}

	return resp.Message, nil
}

// Delete implements Client.
func (c *HTTPClient) Delete(ctx context.Context, domain string) error {
	return c.do(ctx, http.MethodDelete, "/api/domains/"+url.PathEscape(domain), nil, nil)
}

// do sends one request and decodes the response into out when non-nil.
// Non-2xx responses are turned into an error carrying the body's
// detail field when the server provided one.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach api: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s: %s", method, path, errorDetail(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}

// errorDetail extracts the detail message from an error response,
// falling back to the HTTP status line.
func errorDetail(resp *http.Response) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}

	return resp.Status
}
