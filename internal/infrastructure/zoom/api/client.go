// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package api contains the Zoom REST API client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/justadios/adios/internal/logging"
)

const (
	// BaseURL is the base URL for the Zoom API
	BaseURL = "https://api.zoom.us/v2"
	// DefaultClientTimeout is the default HTTP client timeout for Zoom API requests
	DefaultClientTimeout = 30 * time.Second
)

// Client represents a Zoom API client. Requests authenticate with the
// per-user access token supplied by the caller, so one client serves
// every user. Retry belongs to the job queue, not here.
type Client struct {
	httpClient *http.Client
	config     Config
}

// Config holds the configuration for the Zoom client
type Config struct {
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
}

// NewClient creates a new Zoom API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// doRequest performs an authenticated HTTP request to the Zoom API.
// A non-nil response with any status is returned for the caller to
// interpret; only transport failures produce an error.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	slog.DebugContext(ctx, "making Zoom API request",
		"method", method,
		"path", path,
	)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		slog.ErrorContext(ctx, "Zoom API request failed",
			"method", method,
			"path", path,
			"duration", duration.String(),
			logging.ErrKey, err)
		return nil, &TransportError{Err: err}
	}

	slog.DebugContext(ctx, "Zoom API request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", duration.String(),
	)

	return resp, nil
}

// checkStatus drains a non-2xx response into an APIError.
func (c *Client) checkStatus(ctx context.Context, resp *http.Response, wantStatuses ...int) error {
	for _, want := range wantStatuses {
		if resp.StatusCode == want {
			return nil
		}
	}

	body, _ := io.ReadAll(resp.Body)
	apiErr := parseErrorResponse(resp.StatusCode, body)
	slog.ErrorContext(ctx, "Zoom API error response",
		"status", resp.StatusCode,
		"body", string(body),
		logging.ErrKey, apiErr)
	return apiErr
}

// decodeResponse decodes a 2xx response body into the target.
func decodeResponse(resp *http.Response, target any) error {
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
