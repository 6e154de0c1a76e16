// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"fmt"
)

// TransportError wraps a failure to reach the Zoom API at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("zoom API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the Zoom API, carrying Zoom's own
// error code and message when the body could be parsed.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("zoom API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("zoom API error (status %d)", e.StatusCode)
}

// DecodeError is a 2xx response whose body could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode zoom API response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// parseErrorResponse builds an APIError from a non-2xx response body.
func parseErrorResponse(statusCode int, body []byte) *APIError {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{StatusCode: statusCode, Code: errResp.Code, Message: errResp.Message}
	}
	return &APIError{StatusCode: statusCode, Message: string(body)}
}
