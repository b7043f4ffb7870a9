// Package cloudflare provides types and error handling for the Cloudflare API client.
package cloudflare

import (
	"errors"
	"fmt"
)

// APIError represents a structured error from the Cloudflare API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("cloudflare: %s (code %d)", e.Message, e.Code)
}

// Sentinel errors for common API error cases.
var (
	ErrUnauthorized = errors.New("cloudflare: unauthorized (invalid API token)")
)
