// Package logging provides utilities for secure logging with data masking.
package logging

import "strings"

// MaskHeader redacts sensitive header values based on header name.
// Returns the redacted value suitable for logging.
//
// Rules:
// - Password/secret headers: "[REDACTED]" (no partial reveal)
// - Authorization/API key headers: "****" + last 4 chars
// - Other headers: returned unchanged
func MaskHeader(name, value string) string {
	lowerName := strings.ToLower(name)

	if strings.Contains(lowerName, "password") || strings.Contains(lowerName, "secret") {
		return "[REDACTED]"
	}

	if lowerName == "authorization" || lowerName == "x-api-key" {
		if len(value) < 4 {
			return "****"
		}
		return "****" + value[len(value)-4:]
	}

	return value
}
