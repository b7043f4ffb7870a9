// Package mockcloudflare provides a mock Cloudflare API server
// used in testing the DDNS endpoint.
package mockcloudflare

// Record represents a DNS record held by the mock server.
type Record struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
	ZoneID  string `json:"zone_id"`
}

// apiError is one entry in the response envelope's errors array.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// envelope is the standard Cloudflare API response wrapper.
type envelope struct {
	Success bool       `json:"success"`
	Errors  []apiError `json:"errors"`
	Result  any        `json:"result"`
}

// recordBody is the request body for record create/update calls.
type recordBody struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}
