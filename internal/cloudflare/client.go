package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the base URL for the Cloudflare API v4.
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"

	// defaultTimeout bounds every provider call.
	defaultTimeout = 30 * time.Second

	// PlaceholderAddress is the content written by CreateRecord. The
	// provider requires create-then-update as two calls; the real address
	// is applied by the update that immediately follows.
	PlaceholderAddress = "127.0.0.1"
)

// Client is an HTTP client for the Cloudflare DNS API.
type Client struct {
	baseURL    string
	token      string
	zoneID     string
	recordTTL  int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing with a mock server).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRecordTTL sets the TTL written on created and updated records.
func WithRecordTTL(ttl int) Option {
	return func(c *Client) {
		c.recordTTL = ttl
	}
}

// NewClient creates a new Cloudflare API client scoped to a single zone.
func NewClient(token, zoneID string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		token:     token,
		zoneID:    zoneID,
		recordTTL: 120,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiError is one error entry in the Cloudflare response envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// envelope is the standard Cloudflare API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// recordBody is the request body for creating or updating an A record.
type recordBody struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// recordResult is the record payload returned by the API.
type recordResult struct {
	ID string `json:"id"`
}

// doRequest performs an HTTP request against the API and decodes the envelope.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		//nolint:errcheck
		resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("cloudflare: request failed (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		return nil, parseError(resp.StatusCode, &env)
	}

	return &env, nil
}

// parseError converts a non-success envelope into an error.
func parseError(statusCode int, env *envelope) error {
	if len(env.Errors) > 0 {
		return &APIError{
			StatusCode: statusCode,
			Code:       env.Errors[0].Code,
			Message:    env.Errors[0].Message,
		}
	}
	return fmt.Errorf("cloudflare: request failed (status %d)", statusCode)
}

// CreateRecord creates an A record for host in the client's zone with the
// placeholder address and returns the new record id. The caller is expected
// to follow up with UpdateRecord; the two calls are the provider's contract
// and produce two distinct audit events.
func (c *Client) CreateRecord(ctx context.Context, host string) (string, error) {
	body := recordBody{
		Type:    "A",
		Name:    strings.ToLower(host),
		Content: PlaceholderAddress,
		TTL:     c.recordTTL,
		Proxied: false,
	}

	env, err := c.doRequest(ctx, http.MethodPost, "/zones/"+c.zoneID+"/dns_records", body)
	if err != nil {
		return "", err
	}

	var record recordResult
	if err := json.Unmarshal(env.Result, &record); err != nil {
		return "", fmt.Errorf("failed to decode record: %w", err)
	}
	if record.ID == "" {
		return "", fmt.Errorf("cloudflare: create returned no record id")
	}

	return record.ID, nil
}

// UpdateRecord points the record at ip.
func (c *Client) UpdateRecord(ctx context.Context, recordID, host, ip string) error {
	body := recordBody{
		Type:    "A",
		Name:    strings.ToLower(host),
		Content: ip,
		TTL:     c.recordTTL,
		Proxied: false,
	}

	_, err := c.doRequest(ctx, http.MethodPut, "/zones/"+c.zoneID+"/dns_records/"+recordID, body)
	return err
}

// VerifyToken checks connectivity and token validity.
// Uses the /user/tokens/verify endpoint which is lightweight.
func (c *Client) VerifyToken(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/user/tokens/verify", nil); err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}
	return nil
}
