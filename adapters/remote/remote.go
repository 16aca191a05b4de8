// Package remote provides adapters that delegate the store and build
// collaborators to an external HTTP service.
//
// The service exposes one endpoint per function:
//
//	POST {base}/{fn}
//	Request:  {"path": "app/main/app.json", ...}
//	Response: {"code": 200, "data": ...}
//
// The envelope code is the collaborator status. A non-2xx envelope code is
// reported through ports.Response; only transport faults and non-2xx HTTP
// statuses become errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls functions on the remote service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	headers    map[string]string
}

// ClientConfig configures the remote client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Headers map[string]string
}

// NewClient creates a new remote client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		headers:    cfg.Headers,
	}
}

// Envelope is the response body of every remote function.
type Envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Call invokes fn with body and decodes the response envelope.
func (c *Client) Call(ctx context.Context, fn string, body any) (Envelope, error) {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal %s request: %w", fn, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+fn, bodyReader)
	if err != nil {
		return Envelope{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("call %s: %w", fn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Envelope{}, &RemoteError{
			Function:   fn,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decode %s response: %w", fn, err)
	}
	return env, nil
}

// RemoteError is a transport level failure reported by the remote service.
type RemoteError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s: status %d: %s", e.Function, e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 or 403 from the service.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusForbidden
	}
	return false
}
