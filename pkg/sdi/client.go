package sdi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/samvad-hq/sdi-client/pkg/httpclient"
)

const (
	// DefaultTimeout bounds a whole call when SetTimeout was never called.
	DefaultTimeout = 3600 * time.Second
	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 120 * time.Second

	credentialSeparator = "."
)

// Client talks to one interchange endpoint with one credential.
type Client struct {
	endpoint   string
	credential string

	mu             sync.RWMutex
	timeout        time.Duration
	connectTimeout time.Duration

	insecureSkipVerify bool
	http               httpclient.Client
	log                Logger
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the default resty transport. The injected client
// is then responsible for its own connect timeout and TLS posture.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithInsecureSkipVerify disables TLS certificate and hostname checks on the
// default transport. Off unless explicitly requested.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) { c.insecureSkipVerify = skip }
}

// WithLogger routes per-call diagnostics to log.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout sets the initial total timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithConnectTimeout sets the initial connect timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) { c.connectTimeout = d }
}

// New builds a client. The endpoint is kept verbatim, so it must not end
// with a slash: request paths are appended as-is.
func New(endpoint, username, apiToken string, opts ...Option) *Client {
	c := &Client{
		endpoint:       endpoint,
		credential:     username + credentialSeparator + apiToken,
		timeout:        DefaultTimeout,
		connectTimeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.log = ensureLogger(c.log)
	if c.http == nil {
		c.http = httpclient.NewRestyClientWithOptions(httpclient.Options{
			ConnectTimeout:     c.ConnectTimeout,
			InsecureSkipVerify: c.insecureSkipVerify,
		})
	}
	return c
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string { return c.endpoint }

// SetTimeout changes the total timeout for calls started afterwards.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// SetConnectTimeout changes the connect timeout for dials started afterwards.
func (c *Client) SetConnectTimeout(d time.Duration) {
	c.mu.Lock()
	c.connectTimeout = d
	c.mu.Unlock()
}

// Timeout reports the total timeout.
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// ConnectTimeout reports the connect timeout.
func (c *Client) ConnectTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connectTimeout
}

// Execute performs one authenticated request against endpoint+path and
// returns the raw body of an HTTP 200 response. A nil body sends no payload.
// Failures are *RequestFailure values; the body is never decoded here.
func (c *Client) Execute(ctx context.Context, verb, path string, body Payload) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := httpclient.Request{
		Method: verb,
		URL:    c.endpoint + path,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": c.credential,
		},
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body for %s: %w", path, err)
		}
		req.Body = raw
		req.HasBody = true
	}

	if timeout := c.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		failure := newTransportFailure(c.endpoint, path, err)
		c.log.WarnObj("sdi request failed", "sdi_request_error", map[string]any{
			"method":     verb,
			"url":        req.URL,
			"code":       failure.Code,
			"error":      err.Error(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return nil, failure
	}

	if resp.StatusCode() != http.StatusOK {
		failure := &RequestFailure{
			Kind:       FailureApplication,
			Endpoint:   c.endpoint,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Response:   NewErrorMessage(resp.Body()),
		}
		c.log.WarnObj("sdi request rejected", "sdi_request_error", map[string]any{
			"method":     verb,
			"url":        req.URL,
			"status":     resp.StatusCode(),
			"message":    failure.Response.Message(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return nil, failure
	}

	c.log.DebugObj("sdi request completed", "sdi_request", map[string]any{
		"method":     verb,
		"url":        req.URL,
		"status":     resp.StatusCode(),
		"bytes":      len(resp.Body()),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return resp.Body(), nil
}
