// Package transport is the HTTP plumbing under the prc client: request
// building, bounded retries, client-side rate limiting, and the
// process-wide set of keys the API has rejected. It never interprets
// response bodies; error mapping belongs to the caller.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	defaultRetryMax = 2
	defaultTimeout  = 30 * time.Second
)

// Options configure a transport Client.
type Options struct {
	BaseURL string
	Headers map[string]string // sent on every request

	// HTTP overrides the underlying client (tests, proxies). When nil a
	// pooled client with a request timeout is used.
	HTTP *http.Client

	// RetryMax bounds retries of network errors and 5xx responses; 0 keeps
	// the default. Client errors (including rate limits) are never retried
	// so the caller sees them.
	RetryMax int

	// Limit/Burst shape the client-side rate limiter. Zero values default
	// to one request per two seconds with a small burst, under the API's
	// documented per-key budget.
	Limit rate.Limit
	Burst int
}

// Response is a raw API response: status plus body bytes.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the response carries a success status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Client issues requests against one base URL with a fixed header set.
type Client struct {
	base    string
	headers map[string]string
	rc      *retryablehttp.Client
	limiter *rate.Limiter
}

// New builds a Client from opts.
func New(opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = opts.RetryMax
	if rc.RetryMax == 0 {
		rc.RetryMax = defaultRetryMax
	}
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil || resp == nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		return resp.StatusCode >= 500, nil
	}
	if opts.HTTP != nil {
		rc.HTTPClient = opts.HTTP
	} else {
		rc.HTTPClient = &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			Timeout:   defaultTimeout,
		}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = rate.Every(2 * time.Second)
	}
	burst := opts.Burst
	if burst == 0 {
		burst = 5
	}

	return &Client{
		base:    opts.BaseURL,
		headers: opts.Headers,
		rc:      rc,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Get issues a GET against path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body against path relative to the base URL.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("transport: encode body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.rc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: read response: %w", err)
	}
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

// invalidKeys is the process-wide blacklist of credentials the API has
// rejected as invalid or banned. It outlives any single cache or scope.
var invalidKeys = struct {
	sync.RWMutex
	m map[string]struct{}
}{m: make(map[string]struct{})}

// MarkInvalid records a rejected key so later calls can fail fast.
func MarkInvalid(key string) {
	if key == "" {
		return
	}
	invalidKeys.Lock()
	invalidKeys.m[key] = struct{}{}
	invalidKeys.Unlock()
}

// IsInvalid reports whether key was previously rejected.
func IsInvalid(key string) bool {
	invalidKeys.RLock()
	_, ok := invalidKeys.m[key]
	invalidKeys.RUnlock()
	return ok
}
