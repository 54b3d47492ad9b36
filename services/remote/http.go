package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/singleflight"

	"cinetrack/models"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	maxErrorBody    = 512
)

// Request describes one HTTP call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// Response is the raw outcome of a successful call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPClient performs JSON calls against one remote service. Identical concurrent GETs share a
// single round trip, and rate limited or unavailable responses are retried a few times.
type HTTPClient struct {
	httpClient *http.Client
	source     models.Source
	attempts   uint
	delay      time.Duration
	group      singleflight.Group
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithRetry sets the retry attempts and the base delay between them.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *HTTPClient) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.delay = delay
	}
}

// NewHTTPClient creates a client whose errors are tagged with source.
func NewHTTPClient(source models.Source, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		source:     source,
		attempts:   defaultAttempts,
		delay:      defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the service the client talks to.
func (c *HTTPClient) Source() models.Source {
	return c.source
}

// Do executes req and, when out is non-nil and the response has a body, decodes the JSON body
// into it. Failures are returned as *CallError.
func (c *HTTPClient) Do(ctx context.Context, req Request, out any) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	var resp *Response
	var err error
	if req.Method == http.MethodGet && req.Body == nil {
		key := req.URL + "|" + req.Header.Get("Authorization")
		var v any
		v, err, _ = c.group.Do(key, func() (any, error) {
			return c.doWithRetry(ctx, req)
		})
		if v != nil {
			resp = v.(*Response)
		}
	} else {
		resp, err = c.doWithRetry(ctx, req)
	}
	if err != nil {
		return nil, Classify(c.source, err)
	}

	if out != nil && len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return nil, Classify(c.source, fmt.Errorf("decode response: %w", err))
		}
	}
	return resp, nil
}

func (c *HTTPClient) doWithRetry(ctx context.Context, req Request) (*Response, error) {
	return retry.DoWithData(
		func() (*Response, error) {
			return c.doOnce(ctx, req)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[%s] retrying %s %s (attempt %d): %v", c.source, req.Method, req.URL, n+2, err)
		}),
	)
}

func (c *HTTPClient) doOnce(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("create request: %w", err))
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s api request: %w", c.source, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(data)}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// isRetryable limits retries to responses the server asks us to try again later.
func isRetryable(err error) bool {
	statusErr, ok := err.(*StatusError)
	if !ok {
		return false
	}
	return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode == http.StatusServiceUnavailable
}
