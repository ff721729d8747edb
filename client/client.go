// Package client talks to SRU endpoints of the German library union
// catalogs. It owns the HTTP transport with retries and rate limiting and
// hands response bodies to the sru parsers.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sethgrid/pester"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jvanvinkenroye/swb/misc"
)

const (
	// DefaultBaseURL is the SWB endpoint served by the K10plus
	// infrastructure.
	DefaultBaseURL = "https://sru.k10plus.de/swb"
	// DefaultSRUVersion is sent unless facets force 2.0 or the caller
	// overrides it.
	DefaultSRUVersion = "1.1"

	defaultTimeout = 30 * time.Second
	defaultRetries = 4

	// maxBodySize caps response bodies before they reach the XML layer.
	maxBodySize = 64 << 20
)

// ResponseHook receives a copy of every response body the client fetched,
// keyed by operation and the request id from the logs. Used to archive raw
// responses into debug reports.
type ResponseHook func(operation, requestID string, data []byte)

// Client is an SRU protocol client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	version   string
	userAgent string
	apiKey    string
	timeout   time.Duration
	retries   int
	limiter   *rate.Limiter
	hook      ResponseHook
	log       *zap.Logger
	http      *pester.Client
}

// Option configures a Client during construction.
type Option func(*Client)

// WithBaseURL points the client at another SRU endpoint, usually taken from
// a catalog profile.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds a single HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAPIKey sends the key as an Authorization bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithUserAgent overrides the default swb/<version> user agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRetries sets the total number of attempts per request. Failed
// attempts back off exponentially and HTTP 429 responses are retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithRateLimit throttles outgoing requests to the given number per second.
// Zero or negative disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithSRUVersion changes the protocol version sent with every request.
func WithSRUVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithResponseHook registers a hook receiving every fetched response body.
func WithResponseHook(hook ResponseHook) Option {
	return func(c *Client) { c.hook = hook }
}

// New creates a client for the SWB endpoint unless options say otherwise.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		version: DefaultSRUVersion,
		timeout: defaultTimeout,
		retries: defaultRetries,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.userAgent == "" {
		c.userAgent = fmt.Sprintf("%s/%s (+https://github.com/jvanvinkenroye/swb)", misc.GetAppName(), misc.GetVersion())
	}

	hc := pester.NewExtendedClient(&http.Client{Timeout: c.timeout})
	hc.Backoff = pester.ExponentialBackoff
	hc.MaxRetries = c.retries
	hc.SetRetryOnHTTP429(true)
	hc.LogHook = func(e pester.ErrEntry) {
		c.log.Warn("Retrying request",
			zap.String("url", e.URL),
			zap.Int("attempt", e.Attempt),
			zap.Error(e.Err))
	}
	c.http = hc
	return c
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SRUVersion returns the protocol version sent by default.
func (c *Client) SRUVersion() string {
	return c.version
}

// fetch runs one SRU operation against the endpoint and returns the raw
// response body.
func (c *Client) fetch(ctx context.Context, operation string, params url.Values) ([]byte, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate request id: %w", err)
	}
	log := c.log.With(zap.Stringer("request_id", id), zap.String("operation", operation))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	log.Debug("Requesting", zap.String("url", req.URL.Redacted()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: c.baseURL}
		log.Error("Server refused request", zap.Int("status", resp.StatusCode), zap.String("hint", apiErr.Hint()))
		return nil, apiErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBodySize)
	}

	log.Debug("Response received", zap.Int("size", len(body)))

	if c.hook != nil {
		c.hook(operation, id.String(), body)
	}
	return body, nil
}
