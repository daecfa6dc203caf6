// Package netclient provides the pooled HTTP client shared by every probe
// during a scan. Transport failures never escape Fetch: they surface as a nil
// payload so one unreachable endpoint cannot abort the calling probe.
package netclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
)

// DefaultUserAgent is the fixed identity header sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/122.0.0.0 Safari/537.36"

// Config holds the configuration for the shared client.
// It is fixed at construction and never mutated mid-run.
type Config struct {
	// MaxConnections bounds in-flight requests across all probes.
	// Default: 60
	MaxConnections int

	// Timeout is the per-request total timeout used when the caller passes 0.
	// Default: 60 seconds
	Timeout time.Duration

	// UserAgent is the User-Agent header value.
	UserAgent string

	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string

	// InsecureSkipVerify disables certificate verification.
	// Default: true
	InsecureSkipVerify bool

	// RateLimit is the maximum requests per second. 0 disables limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int

	// MaxBodyBytes caps how much of a response body is read.
	// Default: 16 MiB
	MaxBodyBytes int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConnections:     60,
		Timeout:            60 * time.Second,
		UserAgent:          DefaultUserAgent,
		InsecureSkipVerify: true,
		RateLimitBurst:     1,
		MaxBodyBytes:       16 << 20,
	}
}

// Client is the shared network client. Safe for concurrent use.
type Client struct {
	config Config
	logger logx.Logger

	sem     *semaphore.Weighted
	limiter *rate.Limiter

	mu         sync.Mutex
	httpClient *http.Client
	transport  *http.Transport
	closed     bool
}

// New creates a client. The connection pool is built by Start.
func New(config Config, logger logx.Logger) *Client {
	def := DefaultConfig()
	if config.MaxConnections <= 0 {
		config.MaxConnections = def.MaxConnections
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.RateLimitBurst <= 0 {
		config.RateLimitBurst = def.RateLimitBurst
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = def.MaxBodyBytes
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimitBurst)
	}

	return &Client{
		config:  config,
		logger:  logger.With("component", "netclient"),
		sem:     semaphore.NewWeighted(int64(config.MaxConnections)),
		limiter: limiter,
	}
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Start builds the pooled transport. Calling it twice is a no-op.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrClientClosed
	}
	if c.httpClient != nil {
		return nil
	}

	transport, err := c.buildTransport()
	if err != nil {
		return err
	}
	c.transport = transport
	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.config.Timeout,
	}

	c.logger.Debug("network client started",
		"max_connections", c.config.MaxConnections,
		"timeout", c.config.Timeout.String(),
		"proxy", c.config.Proxy != "",
	)
	return nil
}

func (c *Client) buildTransport() (*http.Transport, error) {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		MaxIdleConns:          c.config.MaxConnections,
		MaxIdleConnsPerHost:   c.config.MaxConnections,
		MaxConnsPerHost:       c.config.MaxConnections,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		DialContext:           dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.config.InsecureSkipVerify, //nolint:gosec // recon targets often have broken certs
		},
		Proxy: http.ProxyFromEnvironment,
	}

	if c.config.Proxy != "" {
		proxyURL, err := url.Parse(c.config.Proxy)
		if err != nil || proxyURL.Host == "" {
			return nil, fmt.Errorf("%w: invalid proxy url %q", domain.ErrInvalidConfig, c.config.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return transport, nil
}

// client returns the live http.Client, starting lazily. nil once closed.
func (c *Client) client(ctx context.Context) *http.Client {
	c.mu.Lock()
	hc, closed := c.httpClient, c.closed
	c.mu.Unlock()

	if closed {
		return nil
	}
	if hc != nil {
		return hc
	}
	if err := c.Start(ctx); err != nil {
		c.logger.Warn("lazy start failed", "error", err.Error())
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.httpClient
}

// Fetch performs a GET against rawURL with the given query params.
// timeout <= 0 falls back to the configured request timeout.
// The body is decoded as JSON when possible, otherwise kept as raw text.
// Any transport failure returns nil.
func (c *Client) Fetch(ctx context.Context, rawURL string, params url.Values, timeout time.Duration) *domain.Payload {
	hc := c.client(ctx)
	if hc == nil {
		c.logger.Debug("fetch on closed client", "url", rawURL)
		return nil
	}

	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target, err := withParams(rawURL, params)
	if err != nil {
		c.logger.Debug("invalid url", "url", rawURL, "error", err.Error())
		return nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Debug("rate limit wait aborted", "url", target, "error", err.Error())
			return nil
		}
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		c.logger.Debug("connection slot not acquired", "url", target, "error", err.Error())
		return nil
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.logger.Debug("failed to build request", "url", target, "error", err.Error())
		return nil
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"url", target,
			"kind", errors.Kind(err).Error(),
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("auth error", "url", target, "status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes))
	if err != nil {
		c.logger.Debug("failed to read body",
			"url", target,
			"kind", errors.Kind(err).Error(),
			"error", err.Error(),
		)
		return nil
	}

	c.logger.Debug("HTTP response received",
		"url", target,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return domain.NewPayload(resp.StatusCode, body)
}

// Close releases every pooled connection. Safe to call more than once and
// safe to call even if Start never ran.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	c.httpClient = nil
	c.logger.Debug("network client closed")
	return nil
}

// withParams merges params into the query string of rawURL.
func withParams(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", rawURL)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("NetClient{max_connections=%d, timeout=%s, rate_limit=%.1f/s}",
		c.config.MaxConnections,
		c.config.Timeout,
		c.config.RateLimit,
	)
}

var _ ports.SharedClient = (*Client)(nil)
