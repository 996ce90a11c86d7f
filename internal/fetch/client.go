package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/seoscan/internal/model"
)

// Defaults used by New.
const (
	DefaultRetries     = 3
	DefaultTimeout     = 10 * time.Second
	DefaultHeadRetries = 2
	DefaultHeadTimeout = 5 * time.Second
	DefaultBackoff     = time.Second
	DefaultMaxBodySize = 5 * 1024 * 1024
	DefaultUserAgent   = "Mozilla/5.0 (compatible; seoscan/1.0; +https://github.com/nao1215/seoscan)"
)

// auditHeaders are the response headers copied into model.FetchInfo.
var auditHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Cache-Control",
	"Last-Modified",
	"Server",
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Referrer-Policy",
	"Permissions-Policy",
	"X-Robots-Tag",
}

// SiteSettings are per-host request customizations.
type SiteSettings struct {
	// Cookie is sent as the Cookie header when non-empty.
	Cookie string

	// Headers are added to every request to the host.
	Headers map[string]string

	// UserAgent overrides the client's User-Agent when non-empty.
	UserAgent string
}

// Response is a successfully retrieved page.
type Response struct {
	// Body is the response body, cut at the client's maximum body size.
	Body []byte

	// StatusCode is the final status code.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// FinalURL is the address after redirects.
	FinalURL string

	// Elapsed is the time from sending the request to reading the body.
	Elapsed time.Duration
}

// Info converts the response to the fetch description stored in reports.
func (r *Response) Info() *model.FetchInfo {
	headers := make(map[string]string)
	for _, name := range auditHeaders {
		if v := r.Header.Get(name); v != "" {
			headers[name] = v
		}
	}
	return &model.FetchInfo{
		StatusCode:     r.StatusCode,
		FinalURL:       r.FinalURL,
		PageSizeBytes:  len(r.Body),
		LoadTimeMillis: model.Round2(float64(r.Elapsed) / float64(time.Millisecond)),
		Headers:        headers,
	}
}

// Client retrieves pages over HTTP.
type Client struct {
	// httpClient performs the requests. Per-attempt timeouts are applied
	// through the request context.
	httpClient *http.Client

	userAgent   string
	maxBodySize int64

	retries     int
	timeout     time.Duration
	headRetries int
	headTimeout time.Duration
	backoff     time.Duration

	// sites returns per-host settings. Nil means none.
	sites func(host string) SiteSettings

	limiter *Limiter
	cache   *Cache
	logger  *slog.Logger

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize limits how much of a body is read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithRetries sets the number of GET attempts.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithTimeout sets the timeout of a single GET attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHeadRetries sets the number of HEAD attempts.
func WithHeadRetries(n int) Option {
	return func(c *Client) {
		c.headRetries = n
	}
}

// WithHeadTimeout sets the timeout of a single HEAD attempt.
func WithHeadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.headTimeout = d
	}
}

// WithBackoff sets the base delay between attempts. Attempt n waits
// backoff*2^n.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// WithSiteSettings sets the lookup of per-host request settings.
func WithSiteSettings(lookup func(host string) SiteSettings) Option {
	return func(c *Client) {
		c.sites = lookup
	}
}

// WithLimiter rate limits requests per host.
func WithLimiter(l *Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithCache caches successful GET responses.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		retries:     DefaultRetries,
		timeout:     DefaultTimeout,
		headRetries: DefaultHeadRetries,
		headTimeout: DefaultHeadTimeout,
		backoff:     DefaultBackoff,
		logger:      slog.Default(),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retries = max(1, c.retries)
	c.headRetries = max(1, c.headRetries)
	return c
}

// HTTPClient returns the underlying HTTP client, for checks that download
// additional resources.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// UserAgent returns the default User-Agent.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Fetch retrieves address with GET.
//
// A cached response is returned without a request. A non-2xx status
// returns a *StatusError immediately. Connection failures and timeouts are
// retried; when every attempt fails a *NoResponseError is returned.
func (c *Client) Fetch(ctx context.Context, address string) (*Response, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if c.cache != nil {
		if resp, ok := c.cache.Get(address); ok {
			c.logger.Debug("cache hit", "url", address)
			return resp, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		resp, err := c.get(ctx, address)
		if err == nil {
			if c.cache != nil {
				c.cache.Set(address, resp)
			}
			return resp, nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, statusErr
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if !isTransient(err) {
			return nil, &NoResponseError{URL: address, Attempts: attempt + 1, Err: err}
		}

		if attempt < c.retries-1 {
			wait := c.backoff * time.Duration(1<<attempt)
			c.logger.Debug("retrying fetch", "url", address, "attempt", attempt+1, "wait", wait, "error", err)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
	}
	return nil, &NoResponseError{URL: address, Attempts: c.retries, Err: lastErr}
}

func (c *Client) get(ctx context.Context, address string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, address); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, address)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{URL: address, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		FinalURL:   resp.Request.URL.String(),
		Elapsed:    time.Since(start),
	}, nil
}

// HeadStatus probes address with HEAD and returns whatever status the
// server answers with. Connection failures and timeouts are retried.
func (c *Client) HeadStatus(ctx context.Context, address string) (int, error) {
	if err := validateAddress(address); err != nil {
		return 0, err
	}

	var lastErr error
	for attempt := 0; attempt < c.headRetries; attempt++ {
		status, err := c.head(ctx, address)
		if err == nil {
			return status, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		lastErr = err
		if !isTransient(err) {
			return 0, &NoResponseError{URL: address, Attempts: attempt + 1, Err: err}
		}
		if attempt < c.headRetries-1 {
			if err := c.sleep(ctx, c.backoff*time.Duration(1<<attempt)); err != nil {
				return 0, err
			}
		}
	}
	return 0, &NoResponseError{URL: address, Attempts: c.headRetries, Err: lastErr}
}

func (c *Client) head(ctx context.Context, address string) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, address); err != nil {
			return 0, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.headTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodHead, address)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// newRequest builds a request carrying the user agent and the host's site settings.
func (c *Client) newRequest(ctx context.Context, method, address string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, address, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	if c.sites != nil {
		site := c.sites(req.URL.Hostname())
		if site.UserAgent != "" {
			req.Header.Set("User-Agent", site.UserAgent)
		}
		for k, v := range site.Headers {
			req.Header.Set(k, v)
		}
		if site.Cookie != "" {
			req.Header.Set("Cookie", site.Cookie)
		}
	}
	return req, nil
}

func validateAddress(address string) error {
	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return nil
}

// isTransient reports whether err is a connection failure or timeout worth
// another attempt.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
