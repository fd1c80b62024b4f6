package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/nao1215/linkharvest/internal/config"
)

// Client fetches pages over one shared, connection-pooled HTTP client.
// It is safe for concurrent use; the pooling transport is the only state
// it mutates, and only through its own internal logic.
type Client struct {
	// httpClient is the shared HTTP client with a pooled transport.
	httpClient *http.Client

	// timeout is the per-request timeout.
	timeout time.Duration

	// userAgent is sent with every request unless a host override applies.
	userAgent string

	// maxBodySize caps how many bytes of a response body are read.
	maxBodySize int64

	// hosts supplies per-host header and user agent overrides.
	hosts *config.File

	// logger receives one informational event per successful fetch and
	// is shared with diagnostics.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithHostConfig sets per-host overrides (extra headers, user agent).
func WithHostConfig(hosts *config.File) Option {
	return func(c *Client) {
		c.hosts = hosts
	}
}

// WithLogger sets the logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// Intended for tests that need a custom transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates the shared fetch client for one crawl run.
//
// The transport keeps idle connections around so concurrent fetches against
// the same host reuse sockets instead of re-dialing. A failure here is
// fatal to the whole run; it is the only setup the crawl cannot work
// around.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:     config.DefaultTimeout,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		hosts:       &config.File{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidClientConfig, c.timeout)
	}
	if c.maxBodySize <= 0 {
		return nil, fmt.Errorf("%w: max body size must be positive, got %d", ErrInvalidClientConfig, c.maxBodySize)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.hosts == nil {
		c.hosts = &config.File{}
	}

	if c.httpClient == nil {
		transport := &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		}
		c.httpClient = &http.Client{Transport: transport}
	}

	return c, nil
}

// Close releases the client's pooled connections.
// Call it only after every in-flight fetch has completed.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Fetch performs exactly one GET request against rawURL and returns the
// response body decoded to text.
//
// A transport-level failure returns a *TransportError; a non-2xx response
// returns a *StatusError carrying the status code. The body is fully read
// (up to the configured cap) before Fetch returns, so the connection can
// go back to the pool.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &TransportError{URL: rawURL, Err: err}
	}
	c.setHeaders(req, rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return "", &TransportError{URL: rawURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	c.logger.Info("got response",
		"url", rawURL,
		"status", resp.StatusCode,
	)

	return decodeBody(body, resp.Header.Get("Content-Type")), nil
}

// setHeaders applies the User-Agent and any per-host overrides to req.
func (c *Client) setHeaders(req *http.Request, rawURL string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}

	hc := c.hosts.GetHostConfig(u.Hostname())
	if hc.UserAgent != "" {
		req.Header.Set("User-Agent", hc.UserAgent)
	}
	for k, v := range hc.Headers {
		req.Header.Set(k, v)
	}
}

// decodeBody converts the response body to UTF-8 text, honoring the
// charset declared in the Content-Type header. Unknown charsets and decode
// failures fall back to the raw bytes; a best-effort body is more useful
// to the extractor than none.
func decodeBody(body []byte, contentType string) string {
	if contentType == "" {
		return string(body)
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}

	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" {
		return string(body)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
