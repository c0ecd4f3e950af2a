// Package client implements the JSON transport for the platform's private
// API: header composition, retry with backoff, response decompression and
// envelope error mapping.
package client

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/internal/logger"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = 1 * time.Second

	userAgentValue        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
	headerContentTypeJSON = "application/json"
)

// defaultTransport is a tuned HTTP transport reused across clients.
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ResponseHeaderTimeout: 10 * time.Second,
	ForceAttemptHTTP2:     true,
	ReadBufferSize:        16 * 1024,
	WriteBufferSize:       16 * 1024,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// Config holds optional client parameters. Zero values use defaults.
type Config struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	UserAgent  string
	ProxyURL   string
	// Headers are merged into every request after the base header set.
	Headers map[string]string
}

// Client wraps http.Client with retry/backoff, default headers and
// envelope error mapping. Cookie and visitor id are settable at any time
// (by the auth collaborator) and applied to subsequent requests.
type Client struct {
	HTTPClient *http.Client
	Retries    int
	RetryDelay time.Duration
	UserAgent  string

	extraHeaders map[string]string

	mu        sync.RWMutex
	cookie    string
	visitorID string

	log *logger.ComponentLogger
}

// New creates a new Client with a tuned Transport, default timeout, and retries.
func New() *Client {
	return NewWith(Config{})
}

// NewWith creates a new client with provided config. Zero values use defaults.
func NewWith(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = userAgentValue
	}

	tr := defaultTransport.Clone()
	if cfg.ProxyURL != "" {
		if proxyFunc, err := proxyFromURLString(cfg.ProxyURL); err == nil {
			tr.Proxy = proxyFunc
		}
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		Retries:      retries,
		RetryDelay:   delay,
		UserAgent:    ua,
		extraHeaders: cfg.Headers,
		log:          logger.New(logger.FromEnv()).WithComponent(logger.ComponentClient),
	}
}

// WithLogger replaces the component logger.
func (c *Client) WithLogger(log *logger.ComponentLogger) *Client {
	if log != nil {
		c.log = log
	}
	return c
}

// SetCookie sets the session cookie applied to subsequent requests.
func (c *Client) SetCookie(cookie string) {
	c.mu.Lock()
	c.cookie = cookie
	c.mu.Unlock()
}

// SetVisitorID sets the visitor id applied to subsequent requests.
func (c *Client) SetVisitorID(visitorID string) {
	c.mu.Lock()
	c.visitorID = visitorID
	c.mu.Unlock()
}

// Cookie returns the current session cookie.
func (c *Client) Cookie() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookie
}

// VisitorID returns the current visitor id.
func (c *Client) VisitorID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visitorID
}

// RequestJSON executes an API request and returns the decoded JSON object.
// Transient network failures and 429 responses are retried with linear
// backoff (RetryDelay * (attempt+1)), honoring a server-supplied
// Retry-After. Application errors from the response envelope are mapped
// to typed errors and never retried.
func (c *Client) RequestJSON(ctx context.Context, method, rawURL string, headers map[string]string, body any) (map[string]any, error) {
	raw, err := c.requestRaw(ctx, method, rawURL, headers, body)
	if err != nil {
		return nil, err
	}

	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &errs.ParsingError{What: "response body", Err: err}
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &errs.ParsingError{What: "response body", Err: errors.New("root is not an object")}
	}
	if err := mapEnvelopeError(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// RequestJSONValue is RequestJSON without the object-root requirement,
// for endpoints whose root is an array (e.g. search completion).
func (c *Client) RequestJSONValue(ctx context.Context, method, rawURL string, headers map[string]string, body any) (any, error) {
	raw, err := c.requestRaw(ctx, method, rawURL, headers, body)
	if err != nil {
		return nil, err
	}
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &errs.ParsingError{What: "response body", Err: err}
	}
	return root, nil
}

func (c *Client) requestRaw(ctx context.Context, method, rawURL string, headers map[string]string, body any) ([]byte, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, &errs.ParsingError{What: "request body", Err: err}
		}
	}

	reqID := uuid.NewString()
	retries := c.Retries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		// Cancellation is checked before every attempt, including the
		// first, so a cancelled caller never issues a request.
		if err := ctx.Err(); err != nil {
			return nil, &errs.CancelledError{Err: err}
		}
		if attempt > 0 {
			delay := c.backoffDelay(lastErr, attempt)
			c.log.Debug("retrying request", map[string]any{
				"request_id": reqID, "attempt": attempt, "delay": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &errs.CancelledError{Err: ctx.Err()}
			}
		}

		raw, err := c.doOnce(ctx, method, rawURL, headers, bodyBytes, reqID)
		if err == nil {
			return raw, nil
		}
		if !errs.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// backoffDelay is linear (RetryDelay * attempt number), unless the server
// supplied a Retry-After, which wins.
func (c *Client) backoffDelay(lastErr error, attempt int) time.Duration {
	var rl *errs.RateLimitedError
	if errors.As(lastErr, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return c.RetryDelay * time.Duration(attempt)
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, headers map[string]string, body []byte, reqID string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &errs.ExtractorError{Message: "build request", Err: err}
	}
	c.applyHeaders(req, headers, body != nil)

	c.log.Debug("request", map[string]any{
		"request_id": reqID, "method": method, "url": rawURL,
	})

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if ctx.Err() != nil {
				return nil, &errs.CancelledError{Err: err}
			}
		}
		return nil, &errs.NetworkError{URL: rawURL, Transient: isTransient(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("response", map[string]any{
		"request_id": reqID, "status": resp.StatusCode,
	})

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &errs.RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &errs.NetworkError{
			URL:       rawURL,
			Transient: true,
			Err:       errors.New("server error: " + resp.Status),
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &errs.AuthenticationError{Reason: resp.Status}
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, &errs.ExtractorError{Message: "unexpected status " + resp.Status}
	}

	raw, err := readBody(resp)
	if err != nil {
		return nil, &errs.NetworkError{URL: rawURL, Transient: true, Err: err}
	}
	return raw, nil
}

// applyHeaders merges the base header set, construction-time extras,
// per-call headers and the mutable cookie/visitor-id pair.
func (c *Client) applyHeaders(req *http.Request, headers map[string]string, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", headerContentTypeJSON)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")

	for k, v := range c.extraHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.mu.RLock()
	cookie, visitorID := c.cookie, c.visitorID
	c.mu.RUnlock()
	if visitorID != "" {
		req.Header.Set("X-Goog-Visitor-Id", visitorID)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
}

// readBody decompresses the response body according to Content-Encoding.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() { _ = gzReader.Close() }()
		reader = gzReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		// deflate is raw DEFLATE data, no wrapper
		reader = resp.Body
	case "bzip2":
		reader = bzip2.NewReader(resp.Body)
	}
	return io.ReadAll(reader)
}

// mapEnvelopeError maps the error field of a JSON envelope to a typed
// error. A missing or non-object error field means success.
func mapEnvelopeError(obj map[string]any) error {
	envelope, ok := obj["error"].(map[string]any)
	if !ok {
		return nil
	}
	status, _ := envelope["status"].(string)
	message, _ := envelope["message"].(string)
	switch status {
	case "LOGIN_REQUIRED", "UNAUTHENTICATED", "PERMISSION_DENIED":
		return &errs.AuthenticationError{Reason: message}
	case "ERROR", "NOT_FOUND":
		return &errs.VideoUnavailableError{Reason: message}
	default:
		return &errs.ExtractorError{Message: "api error: " + message}
	}
}

// isTransient reports whether a transport error is worth retrying.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Temporary() || urlErr.Timeout()
	}
	return false
}

// parseRetryAfter understands both delta-seconds and HTTP-date values.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if when, err := http.ParseTime(value); err == nil {
		if d := time.Until(when); d > 0 {
			return d
		}
	}
	return 0
}

// proxyFromURLString parses a proxy URL and returns a Proxy function.
func proxyFromURLString(raw string) (func(*http.Request) (*url.URL, error), error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return http.ProxyURL(u), nil
}
