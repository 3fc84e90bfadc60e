package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/dmitrijs2005/hirehub/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 10 * time.Second

	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
)

// TokenSource yields the bearer token to attach. It is consulted on every
// request, so a login or logout takes effect on the very next call.
type TokenSource interface {
	ActiveToken(ctx context.Context) (models.Token, error)
}

// HTTPClient issues JSON requests against the backend API root.
type HTTPClient struct {
	baseURL  *url.URL
	http     *http.Client
	tokens   TokenSource
	headers  http.Header
	timeout  time.Duration
	limiter  *rate.Limiter
	policies []Policy
	log      logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient bases the transport on hc. The wrapper works on a copy,
// so hc itself is left untouched; the copy's Timeout is the wrapper's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			cp := *hc
			c.http = &cp
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second; rps <= 0 disables it.
func WithRateLimit(rps float64) Option {
	return func(c *HTTPClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func WithPolicies(p ...Policy) Option {
	return func(c *HTTPClient) { c.policies = append(c.policies, p...) }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithHeader(key, value string) Option {
	return func(c *HTTPClient) { c.headers.Set(key, value) }
}

func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{},
		tokens:  tokens,
		headers: http.Header{},
		timeout: DefaultTimeout,
		log:     logging.Nop(),
	}
	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}
	c.http.Timeout = c.timeout

	return c, nil
}

func (c *HTTPClient) BaseURL() string { return c.baseURL.String() }

func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one request. path is relative to the API root and must already
// be escaped. in (if non-nil) is sent as JSON; a 2xx JSON body is decoded
// into out (if non-nil). Every configured policy sees the outcome before
// Do returns.
func (c *HTTPClient) Do(ctx context.Context, method, path string, in, out any) error {
	requestID := uuid.NewString()

	status, err := c.do(ctx, method, path, requestID, in, out)

	outcome := Outcome{Method: method, Path: path, RequestID: requestID, Status: status, Err: err}
	for _, p := range c.policies {
		p.Handle(ctx, outcome)
	}

	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "status", status, "request_id", requestID, "error", err)
	} else {
		c.log.Debug(ctx, "request done", "method", method, "path", path, "status", status, "request_id", requestID)
	}
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path, requestID string, in, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrRateLimiterTimeout, err)
		}
	}

	req, err := c.newRequest(ctx, method, path, requestID, in)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", classifyTransportError(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, newAPIError(resp.StatusCode, body)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path, requestID string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set(RequestIDHeader, requestID)

	if c.tokens != nil {
		token, err := c.tokens.ActiveToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if !token.IsZero() {
			req.Header.Set(AuthorizationHeader, "Bearer "+string(token))
		}
	}
	return req, nil
}
