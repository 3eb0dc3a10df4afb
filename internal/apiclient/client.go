// Package apiclient is the single path from the dashboard to the hospital
// API. It attaches the session's bearer credential to each call and turns an
// authentication rejection into a session teardown.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"hospital-dashboard/internal/metrics"
	"hospital-dashboard/pkg/apierror"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 10 << 20
)

// CredentialSource is the view of the session the client needs.
type CredentialSource interface {
	Credential() (string, bool)
	Invalidate(credential string) bool
}

type Config struct {
	BaseURL         string
	Timeout         time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    CredentialSource
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(cfg Config, session CredentialSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid hospital API base URL %q", cfg.BaseURL)
	}
	if session == nil {
		return nil, fmt.Errorf("credential source is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	burst := cfg.RateLimitBurst
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
		if burst <= 0 {
			burst = 1
		}
	}

	c := &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		limiter:    rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hospital-api",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("hospital API breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			c.metrics.SetBreakerState(breakerStateValue(to))
		},
	})

	return c, nil
}

// Do sends body as JSON and decodes a successful response into out. out may
// be nil.
func (c *Client) Do(ctx context.Context, method string, path string, body any, out any) error {
	resp, err := c.Request(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// Request sends one call to the hospital API. Any non-2xx answer comes back
// as an *apierror.APIError; a 401 additionally ends the session whose
// credential was rejected.
func (c *Client) Request(ctx context.Context, method string, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}
	return c.dispatch(ctx, method, path, "application/json", payload, true)
}

// PostForm sends an urlencoded form, as the OAuth2 token endpoint expects.
// It never carries the session credential, so a 401 here leaves the session
// alone.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	resp, err := c.dispatch(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", []byte(form.Encode()), false)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

func (c *Client) dispatch(ctx context.Context, method string, path string, contentType string, payload []byte, attachCredential bool) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("outbound rate limit: %w", err)
	}

	var credential string
	var authenticated bool
	if attachCredential {
		credential, authenticated = c.session.Credential()
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, contentType, payload, credential, authenticated)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apierror.Upstream("hospital API is unavailable", err.Error(), http.StatusServiceUnavailable)
	}
	if err != nil {
		return nil, err
	}

	resp := result.(*Response)
	if resp.StatusCode == http.StatusUnauthorized {
		if authenticated && c.session.Invalidate(credential) {
			slog.Warn("hospital API rejected the session credential, session ended", "method", method, "path", path)
		}
		return nil, apierror.Unauthenticated(errorDetail(resp))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierror.FromStatus(resp.StatusCode, errorDetail(resp))
	}

	return resp, nil
}

// roundTrip reports transport failures and 5xx answers as errors so the
// breaker counts them; every other status is returned as a response.
func (c *Client) roundTrip(ctx context.Context, method string, path string, contentType string, payload []byte, credential string, authenticated bool) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+credential)
	}
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(method, path, 0, time.Since(started))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Error("hospital API request failed", "request_id", requestID, "method", method, "path", path, "error", err)
		return nil, apierror.Upstream("hospital API is unreachable", err.Error(), http.StatusBadGateway)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	c.metrics.ObserveUpstream(method, path, httpResp.StatusCode, time.Since(started))
	if err != nil {
		return nil, apierror.Upstream("failed to read hospital API response", err.Error(), http.StatusBadGateway)
	}

	slog.Debug("hospital API call",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}
	if resp.StatusCode >= 500 {
		return nil, apierror.FromStatus(resp.StatusCode, errorDetail(resp))
	}

	return resp, nil
}

func decodeInto(resp *Response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return apierror.Upstream("hospital API returned an unexpected body", err.Error(), http.StatusBadGateway)
	}
	return nil
}

func breakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
