package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"

	"github.com/stockdesk/stockdesk/internal/logging"
)

// Headers sent or inspected by the client.
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderTraceID    = "X-Trace-ID"
	HeaderAPIVersion = "X-API-Version"
	HeaderRetryAfter = "Retry-After"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultRetryBase  = 200 * time.Millisecond
	defaultRetryMax   = 3 * time.Second
	backoffMultiplier = 2
	maxErrorBodyBytes = 64 << 10
)

// Options configures a Client. Zero values fall back to package defaults.
type Options struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
	RetryMax   time.Duration
	// ServerVersion is a semver constraint checked against the X-API-Version response header.
	ServerVersion string
	// Strict turns a failed version check into ErrIncompatibleServer instead of a warning.
	Strict     bool
	HTTPClient *http.Client
}

// Client talks JSON to the inventory backend.
type Client struct {
	baseURL    *url.URL
	token      string
	userAgent  string
	timeout    time.Duration
	maxRetries int
	retryBase  time.Duration
	retryMax   time.Duration
	constraint *semver.Constraints
	strict     bool
	http       *http.Client

	versionWarn sync.Once
	sleep       func(ctx context.Context, d time.Duration) error
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", opts.BaseURL)
	}

	c := &Client{
		baseURL:    base,
		token:      opts.Token,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		maxRetries: max(0, opts.MaxRetries),
		retryBase:  opts.RetryBase,
		retryMax:   opts.RetryMax,
		strict:     opts.Strict,
		http:       opts.HTTPClient,
		sleep:      sleepContext,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.retryBase <= 0 {
		c.retryBase = defaultRetryBase
	}
	if c.retryMax < c.retryBase {
		c.retryMax = max(defaultRetryMax, c.retryBase)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.userAgent == "" {
		c.userAgent = "stockdesk"
	}
	if opts.ServerVersion != "" {
		if c.constraint, err = semver.NewConstraint(opts.ServerVersion); err != nil {
			return nil, fmt.Errorf("invalid server version constraint %q: %w", opts.ServerVersion, err)
		}
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetToken replaces the bearer token, e.g. right after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// HasToken reports whether requests carry a bearer token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Get issues a GET and decodes the (possibly enveloped) body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE and ignores any body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do sends one logical request, retrying failed attempts with exponential backoff.
// A 204 or an empty body leaves out untouched. out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	log := logging.FromContext(ctx)

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	var lastErr error
	backoff := c.retryBase
	attempts := 1 + c.maxRetries
	for attempt := range attempts {
		if attempt > 0 {
			wait := backoff
			var apiErr *Error
			if errors.As(lastErr, &apiErr) && apiErr.retryAfter > 0 {
				wait = min(apiErr.retryAfter, c.retryMax)
			}
			log.Debug().
				Ctx(ctx).
				Str("component", "api").
				Str("method", method).
				Str("path", path).
				Int("attempt", attempt+1).
				Int("max_attempts", attempts).
				Dur("backoff", wait).
				Err(lastErr).
				Msg("retrying request")
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			backoff = min(backoff*backoffMultiplier, c.retryMax)
		}

		raw, err := c.attempt(ctx, method, path, query, payload)
		if err == nil {
			return decodeBody(raw, out, method, path)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(err) || !retryAllowed(method, err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

// retryAllowed keeps non-idempotent requests from being replayed after the server may
// have applied them. A 429 was never processed, so it is always safe to repeat.
func retryAllowed(method string, err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	log := logging.FromContext(ctx)

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, c.resolve(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(HeaderTraceID, traceID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == nil && isTimeout(err) {
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Ctx(ctx).
		Str("component", "api").
		Str("operation", "request").
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if err = c.checkVersion(ctx, resp.Header.Get(HeaderAPIVersion)); err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		apiErr := &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.StatusCode),
			RequestID:  requestID,
			retryAfter: parseRetryAfter(resp.Header.Get(HeaderRetryAfter)),
		}
		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == nil && isTimeout(err) {
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// checkVersion validates the server's X-API-Version against the configured constraint.
// A missing header is accepted; a mismatch warns once or fails in strict mode.
func (c *Client) checkVersion(ctx context.Context, header string) error {
	if c.constraint == nil || header == "" {
		return nil
	}
	v, err := semver.NewVersion(header)
	ok := err == nil && c.constraint.Check(v)
	if ok {
		return nil
	}
	if c.strict {
		return fmt.Errorf("%w: server %q does not satisfy %q", ErrIncompatibleServer, header, c.constraint.String())
	}
	c.versionWarn.Do(func() {
		log := logging.FromContext(ctx)
		log.Warn().
			Ctx(ctx).
			Str("component", "api").
			Str("server_version", header).
			Str("constraint", c.constraint.String()).
			Msg("server version outside the supported range, continuing")
	})
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "HTTP " + strconv.Itoa(status)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
