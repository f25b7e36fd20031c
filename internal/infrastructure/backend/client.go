// Package backend is the REST client shared by every request an app instance
// makes. It carries the session's Authorization header once installed.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional

	// Observe, when set, receives one call per request. route is a fixed
	// name, never the raw path.
	Observe func(route, method string, status int, elapsed time.Duration)
}

// Client talks to the LogiPro REST backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	observe func(route, method string, status int, elapsed time.Duration)
	log     zerolog.Logger

	mu        sync.RWMutex
	headers   http.Header
	onInvalid func(ctx context.Context)
}

// New returns a Client for cfg.BaseURL.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: base url %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	return &Client{
		base:    base,
		http:    hc,
		observe: cfg.Observe,
		log:     log.With().Str("component", "backend").Logger(),
		headers: headers,
	}, nil
}

// SetAuthToken installs token as the default Authorization header.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Set("Authorization", "Bearer "+token)
}

// ClearAuthToken removes the default Authorization header.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Del("Authorization")
}

// AuthToken returns the installed token, or "".
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimPrefix(c.headers.Get("Authorization"), "Bearer ")
}

// OnInvalidToken registers fn to run when the backend answers 401
// token_not_valid to a request that carried a token.
func (c *Client) OnInvalidToken(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onInvalid = fn
}

// GetJSON fetches path, or an absolute URL on the backend host, into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, "get", http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, route, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", route, err)
	}
	return c.do(ctx, route, http.MethodPost, path, bytes.NewReader(body), "", out)
}

// resolve turns path into a URL on the backend. Absolute URLs, as found in
// pagination links, are used verbatim if they point at the backend host.
func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("backend: parse %q: %w", path, err)
	}
	if ref.IsAbs() {
		if !strings.EqualFold(ref.Scheme, c.base.Scheme) || !strings.EqualFold(ref.Host, c.base.Host) {
			return "", domain.ErrForeignURL
		}
		return ref.String(), nil
	}

	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, route, method, path string, body io.Reader, contentType string, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.mu.RLock()
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	onInvalid := c.onInvalid
	c.mu.RUnlock()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	hadToken := req.Header.Get("Authorization") != ""

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(route, method, 0, start)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.record(route, method, resp.StatusCode, start)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := decodeError(resp)
		c.log.Debug().
			Str("method", method).
			Str("route", route).
			Int("status", resp.StatusCode).
			Str("code", apiErr.Code).
			Msg("backend error")
		if hadToken && apiErr.TokenNotValid() && onInvalid != nil {
			onInvalid(ctx)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) record(route, method string, status int, start time.Time) {
	if c.observe != nil {
		c.observe(route, method, status, time.Since(start))
	}
}
