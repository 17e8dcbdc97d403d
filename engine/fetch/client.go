// Package fetch retrieves a thread's public JSON representation over HTTP.
// Each call makes exactly one request; retries are left to the caller.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/WessleyAI/threadtext/engine/thread"
)

// Defaults for Config fields left zero.
const (
	DefaultUserAgent    = "threadtext/1.0 (thread transcript converter)"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 32 << 20
)

// ErrBodyTooLarge is wrapped in a FetchError when the response exceeds
// Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// Config controls the HTTP client.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Client fetches and decodes thread JSON.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates a Client with the given config.
func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// FetchThread GETs url and decodes the body as a thread. Every failure,
// including cancellation of ctx, is returned as a *thread.FetchError.
func (c *Client) FetchThread(ctx context.Context, url string) (thread.Thread, error) {
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, &thread.FetchError{URL: url, StatusCode: status, Err: err}
	}
	t, err := thread.Decode(body)
	if err != nil {
		return nil, &thread.FetchError{URL: url, StatusCode: status, Err: err}
	}
	return t, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodyBytes {
		return nil, resp.StatusCode, ErrBodyTooLarge
	}
	return body, resp.StatusCode, nil
}
