package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxDrainSize bounds how much of a response body is read (and discarded)
// before the connection is closed.
const maxDrainSize = 1 << 20 // 1MB

// each Client talks to a single address, so its pool stays small
const (
	defaultMaxIdleConns        = 2
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 60 * time.Second
)

// Client is an HTTP client wrapper used as the probe handle of a [Target].
//
// Client applies its timeout per request via context, so the whole probe
// (DNS, connect, TLS, headers and body drain) is bounded by the same limit.
// Redirects are not followed: the status reported is the one returned by
// the configured address itself.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a new probe [Client] with the given per-probe timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			// no client-level timeout - Probe applies it via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: timeout,
	}
}

// Timeout returns the per-probe timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Probe performs a GET request against address and returns the HTTP status code.
//
// The response body is never buffered or written anywhere: it is drained
// into [io.Discard] (up to 1MB) and closed. Any transport failure, timeout
// or body read error is returned as an error.
func (c *Client) Probe(ctx context.Context, address string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, RequestURL(address), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainSize)); err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, nil
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times and on a nil receiver. The client remains
// usable afterwards; new connections are dialled as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// RequestURL returns the URL probed for address. An address without a
// scheme is probed over plain HTTP, the way curl treats a bare host.
func RequestURL(address string) string {
	if strings.Contains(address, "://") {
		return address
	}
	return "http://" + address
}
