// Package llamacpp is a typed HTTP client for a llama-server
// instance. Each public method maps onto exactly one server endpoint
// and performs exactly one request/response exchange; there are no
// retries and no streaming.
package llamacpp

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
	"time"

	"github.com/rs/zerolog"
)

// Client talks to a single llama-server at a fixed base URL. All
// requests share one configured timeout, enforced through a
// per-request context deadline.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        zerolog.Logger
}

// New validates the base URL and constructs a client. The timeout
// must be positive; it bounds every request issued by this client.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	// Timeout stays 0 on the http.Client: every request carries its own
	// context deadline in fetch().
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Transport: tr, Timeout: 0},
		log:        log,
	}, nil
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// fetch performs the single outbound request all methods funnel
// through. It arms a context deadline for the configured timeout,
// sends Content-Type: application/json unless the caller overrides
// it, and maps non-2xx responses to *StatusError. The response body
// is returned open; the caller owns closing it.
func (c *Client) fetch(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		observeRequest(path, "error", time.Since(start))
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("request to %s timed out after %s: %w", path, c.timeout, context.DeadlineExceeded)
		}
		return nil, err
	}
	observeRequest(path, strconv.Itoa(resp.StatusCode), time.Since(start))
	c.log.Debug().Str("path", path).Str("method", method).Int("status", resp.StatusCode).Dur("dur", time.Since(start)).Msg("upstream request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(tail))}
	}

	// Disarm the deadline once the body is fully consumed.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// do issues a JSON request and decodes a JSON response into out.
// A nil body means no request payload; a nil out discards the
// response payload.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		r = bytes.NewReader(b)
	}
	resp, err := c.fetch(ctx, method, path, r, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// doText issues a request and returns the response body verbatim.
// Used by endpoints that do not speak JSON, such as /metrics.
func (c *Client) doText(ctx context.Context, method, path string) (string, error) {
	resp, err := c.fetch(ctx, method, path, nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", path, err)
	}
	return string(b), nil
}

// cancelReadCloser releases the request's context deadline when the
// body is closed.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
