// Package http provides the upstream HTTP client shared by the source adapters.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/rs/dnscache"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "apkg/0.1"

// HTTPClient performs GET requests against upstream package sources.
// Requests are never retried; a per-host circuit breaker stops hammering
// an upstream that keeps failing.
type HTTPClient struct {
	client    *http.Client
	userAgent string
	breakers  *breakerSet
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying net/http client.
func WithHTTPClient(c *http.Client) Option {
	return func(hc *HTTPClient) {
		hc.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(hc *HTTPClient) {
		if ua != "" {
			hc.userAgent = ua
		}
	}
}

// NewHTTPClient creates a client whose connections resolve hosts through a DNS cache.
func NewHTTPClient(timeout time.Duration, opts ...Option) *HTTPClient {
	resolver := &dnscache.Resolver{}
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	hc := &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := resolver.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
					}
					return nil, fmt.Errorf("failed to dial any resolved address for %s", host)
				},
				MaxIdleConns:          20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		userAgent: DefaultUserAgent,
		breakers:  newBreakerSet(),
	}
	for _, opt := range opts {
		opt(hc)
	}
	return hc
}

// GetBody fetches url and returns the full response body.
func (hc *HTTPClient) GetBody(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := hc.breakers.call(url, func() error {
		var err error
		body, err = hc.get(ctx, url, "*/*")
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON response into v.
func (hc *HTTPClient) GetJSON(ctx context.Context, url string, v any) error {
	var body []byte
	err := hc.breakers.call(url, func() error {
		var err error
		body, err = hc.get(ctx, url, "application/json")
		return err
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", url)
	}
	return nil
}

func (hc *HTTPClient) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("User-Agent", hc.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// Continue processing
	case http.StatusNotFound:
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, err: ErrNotFound}
	case http.StatusTooManyRequests:
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, err: ErrRateLimited}
	default:
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, err: errors.ErrUpstreamResponse}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return data, nil
}
