package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds HTTP client configuration.
type Config struct {
	Timeout         time.Duration
	MaxConnsPerHost int
}

// DefaultConfig returns sensible defaults for the HTTP client.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxConnsPerHost: 100,
	}
}

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "Total outbound HTTP requests by method and status class",
	},
	[]string{"method", "status"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

// Client wraps http.Client with connection pooling and sane defaults.
// It performs no retries and no caching: every call reaches the network
// exactly once, and retry policy belongs to callers.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a new HTTP client with connection pooling.
func New(cfg Config) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}
}

// Do executes a single HTTP request.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	requestsTotal.WithLabelValues(req.Method, statusClass(resp.StatusCode)).Inc()
	return resp, nil
}

// NewJSONRequest builds a request with an optional JSON body. A nil body
// sends no payload; an empty struct sends "{}".
func NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", method, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// DoJSON issues a request with an optional JSON body and returns the response.
func (c *Client) DoJSON(ctx context.Context, method, url string, body any) (*http.Response, error) {
	req, err := NewJSONRequest(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// DecodeJSON reads a response body into dst and closes the body.
func DecodeJSON(resp *http.Response, dst any) error {
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(dst); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
