package cosmos

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	httptrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/net/http"
)

// HTTPTransportConfig configures the default net/http transport.
type HTTPTransportConfig struct {
	// Timeout for a single HTTP attempt.
	// Default: 30 seconds
	Timeout time.Duration

	// TLSVerify controls TLS certificate verification.
	// Set to false only for the local emulator and its self-signed certificate.
	TLSVerify *bool

	// MaxRetries is the number of extra attempts made after a connection-level
	// failure. Dial failures are retried for every method; failures after the
	// request may have reached the server are retried only for idempotent
	// methods, so a POST is never delivered twice. HTTP statuses, throttling
	// included, are never retried.
	// Default: 0
	MaxRetries int

	// RetryDelay is the initial delay between attempts; it grows exponentially.
	// Default: 500 milliseconds
	RetryDelay time.Duration

	// Tracing wraps the client so that every call emits a Datadog span.
	Tracing bool

	// Logger (optional)
	Logger hclog.Logger
}

// DefaultHTTPTransportConfig returns a HTTPTransportConfig with sensible defaults.
func DefaultHTTPTransportConfig() HTTPTransportConfig {
	tlsVerify := true
	return HTTPTransportConfig{
		Timeout:    30 * time.Second,
		TLSVerify:  &tlsVerify,
		RetryDelay: 500 * time.Millisecond,
	}
}

// HTTPTransport is the default Transport, backed by a pooled http.Client.
type HTTPTransport struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     hclog.Logger
}

// Compile-time check
var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport.
func NewHTTPTransport(cfg HTTPTransportConfig) *HTTPTransport {
	defaults := DefaultHTTPTransportConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.TLSVerify == nil {
		cfg.TLSVerify = defaults.TLSVerify
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if !*cfg.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
	if cfg.Tracing {
		client = httptrace.WrapClient(client,
			httptrace.RTWithServiceName("cosmosdb"),
			httptrace.RTWithResourceNamer(func(req *http.Request) string {
				return req.Method + " " + req.URL.Path
			}),
		)
	}

	return &HTTPTransport{
		client:     client,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger.Named("http-transport"),
	}
}

// Send executes req. Every HTTP status is returned as a Response; only
// connection-level failures produce an error.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	var resp *Response

	operation := func() error {
		r, err := t.do(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if !retryable(req.Method, err) {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = t.retryDelay
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(t.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		t.logger.Warn("request failed, retrying",
			"method", req.Method,
			"path", req.Path,
			"wait", wait,
			"error", err,
		)
	}

	if err := backoff.RetryNotify(operation, retry, notify); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	for _, h := range req.Headers {
		httpReq.Header.Add(h.Name, h.Value)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    flattenHeaders(httpResp.Header),
		Body:       respBody,
	}, nil
}

// retryable reports whether a failed attempt may be sent again. A dial
// failure means nothing reached the server. Anything later may have been
// applied, so only idempotent methods qualify.
func retryable(method string, err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

// Close releases idle connections.
func (t *HTTPTransport) Close() {
	t.client.CloseIdleConnections()
}

// flattenHeaders converts an http.Header into an ordered list. Names are
// sorted so the order is stable; values keep their received order.
func flattenHeaders(h http.Header) Headers {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var out Headers
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, Header{Name: name, Value: v})
		}
	}
	return out
}
