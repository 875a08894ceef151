// Package transport sends request descriptors over HTTP and keeps the cookie
// jar the session lives in.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	errs "igmobile/pkg/errors"
	"igmobile/pkg/logger"
	"igmobile/pkg/ratelimit"
	"igmobile/pkg/request"
	"igmobile/pkg/retry"
)

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Success reports a 2xx status
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport executes descriptors. A non-2xx status is not an error at this
// level; callers inspect the Response.
type Transport interface {
	Send(ctx context.Context, d *request.Descriptor) (*Response, error)
	Cookies(u *url.URL) []*http.Cookie
	SetCookies(u *url.URL, cookies []*http.Cookie)
}

// HTTPTransport is the net/http implementation of Transport
type HTTPTransport struct {
	client  *http.Client
	jar     http.CookieJar
	limiter ratelimit.Limiter
	retry   *retry.Config
	logger  logger.Logger
}

// Option configures an HTTPTransport
type Option func(*HTTPTransport)

// WithLimiter throttles every send through l
func WithLimiter(l ratelimit.Limiter) Option {
	return func(t *HTTPTransport) { t.limiter = l }
}

// WithRetry retries idempotent requests with the given policy
func WithRetry(cfg *retry.Config) Option {
	return func(t *HTTPTransport) { t.retry = cfg }
}

// WithHTTPClient replaces the underlying client. Its cookie jar is replaced
// by the transport's own.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransport) {
		cp := *c
		t.client = &cp
	}
}

// New creates an HTTPTransport with a public-suffix aware cookie jar
func New(timeout time.Duration, log logger.Logger, opts ...Option) (*HTTPTransport, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	t := &HTTPTransport{
		client: &http.Client{Timeout: timeout},
		logger: logger.Or(log),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.jar = jar
	t.client.Jar = jar
	return t, nil
}

func (t *HTTPTransport) Cookies(u *url.URL) []*http.Cookie {
	return t.jar.Cookies(u)
}

func (t *HTTPTransport) SetCookies(u *url.URL, cookies []*http.Cookie) {
	t.jar.SetCookies(u, cookies)
}

// Send executes d. Idempotent requests are retried on transport failures,
// 429 and 5xx when a retry policy is configured; everything else is sent once.
func (t *HTTPTransport) Send(ctx context.Context, d *request.Descriptor) (*Response, error) {
	body, contentType, err := d.Encode()
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeInvalidArgument, err, "failed to encode request body")
	}

	if t.retry == nil || !d.Idempotent() {
		return t.sendOnce(ctx, d, body, contentType)
	}

	var last *Response
	resp, err := retry.DoWithResult(ctx, func(ctx context.Context) (*Response, error) {
		resp, err := t.sendOnce(ctx, d, body, contentType)
		if err != nil {
			return nil, err
		}
		last = resp
		if errs.IsRetryableStatusCode(resp.StatusCode) {
			return resp, errs.UnexpectedStatus(resp.StatusCode, string(resp.Body))
		}
		return resp, nil
	}, t.retry)

	// Running out of attempts on a bad status still hands back the last response
	if err != nil && last != nil && errs.TypeOf(err) == errs.ErrorTypeUnexpectedStatus {
		return last, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) sendOnce(ctx context.Context, d *request.Descriptor, body []byte, contentType string) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, errs.Wrap(errs.ErrorTypeTransport, err, "rate limiter wait cancelled")
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, d.URI, reader)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeInvalidArgument, err, "failed to create request")
	}
	for _, h := range d.Headers {
		req.Header.Add(h.Name, h.Value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	t.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": d.Method,
		"url":    d.URI,
		"signed": d.Signed(),
	})

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   d.Method,
			"url":      d.URI,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errs.Wrap(errs.ErrorTypeTransport, err, "request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransport, err, "failed to read response body")
	}

	logger.LogRequest(t.logger, d.Method, d.URI, resp.StatusCode, time.Since(start))

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Header:     resp.Header,
	}, nil
}
