// Package transporttest provides an in-memory Transport that records every
// descriptor it is asked to send.
package transporttest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	errs "igmobile/pkg/errors"
	"igmobile/pkg/request"
	"igmobile/pkg/transport"
)

// Handler answers a recorded request
type Handler func(d *request.Descriptor) (*transport.Response, error)

// Fake is a scripted transport.Transport
type Fake struct {
	mu       sync.Mutex
	handler  Handler
	requests []*request.Descriptor
	jar      *cookiejar.Jar
}

// New creates a Fake answering with h
func New(h Handler) *Fake {
	jar, _ := cookiejar.New(nil)
	return &Fake{handler: h, jar: jar}
}

// Script answers requests with the given handlers in order and fails the
// request once the script is exhausted.
func Script(steps ...Handler) *Fake {
	var mu sync.Mutex
	next := 0
	return New(func(d *request.Descriptor) (*transport.Response, error) {
		mu.Lock()
		i := next
		next++
		mu.Unlock()
		if i >= len(steps) {
			return nil, errs.New(errs.ErrorTypeTransport, "unexpected request %d to %s", i+1, d.URI)
		}
		return steps[i](d)
	})
}

// JSON answers with status and body
func JSON(status int, body string) Handler {
	return func(*request.Descriptor) (*transport.Response, error) {
		return Respond(status, body), nil
	}
}

// Fail answers with a transport error
func Fail(msg string) Handler {
	return func(*request.Descriptor) (*transport.Response, error) {
		return nil, errs.New(errs.ErrorTypeTransport, "%s", msg)
	}
}

// Respond builds a response with a JSON content type
func Respond(status int, body string) *transport.Response {
	return &transport.Response{
		StatusCode: status,
		Body:       []byte(body),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// WithCookie adds a Set-Cookie header to the handler's response
func WithCookie(h Handler, name, value string) Handler {
	return func(d *request.Descriptor) (*transport.Response, error) {
		resp, err := h(d)
		if resp != nil {
			resp.Header.Add("Set-Cookie", (&http.Cookie{Name: name, Value: value, Path: "/"}).String())
		}
		return resp, err
	}
}

func (f *Fake) Send(ctx context.Context, d *request.Descriptor) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransport, err, "request cancelled")
	}

	f.mu.Lock()
	f.requests = append(f.requests, d)
	f.mu.Unlock()

	resp, err := f.handler(d)
	if err != nil || resp == nil {
		return resp, err
	}

	if u, perr := url.Parse(d.URI); perr == nil {
		cookies := (&http.Response{Header: resp.Header}).Cookies()
		if len(cookies) > 0 {
			f.jar.SetCookies(u, cookies)
		}
	}
	return resp, nil
}

func (f *Fake) Cookies(u *url.URL) []*http.Cookie {
	return f.jar.Cookies(u)
}

func (f *Fake) SetCookies(u *url.URL, cookies []*http.Cookie) {
	f.jar.SetCookies(u, cookies)
}

// Calls returns the number of requests sent
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns the recorded descriptors in send order
func (f *Fake) Requests() []*request.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*request.Descriptor, len(f.requests))
	copy(out, f.requests)
	return out
}

// Request returns the i-th recorded descriptor
func (f *Fake) Request(i int) *request.Descriptor {
	reqs := f.Requests()
	if i < 0 || i >= len(reqs) {
		panic(fmt.Sprintf("transporttest: only %d requests recorded, asked for %d", len(reqs), i))
	}
	return reqs[i]
}
