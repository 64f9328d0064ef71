package cosmos

import (
	"context"
	"strings"
)

// Header is a single request or response header. Headers keep their order.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list.
type Headers []Header

// Get returns the value of the first header named name, compared
// case-insensitively.
func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value, true
		}
	}
	return "", false
}

// Request is a transport-ready request. It is built fresh for every call.
type Request struct {
	Method string
	URL    string

	// Path is the unescaped resource path the request was signed for.
	Path string

	Headers Headers
	Body    []byte
}

// Response is the raw response returned by a Transport.
type Response struct {
	StatusCode int
	Headers    Headers
	Body       []byte
}

// Transport executes requests. Connection pooling, TLS, timeouts and
// transport-level retries are the transport's concern; implementations must
// return every HTTP status as a Response rather than an error.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
