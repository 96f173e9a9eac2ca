package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Request describes a single outbound call. Body is JSON-encoded only when
// HasBody is set, so a nil JSON value can still be sent deliberately.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
	HasBody bool
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req Request) (Response, error)
}
