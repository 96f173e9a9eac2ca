package sdi

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/PuerkitoBio/goquery"
)

// Transport failure codes.
const (
	CodeTimeout           = "timeout"
	CodeCanceled          = "canceled"
	CodeDNS               = "dns"
	CodeConnectionRefused = "connection_refused"
	CodeTLS               = "tls"
	CodeTransport         = "transport"
)

const maxMessageSnippet = 512

// ErrDecode matches every *DecodeError.
var ErrDecode = errors.New("sdi: decode response")

// FailureKind separates transport failures from error responses.
type FailureKind int

const (
	// FailureTransport means no HTTP status was obtained.
	FailureTransport FailureKind = iota + 1
	// FailureApplication means the service answered with a status other than 200.
	FailureApplication
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureApplication:
		return "application"
	default:
		return "unknown"
	}
}

// RequestFailure is returned by every accessor when a call does not produce
// an HTTP 200. Response is set only for FailureApplication.
type RequestFailure struct {
	Kind       FailureKind
	Endpoint   string
	Path       string
	StatusCode int
	Code       string
	Err        error
	Response   *ErrorMessage
}

// URL returns the address the failed request targeted.
func (e *RequestFailure) URL() string { return e.Endpoint + e.Path }

func (e *RequestFailure) Error() string {
	if e.Kind == FailureTransport {
		return fmt.Sprintf("request %q error: [%s] %v", e.URL(), e.Code, e.Err)
	}
	msg := fmt.Sprintf("http request %q error: status %d", e.URL(), e.StatusCode)
	if e.Response != nil {
		if m := e.Response.Message(); m != "" {
			msg += ": " + m
		}
	}
	return msg
}

func (e *RequestFailure) Unwrap() error { return e.Err }

// AsRequestFailure extracts a *RequestFailure from err's chain.
func AsRequestFailure(err error) (*RequestFailure, bool) {
	var rf *RequestFailure
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}

// IsTransport reports whether err is a transport-level RequestFailure.
func IsTransport(err error) bool {
	rf, ok := AsRequestFailure(err)
	return ok && rf.Kind == FailureTransport
}

// IsApplication reports whether err is an error response from the service.
func IsApplication(err error) bool {
	rf, ok := AsRequestFailure(err)
	return ok && rf.Kind == FailureApplication
}

func newTransportFailure(endpoint, path string, err error) *RequestFailure {
	return &RequestFailure{
		Kind:     FailureTransport,
		Endpoint: endpoint,
		Path:     path,
		Code:     transportCode(err),
		Err:      err,
	}
}

func transportCode(err error) string {
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return CodeTimeout
		}
		return CodeDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return CodeConnectionRefused
	}

	var (
		certErr     *tls.CertificateVerificationError
		authorityEr x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
	)
	if errors.As(err, &certErr) || errors.As(err, &authorityEr) || errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr) || errors.As(err, &recordErr) {
		return CodeTLS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}
	return CodeTransport
}

// DecodeError reports a response body that could not be decoded.
type DecodeError struct {
	Kind string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Kind, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ErrorMessage is the body of an error response. The service owns its
// shape, so fields are exposed generically.
type ErrorMessage struct {
	raw       []byte
	fields    map[string]any
	decodeErr error
	htmlText  string
}

// NewErrorMessage wraps body. A body that is not a JSON object is kept raw
// and reported through DecodeErr; HTML pages yield their title as message.
func NewErrorMessage(body []byte) *ErrorMessage {
	m := &ErrorMessage{raw: append([]byte(nil), body...)}

	var fields map[string]any
	if err := decodeJSON(body, &fields); err != nil {
		m.decodeErr = &DecodeError{Kind: "error message", Err: err}
		m.htmlText = htmlSummary(body)
		return m
	}
	m.fields = fields
	return m
}

// Raw returns a copy of the response body.
func (m *ErrorMessage) Raw() []byte {
	if m == nil {
		return nil
	}
	return append([]byte(nil), m.raw...)
}

// DecodeErr reports why the body could not be decoded as a JSON object.
func (m *ErrorMessage) DecodeErr() error {
	if m == nil {
		return nil
	}
	return m.decodeErr
}

// Field returns a copy of a top-level field.
func (m *ErrorMessage) Field(name string) (any, bool) {
	if m == nil || m.fields == nil {
		return nil, false
	}
	v, ok := m.fields[name]
	return cloneValue(v), ok
}

// Fields returns a copy of all top-level fields.
func (m *ErrorMessage) Fields() map[string]any {
	if m == nil || m.fields == nil {
		return nil
	}
	return cloneValue(m.fields).(map[string]any)
}

// Decode unmarshals the raw body into v.
func (m *ErrorMessage) Decode(v any) error {
	if m == nil {
		return &DecodeError{Kind: "error message", Err: errors.New("no response body")}
	}
	if err := json.Unmarshal(m.raw, v); err != nil {
		return &DecodeError{Kind: "error message", Err: err}
	}
	return nil
}

// Message returns the best human readable description of the error.
func (m *ErrorMessage) Message() string {
	if m == nil {
		return ""
	}
	for _, key := range []string{"message", "error", "error_message", "detail", "description"} {
		if s, ok := stringField(m.fields, key); ok && s != "" {
			return s
		}
	}
	if m.htmlText != "" {
		return m.htmlText
	}
	return snippet(m.raw)
}

// Code returns the service error code, if any.
func (m *ErrorMessage) Code() string {
	if m == nil {
		return ""
	}
	for _, key := range []string{"code", "error_code"} {
		if s, ok := stringField(m.fields, key); ok {
			return s
		}
	}
	return ""
}

// htmlSummary extracts the title or first heading of an HTML page.
func htmlSummary(body []byte) string {
	if !bytes.Contains(body, []byte("<")) {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1", "h2"} {
		if text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " "); text != "" {
			return text
		}
	}
	return ""
}

func snippet(body []byte) string {
	if len(body) > maxMessageSnippet {
		body = body[:maxMessageSnippet]
	}
	return strings.TrimSpace(string(body))
}
