// Package sdi is a client for an SDI-style electronic invoicing interchange
// service.
//
// A Client authenticates every call with a static "<username>.<apiToken>"
// credential, sends it to endpoint+path and classifies the outcome:
//
//   - HTTP 200: the raw body is handed to the accessor, which decodes it into
//     a List, a detail record (DocumentSent, DocumentReceived, ...) or a File.
//   - transport failure (DNS, refused connection, TLS, timeout): a
//     *RequestFailure of kind FailureTransport, no response attached.
//   - any other status: a *RequestFailure of kind FailureApplication carrying
//     the decoded *ErrorMessage.
//
// A malformed 200 body surfaces as a *DecodeError, matched by ErrDecode.
//
// There are no retries, no pagination and no response caching. Each call is
// a single round trip bounded by the context, the total timeout (default one
// hour) and the connect timeout (default two minutes).
//
// Basic usage:
//
//	c := sdi.New("https://sdi.example.com/api", "acme", "s3cr3t")
//	doc, err := c.DocumentReceived(ctx, 42)
//	if sdi.IsApplication(err) {
//		f, _ := sdi.AsRequestFailure(err)
//		log.Println(f.Response.Message())
//	}
package sdi
