package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind identifies how a request failed. The set is closed: every error
// returned by this package carries exactly one of these.
type Kind int

const (
	// KindBadURL means the node base URL could not be parsed.
	KindBadURL Kind = iota + 1
	// KindTimeout means the transport reported a timeout or the context
	// deadline expired before a response arrived.
	KindTimeout
	// KindNetwork means the request failed below the HTTP layer for any
	// non-timeout reason, connection refused included.
	KindNetwork
	// KindBadStatus means the node answered with a non-2xx status.
	KindBadStatus
	// KindDecode means the node answered 2xx but the body did not match
	// the expected schema.
	KindDecode
	// KindNode is a caller constructed semantic error raised before any
	// request is made, e.g. an unset content hash.
	KindNode
)

// Error is the single error type surfaced by request execution.
type Error struct {
	Kind       Kind
	URL        string // offending URL for KindBadURL
	StatusCode int    // HTTP status for KindBadStatus
	Body       []byte // response body for KindBadStatus, kept for diagnostics
	Message    string // description for KindNode
	Err        error  // underlying cause for KindTimeout, KindNetwork and KindDecode
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBadURL:
		return fmt.Sprintf("bad url: %v", e.URL)
	case KindTimeout:
		return fmt.Sprintf("request timed out: %v", e.Err)
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Err)
	case KindBadStatus:
		return fmt.Sprintf("bad status %v: %v", e.StatusCode, string(e.Body))
	case KindDecode:
		return fmt.Sprintf("decode failure: %v", e.Err)
	case KindNode:
		return fmt.Sprintf("node error: %v", e.Message)
	default:
		return fmt.Sprintf("unknown error kind %v", int(e.Kind))
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewBadURL creates a KindBadURL error for the given URL string.
func NewBadURL(url string) *Error {
	return &Error{Kind: KindBadURL, URL: url}
}

// NewBadStatus creates a KindBadStatus error for a non-2xx response.
func NewBadStatus(statusCode int, body []byte) *Error {
	return &Error{Kind: KindBadStatus, StatusCode: statusCode, Body: body}
}

// NewDecodeFailure wraps a schema mismatch found in a 2xx response body.
func NewDecodeFailure(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

// NewNodeError creates a KindNode error with the given description.
func NewNodeError(message string) *Error {
	return &Error{Kind: KindNode, Message: message}
}

// classifyTransport maps a transport failure to KindTimeout or KindNetwork.
// Go's transport reports timeouts distinctly (net.Error.Timeout and
// context.DeadlineExceeded), so the two kinds stay distinguishable.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}

// KindOf extracts the Kind from err, or zero if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
