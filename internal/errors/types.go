// Package errors defines the error taxonomy shared by the landing packages.
//
// The remote data client only ever fails with a NetworkError. The kind of
// failure (timeout, transport, status, decode) is kept for logging, but callers
// are expected to treat every NetworkError the same way.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a network failure.
type Kind string

const (
	KindTimeout   Kind = "timeout"
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
)

// NetworkError is returned by every remote fetch that does not produce a
// decoded JSON array.
type NetworkError struct {
	Resource   string
	URL        string
	Kind       Kind
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s]", e.Kind))
	if e.Resource != "" {
		parts = append(parts, "resource:"+e.Resource)
	}
	if e.URL != "" {
		parts = append(parts, e.URL)
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}

	result := "network error " + strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is matches another NetworkError of the same kind. A target with an empty
// kind matches any NetworkError.
func (e *NetworkError) Is(target error) bool {
	var t *NetworkError
	if errors.As(target, &t) {
		return t.Kind == "" || t.Kind == e.Kind
	}

	return false
}

// ErrNetwork matches any NetworkError with errors.Is.
var ErrNetwork = &NetworkError{}

// NewTransportError wraps a failure to complete the HTTP round trip. Timeouts
// are detected and classified as KindTimeout.
func NewTransportError(resource, url string, cause error) *NetworkError {
	kind := KindTransport
	if IsTimeoutCause(cause) {
		kind = KindTimeout
	}

	return &NetworkError{
		Resource: resource,
		URL:      url,
		Kind:     kind,
		Cause:    cause,
	}
}

// NewStatusError reports a non-2xx response.
func NewStatusError(resource, url string, statusCode int) *NetworkError {
	return &NetworkError{
		Resource:   resource,
		URL:        url,
		Kind:       KindStatus,
		StatusCode: statusCode,
	}
}

// NewDecodeError reports a response body that is not the expected JSON array.
func NewDecodeError(resource, url string, cause error) *NetworkError {
	return &NetworkError{
		Resource: resource,
		URL:      url,
		Kind:     KindDecode,
		Cause:    cause,
	}
}

// IsNetworkError checks if err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsTimeout checks if err is a NetworkError caused by a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, &NetworkError{Kind: KindTimeout})
}

// KindOf returns the kind of a NetworkError, or "" for any other error.
func KindOf(err error) Kind {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Kind
	}

	return ""
}

// IsTimeoutCause reports whether a raw transport or read error, wrapped or
// not, is a deadline or a net.Error timeout.
func IsTimeoutCause(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
