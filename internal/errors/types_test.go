package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestNewTransportError(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		kind  Kind
	}{
		{"refused", errors.New("connection refused"), KindTransport},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", timeoutError{}, KindTimeout},
		{"wrapped net timeout", fmt.Errorf("reading body: %w", timeoutError{}), KindTimeout},
		{"cancelled", context.Canceled, KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTransportError("posts", "https://example.com/posts", tt.cause)
			assert.Equal(t, tt.kind, err.Kind)
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, tt.kind == KindTimeout, IsTimeout(err))
			assert.Equal(t, tt.kind == KindTimeout, IsTimeoutCause(tt.cause))
		})
	}
}

func TestNetworkErrorMessage(t *testing.T) {
	err := NewStatusError("users", "https://example.com/users?_limit=8", 503)
	assert.Equal(t, "network error [status] resource:users https://example.com/users?_limit=8 status 503", err.Error())

	err = NewDecodeError("photos", "", io.ErrUnexpectedEOF)
	assert.Equal(t, "network error [decode] resource:photos: unexpected EOF", err.Error())
}

func TestNetworkErrorMatching(t *testing.T) {
	status := fmt.Errorf("loading: %w", NewStatusError("posts", "", 500))

	assert.True(t, IsNetworkError(status))
	assert.ErrorIs(t, status, ErrNetwork)
	assert.ErrorIs(t, status, &NetworkError{Kind: KindStatus})
	assert.NotErrorIs(t, status, &NetworkError{Kind: KindDecode})
	assert.False(t, IsTimeout(status))
	assert.Equal(t, KindStatus, KindOf(status))

	plain := errors.New("boom")
	assert.False(t, IsNetworkError(plain))
	assert.NotErrorIs(t, plain, ErrNetwork)
	assert.Equal(t, Kind(""), KindOf(plain))
}
