package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := UnexpectedStatus(400, `{"status":"fail"}`)
	assert.Equal(t, "unexpected_status error (code 400): unexpected response status 400", err.Error())
	assert.Equal(t, `{"status":"fail"}`, err.Body)

	err = Precondition("user is not authenticated")
	assert.Equal(t, "precondition error: user is not authenticated", err.Error())
}

func TestTypeOfThroughWrapping(t *testing.T) {
	base := Precondition("login first")
	wrapped := fmt.Errorf("fetch followers: %w", base)

	assert.Equal(t, ErrorTypePrecondition, TypeOf(wrapped))
	assert.True(t, IsPrecondition(wrapped))
	assert.False(t, IsPrecondition(stderrors.New("plain")))
	assert.False(t, IsPrecondition(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(ErrorTypeTransport, cause, "request failed")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "transport error: request failed: connection reset", err.Error())
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", Wrap(ErrorTypeTransport, stderrors.New("eof"), "send"), true},
		{"too many requests", UnexpectedStatus(429, ""), true},
		{"server error", UnexpectedStatus(502, ""), true},
		{"bad request", UnexpectedStatus(400, ""), false},
		{"protocol", Protocol("missing field"), false},
		{"precondition", Precondition("login"), false},
		{"not found", NotFound("user %q", "x"), false},
		{"foreign error", stderrors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	assert.True(t, IsRetryableStatusCode(0))
	assert.True(t, IsRetryableStatusCode(503))
	assert.False(t, IsRetryableStatusCode(404))
	assert.False(t, IsRetryableStatusCode(200))
}
