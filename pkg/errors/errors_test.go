package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nonceErr struct{ u, v uint32 }

func (e *nonceErr) Error() string { return fmt.Sprintf("no nonce for edge %d:%d", e.u, e.v) }
func (e *nonceErr) Code() Code    { return ErrCodeNonceNotFound }

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidInput, "cycle length must be positive, got %d", -3)
	assert.Equal(t, "INVALID_INPUT: cycle length must be positive, got -3", err.Error())
	assert.Nil(t, errors.Unwrap(err))

	cause := errors.New("connection refused")
	wrapped := Wrap(ErrCodeNetwork, cause, "redis get %s", "solutions:v1:ab")
	assert.Equal(t, "NETWORK_ERROR: redis get solutions:v1:ab: connection refused", wrapped.Error())
	assert.Same(t, cause, errors.Unwrap(wrapped))
	assert.ErrorIs(t, wrapped, cause)
}

func TestGetCode(t *testing.T) {
	missing := &nonceErr{u: 0, v: 4}

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), ""},
		{"coded", New(ErrCodeInvalidOrder, "random"), ErrCodeInvalidOrder},
		{"fmt wrapped coded", fmt.Errorf("load: %w", New(ErrCodeFileNotFound, "edges.bin")), ErrCodeFileNotFound},
		{"coder", missing, ErrCodeNonceNotFound},
		{"fmt wrapped coder", fmt.Errorf("extract solution: %w", missing), ErrCodeNonceNotFound},
		{"outer Error wins", Wrap(ErrCodeInternal, missing, "find"), ErrCodeInternal},
		{"transient keeps code", Transient(Wrap(ErrCodeNetwork, errors.New("eof"), "fetch")), ErrCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
			if tt.want != "" {
				assert.True(t, Is(tt.err, tt.want))
			}
		})
	}
}

func TestIsMismatch(t *testing.T) {
	err := Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer")
	assert.True(t, Is(err, ErrCodeNetwork))
	assert.False(t, Is(err, ErrCodeInvalidInput))
	assert.False(t, Is(nil, ""))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidFormat, "unknown format %q", "xml"), `unknown format "xml"`},
		{"cause hidden", Wrap(ErrCodeNetwork, errors.New("dial tcp: refused"), "cache unavailable"), "cache unavailable"},
		{"wrapped in fmt", fmt.Errorf("find: %w", New(ErrCodeInvalidInput, "empty graph")), "empty graph"},
		{"coder only", &nonceErr{u: 2, v: 9}, "no nonce for edge 2:9"},
		{"plain", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
