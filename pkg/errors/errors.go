// Package errors carries coded errors shared by the graph, search, cache,
// CLI and HTTP layers.
//
// A code survives wrapping, so the CLI can pick an exit message and the API
// a status without string matching:
//
//	if errors.Is(err, errors.ErrCodeNonceNotFound) {
//		// the edge buffer and the traversal disagree
//	}
//
// Domain types such as graph.InputFormatError implement Coder instead of
// embedding *Error.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure class.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidOrder  Code = "INVALID_ORDER"

	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeNonceNotFound Code = "NONCE_NOT_FOUND"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Coder is an error that reports its own Code.
type Coder interface {
	error
	Code() Code
}

// Is reports whether the chain of err carries code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in the chain, falling
// back to the first Coder. It is empty when neither is present.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage is the message of the outermost *Error, without code or cause.
// Other errors are returned as their Error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
