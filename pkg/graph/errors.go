package graph

import (
	"fmt"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
)

// InputFormatError reports a malformed residual edge buffer.
type InputFormatError struct {
	Declared uint32 // edge count from the header, 0 if unread
	Words    int    // length of the supplied buffer
	Reason   string // short description
}

// Error implements the error interface.
func (e *InputFormatError) Error() string {
	if e.Declared > 0 {
		return fmt.Sprintf("input format: %s: %d edges need %d words, have %d",
			e.Reason, e.Declared, (uint64(e.Declared)+1)*recordWords, e.Words)
	}
	return fmt.Sprintf("input format: %s: have %d words", e.Reason, e.Words)
}

// Code returns the error code for this error type.
func (e *InputFormatError) Code() errors.Code { return errors.ErrCodeInvalidInput }

// NonceNotFoundError reports a node pair with no entry in the nonce table.
// It means graph construction and traversal disagree.
type NonceNotFoundError struct {
	Node1, Node2 uint32
}

// Error implements the error interface.
func (e *NonceNotFoundError) Error() string {
	return fmt.Sprintf("no nonce for edge %d:%d", e.Node1, e.Node2)
}

// Code returns the error code for this error type.
func (e *NonceNotFoundError) Code() errors.Code { return errors.ErrCodeNonceNotFound }
