package errors

import (
	"strings"
	"unicode"
)

// MaxCycleLength bounds the cycle length accepted from users. Solutions hold
// one nonce per edge, so anything larger only wastes memory on path buffers.
const MaxCycleLength = 1 << 16

// ValidateCycleLength checks a requested cycle length.
func ValidateCycleLength(length int) error {
	if length < 1 {
		return New(ErrCodeInvalidInput, "cycle length must be positive, got %d", length)
	}
	if length > MaxCycleLength {
		return New(ErrCodeInvalidInput, "cycle length too large (max %d), got %d", MaxCycleLength, length)
	}
	return nil
}

// ValidateRootOrder checks a root iteration order name.
func ValidateRootOrder(order string) error {
	switch order {
	case "", "insertion", "sorted":
		return nil
	}
	return New(ErrCodeInvalidOrder, "unknown root order %q (want insertion or sorted)", order)
}

// ValidatePath validates a user-supplied file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateFormat checks an edge-file format name.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "auto", "bin", "json":
		return nil
	}
	return New(ErrCodeInvalidFormat, "unknown edge format %q (want auto, bin or json)", format)
}
