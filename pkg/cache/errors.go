package cache

import (
	"errors"
	"time"

	cerrors "github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
)

// Errors returned by the backends, usable with errors.Is.
var (
	ErrNetwork = errors.New("cache backend unreachable")
	ErrClosed  = errors.New("cache closed")
)

// connectBackoff paces connection attempts to a shared backend.
var connectBackoff = cerrors.Backoff{Attempts: 3, Delay: 100 * time.Millisecond}
