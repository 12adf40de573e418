package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}

	base := New(ErrCodeNetwork, "redis get")
	err := Transient(base)
	if !IsTransient(err) {
		t.Error("IsTransient(Transient(err)) = false")
	}
	if !errors.Is(err, base) || GetCode(err) != ErrCodeNetwork {
		t.Errorf("Transient should keep the chain: code %q", GetCode(err))
	}
	if IsTransient(base) {
		t.Error("unmarked error reported as transient")
	}
	if !IsTransient(Wrap(ErrCodeInternal, err, "outer")) {
		t.Error("IsTransient should look through wrapping")
	}
}

var errPermanent = errors.New("bad request")

func TestBackoffRetry(t *testing.T) {
	b := Backoff{Attempts: 3, Delay: time.Millisecond}
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		transient bool
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, true, 1, false},
		{"recovers", 2, true, 3, false},
		{"exhausted", 5, true, 3, true},
		{"permanent", 5, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.transient {
						return Transient(errors.New("timeout"))
					}
					return errPermanent
				}
				return nil
			})
			if !tt.transient && !errors.Is(err, errPermanent) {
				t.Errorf("err = %v, want the permanent error itself", err)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Backoff{Attempts: 3, Delay: time.Hour}.Retry(ctx, func() error {
		calls++
		return Transient(errors.New("timeout"))
	})
	if !errors.Is(err, context.Canceled) || calls > 1 {
		t.Errorf("err = %v after %d calls, want context.Canceled after at most 1", err, calls)
	}
}
