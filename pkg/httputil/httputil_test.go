package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	cerrors "github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
)

func init() {
	backoff.Delay = time.Millisecond
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("residual"))
	}))
	defer srv.Close()

	body, err := Get(context.Background(), srv.Client(), srv.URL, 1024)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "residual" {
		t.Errorf("body = %q", body)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := Get(context.Background(), nil, srv.URL, 1024)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" || calls.Load() != 2 {
		t.Errorf("body = %q after %d calls", body, calls.Load())
	}
}

func TestGetFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		limit  int64
		code   cerrors.Code
		calls  int32
	}{
		{"not found", http.StatusNotFound, "", 1024, cerrors.ErrCodeFileNotFound, 1},
		{"server error", http.StatusBadGateway, "", 1024, cerrors.ErrCodeNetwork, 3},
		{"too large", http.StatusOK, "0123456789", 4, cerrors.ErrCodeInvalidInput, 1},
		{"forbidden", http.StatusForbidden, "", 1024, "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := Get(context.Background(), srv.Client(), srv.URL, tt.limit)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := cerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
			if calls.Load() != tt.calls {
				t.Errorf("server hit %d times, want %d", calls.Load(), tt.calls)
			}
		})
	}
}
