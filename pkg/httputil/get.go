package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
)

// DefaultClient is used by Get when no client is given.
var DefaultClient = &http.Client{Timeout: 2 * time.Minute}

// backoff retries network errors, 429 and 5xx replies.
var backoff = errors.Backoff{Attempts: 3, Delay: time.Second}

// Get downloads url, reading at most limit bytes of body.
func Get(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}

	var body []byte
	err := backoff.Retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "bad url %s", url)
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Transient(errors.Wrap(errors.ErrCodeNetwork, err, "get %s", url))
		}
		defer resp.Body.Close()

		if err := checkStatus(url, resp.StatusCode); err != nil {
			return err
		}
		body, err = io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return errors.Transient(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url))
		}
		if int64(len(body)) > limit {
			return errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", url, limit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "%s: %s", url, http.StatusText(code))
	case code == http.StatusTooManyRequests, code >= 500:
		return errors.Transient(errors.New(errors.ErrCodeNetwork, "%s: %s", url, http.StatusText(code)))
	default:
		return fmt.Errorf("%s: unexpected status %d", url, code)
	}
}
