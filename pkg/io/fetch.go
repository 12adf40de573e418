package io

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/httputil"
)

// MaxFetchSize caps remote edge files at 256 MiB.
const MaxFetchSize = 256 << 20

// IsURL reports whether src names a remote edge file.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// FetchEdges downloads an edge file. With format auto the URL path
// extension picks the decoder.
func FetchEdges(ctx context.Context, client *http.Client, rawURL, format string) ([]uint32, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad url %s", rawURL)
	}
	body, err := httputil.Get(ctx, client, rawURL, MaxFetchSize)
	if err != nil {
		return nil, err
	}
	if DetectFormat(u.Path, format) == FormatJSON {
		return ReadEdgesJSON(bytes.NewReader(body))
	}
	return ReadWords(bytes.NewReader(body))
}
