// Package httputil fetches remote edge files.
//
// [Get] downloads a URL with a size limit. Network errors and 5xx or 429
// responses are retried with a doubling delay; any other status fails at
// once.
package httputil
