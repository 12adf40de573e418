// Package api serves the cycle search over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness probe
//	GET  /metrics           Prometheus metrics
//	POST /v1/cycles         search an edge buffer, returns JSON
//	POST /v1/cycles/svg     search and draw the cycles as SVG
//
// Request bodies are a little-endian residual buffer, or a JSON edge list
// when Content-Type is application/json. Query parameters: length, order,
// pop, refresh; /svg also takes full.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/buildinfo"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	cerrors "github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
	cio "github.com/cyclefortytwo/iron-cuckatoo/pkg/io"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/pipeline"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/render"
)

// DefaultMaxBody caps request bodies at 64 MiB.
const DefaultMaxBody = 64 << 20

// Handlers serves the API endpoints.
type Handlers struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
	length  int
}

// Option configures Handlers.
type Option func(*Handlers)

// WithMaxBody sets the request body limit in bytes.
func WithMaxBody(n int64) Option { return func(h *Handlers) { h.maxBody = n } }

// WithTimeout bounds each search.
func WithTimeout(d time.Duration) Option { return func(h *Handlers) { h.timeout = d } }

// WithDefaultLength sets the cycle length used when a request names none.
func WithDefaultLength(n int) Option { return func(h *Handlers) { h.length = n } }

// NewHandlers creates the API handlers around runner.
func NewHandlers(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handlers{
		runner:  runner,
		logger:  logger,
		maxBody: DefaultMaxBody,
		length:  cycle.DefaultLength,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

type health struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, health{Status: "ok", Info: buildinfo.Get()})
}

func (h *Handlers) findCycles(w http.ResponseWriter, r *http.Request) {
	res, _, err := h.execute(w, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) renderCycles(w http.ResponseWriter, r *http.Request) {
	full, err := boolParam(r, "full")
	if err != nil {
		writeErr(w, err)
		return
	}
	res, words, err := h.execute(w, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	g, err := graph.Build(words)
	if err != nil {
		writeErr(w, err)
		return
	}
	dot, err := render.ToDOT(g, res.Solutions, render.Options{Full: full})
	if err != nil {
		writeErr(w, err)
		return
	}
	svg, err := render.RenderSVG(r.Context(), dot)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Run-Id", res.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// execute decodes the request and runs the pipeline.
func (h *Handlers) execute(w http.ResponseWriter, r *http.Request) (*pipeline.Result, []uint32, error) {
	opts, err := h.options(r)
	if err != nil {
		return nil, nil, err
	}
	words, err := h.readBody(w, r)
	if err != nil {
		return nil, nil, err
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	res, err := h.runner.Execute(ctx, words, opts)
	if err != nil {
		return nil, nil, err
	}
	return res, words, nil
}

func (h *Handlers) options(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Length: h.length,
		Order:  cycle.Order(q.Get("order")),
		Logger: h.logger,
	}
	if s := q.Get("length"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return opts, cerrors.New(cerrors.ErrCodeInvalidInput, "length: %q is not an integer", s)
		}
		if err := cerrors.ValidateCycleLength(n); err != nil {
			return opts, err
		}
		opts.Length = n
	}
	var err error
	if opts.PopClosingEntry, err = boolParam(r, "pop"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(r, "refresh"); err != nil {
		return opts, err
	}
	return opts, nil
}

func (h *Handlers) readBody(w http.ResponseWriter, r *http.Request) ([]uint32, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	defer body.Close()

	var words []uint32
	var err error
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		words, err = cio.ReadEdgesJSON(body)
	} else {
		words, err = cio.ReadWords(body)
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "body exceeds %d bytes", tooLarge.Limit)
	}
	return words, err
}

func boolParam(r *http.Request, name string) (bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, cerrors.New(cerrors.ErrCodeInvalidInput, "%s: %q is not a boolean", name, s)
	}
	return v, nil
}

type errorBody struct {
	Error string       `json:"error"`
	Code  cerrors.Code `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, err error) {
	code := cerrors.GetCode(err)
	writeJSON(w, statusFor(err, code), errorBody{Error: cerrors.UserMessage(err), Code: code})
}

func statusFor(err error, code cerrors.Code) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	switch code {
	case cerrors.ErrCodeInvalidInput, cerrors.ErrCodeInvalidFormat, cerrors.ErrCodeInvalidOrder:
		return http.StatusBadRequest
	case cerrors.ErrCodeNotFound, cerrors.ErrCodeNonceNotFound:
		return http.StatusUnprocessableEntity
	case cerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case cerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
