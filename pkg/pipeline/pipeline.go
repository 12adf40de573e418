// Package pipeline runs the build → search sequence behind both the CLI and
// the HTTP API.
//
// A Runner hashes the residual buffer, consults the cache, builds the graph,
// searches it and stores the result. Each stage is traced with OpenTelemetry
// and reported to the observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, words, pipeline.Options{Length: 42})
//	if err != nil {
//	    return err
//	}
//	for _, sol := range result.Solutions {
//	    fmt.Println(sol.Nonces)
//	}
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cache"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
)

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Length          int         `json:"length,omitempty"`
	Order           cycle.Order `json:"order,omitempty"`
	PopClosingEntry bool        `json:"pop_closing_entry,omitempty"`

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger          `json:"-"`
	OnSolution func(cycle.Solution) `json:"-"`
}

// ValidateAndSetDefaults fills in defaults and checks every option.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Length == 0 {
		o.Length = cycle.DefaultLength
	}
	if o.Order == "" {
		o.Order = cycle.OrderInsertion
	}
	if err := errors.ValidateCycleLength(o.Length); err != nil {
		return err
	}
	return errors.ValidateRootOrder(string(o.Order))
}

// SolutionKeyOpts returns the options that identify a cached result.
// PopClosingEntry is included since it can change which solutions are
// reported.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	order := string(o.Order)
	if o.PopClosingEntry {
		order += "+pop"
	}
	return cache.SolutionKeyOpts{Length: o.Length, Order: order}
}

func (o *Options) searchOptions() cycle.Options {
	return cycle.Options{
		Length:          o.Length,
		Order:           o.Order,
		PopClosingEntry: o.PopClosingEntry,
		OnSolution:      o.OnSolution,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string `json:"run_id"`

	// GraphHash is the SHA-256 of the residual buffer.
	GraphHash string `json:"graph_hash"`

	Length    int              `json:"length"`
	Solutions []cycle.Solution `json:"solutions"`
	Stats     Stats            `json:"stats"`

	// CacheHit reports whether the result came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int           `json:"nodes"`
	EdgeCount  int           `json:"edges"`
	Search     cycle.Stats   `json:"search"`
	BuildTime  time.Duration `json:"build_ns"`
	SearchTime time.Duration `json:"search_ns"`
}

// cachedResult is the part of a Result stored in the cache.
type cachedResult struct {
	Solutions []cycle.Solution `json:"solutions"`
	Search    cycle.Stats      `json:"search"`
	Nodes     int              `json:"nodes"`
	Edges     int              `json:"edges"`
}
