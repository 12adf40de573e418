package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cache"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/observability"
)

var tracer = otel.Tracer("github.com/cyclefortytwo/iron-cuckatoo/pkg/pipeline")

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored results. Defaults to cache.TTLSolutions.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLSolutions,
	}
}

// Execute searches the residual buffer words for cycles, reusing a cached
// result when one exists for the same buffer and options.
func (r *Runner) Execute(ctx context.Context, words []uint32, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{
		RunID:     uuid.NewString(),
		GraphHash: cache.HashWords(words),
		Length:    opts.Length,
	}
	logger = logger.With("run", result.RunID[:8])

	ctx, span := tracer.Start(ctx, "pipeline.Execute", trace.WithAttributes(
		attribute.String("run.id", result.RunID),
		attribute.String("graph.hash", result.GraphHash),
		attribute.Int("cycle.length", opts.Length),
		attribute.String("cycle.order", string(opts.Order)),
	))
	defer span.End()

	key := r.Keyer.SolutionKey(result.GraphHash, opts.SolutionKeyOpts())
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key); ok {
			result.Solutions = cached.Solutions
			result.Stats = Stats{
				NodeCount: cached.Nodes,
				EdgeCount: cached.Edges,
				Search:    cached.Search,
			}
			result.CacheHit = true
			span.SetAttributes(attribute.Bool("cache.hit", true))
			logger.Info("cache hit", "solutions", len(result.Solutions))
			if opts.OnSolution != nil {
				for _, sol := range result.Solutions {
					opts.OnSolution(sol)
				}
			}
			return result, nil
		}
	}

	g, err := r.build(ctx, words, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return nil, fmt.Errorf("build graph: %w", err)
	}
	logger.Info("built graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.BuildTime)

	res, err := r.search(ctx, g, opts, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Solutions = res.Solutions
	result.Stats.Search = res.Stats
	logger.Info("searched graph",
		"length", opts.Length,
		"solutions", len(res.Solutions),
		"explored", res.Stats.NodesExplored,
		"duration", result.Stats.SearchTime)

	r.store(ctx, key, result)
	span.SetAttributes(
		attribute.Bool("cache.hit", false),
		attribute.Int("cycle.solutions", len(result.Solutions)),
	)
	return result, nil
}

func (r *Runner) build(ctx context.Context, words []uint32, result *Result) (*graph.Graph, error) {
	ctx, span := tracer.Start(ctx, "graph.Build")
	defer span.End()

	start := time.Now()
	g, err := graph.Build(words)
	result.Stats.BuildTime = time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		observability.Search().OnBuildComplete(ctx, 0, 0, result.Stats.BuildTime, err)
		return nil, err
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	span.SetAttributes(
		attribute.Int("graph.nodes", g.NodeCount()),
		attribute.Int("graph.edges", g.EdgeCount()),
	)
	observability.Search().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), result.Stats.BuildTime, nil)
	return g, nil
}

func (r *Runner) search(ctx context.Context, g *graph.Graph, opts Options, result *Result) (*cycle.Result, error) {
	ctx, span := tracer.Start(ctx, "cycle.Search", trace.WithAttributes(
		attribute.Int("cycle.length", opts.Length),
	))
	defer span.End()

	hooks := observability.Search()
	searchOpts := opts.searchOptions()
	searchOpts.OnSolution = func(sol cycle.Solution) {
		hooks.OnSolution(ctx, opts.Length)
		span.AddEvent("solution", trace.WithAttributes(attribute.String("nonces", sol.Hex())))
		if opts.OnSolution != nil {
			opts.OnSolution(sol)
		}
	}

	s, err := cycle.NewSearch(g, searchOpts)
	if err != nil {
		return nil, err
	}

	hooks.OnSearchStart(ctx, opts.Length, g.NodeCount())
	start := time.Now()
	res, err := s.Run(ctx)
	result.Stats.SearchTime = time.Since(start)

	found := 0
	if res != nil {
		found = len(res.Solutions)
	}
	hooks.OnSearchComplete(ctx, opts.Length, found, result.Stats.SearchTime, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("search.visited", res.Stats.NodesVisited),
		attribute.Int("search.explored", res.Stats.NodesExplored),
		attribute.Int("search.max_depth", res.Stats.MaxDepth),
	)
	return res, nil
}

// lookup returns a cached result. Cache errors and undecodable entries are
// treated as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*cachedResult, bool) {
	backend := cache.Backend(r.Cache)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "backend", backend, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, backend)
		return nil, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, backend)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, backend)
	return &cached, true
}

func (r *Runner) store(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(cachedResult{
		Solutions: result.Solutions,
		Search:    result.Stats.Search,
		Nodes:     result.Stats.NodeCount,
		Edges:     result.Stats.EdgeCount,
	})
	if err != nil {
		return
	}
	backend := cache.Backend(r.Cache)
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache store failed", "backend", backend, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, backend, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
