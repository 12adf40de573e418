// Package pkg holds the libraries behind the cuckatoo cycle finder.
//
// # Overview
//
// After edge trimming, a Cuckatoo solver is left with a small residual set of
// edges. The packages here find every cycle of a fixed length in that set and
// report each one as the sorted nonces of its edges:
//
//	residual buffer or JSON edge list
//	         ↓
//	    [io] package (decode words, fetch URLs)
//	         ↓
//	    [graph] package (adjacency arena + nonce lookup)
//	         ↓
//	    [cycle] package (depth-first search with the companion hop)
//	         ↓
//	    solutions, reports, DOT/SVG diagrams ([render])
//
// [pipeline] runs those steps with result caching ([cache]), tracing, and
// hooks ([observability]) that [metrics] turns into Prometheus series.
// [config] loads the TOML file shared by the CLI and HTTP server, and
// [errors] carries the error codes every layer returns.
//
// # Quick Start
//
//	words, err := io.ImportEdges("edges.bin", io.FormatAuto)
//	if err != nil { ... }
//	g, err := graph.Build(words)
//	if err != nil { ... }
//	res, err := cycle.Find(g, cycle.Options{Length: 42})
//	for _, sol := range res.Solutions {
//	    fmt.Println(sol.Nonces)
//	}
//
// [buildinfo]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/buildinfo
// [cache]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/cache
// [config]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/config
// [cycle]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle
// [errors]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/errors
// [graph]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/graph
// [io]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/io
// [metrics]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/cyclefortytwo/iron-cuckatoo/pkg/render
package pkg
