// Package render draws cycles found in a residual graph with Graphviz.
//
// [ToDOT] produces undirected DOT source: solid edges carry their nonce as a
// label, dotted edges join a node to its companion (the hop the search takes
// between edges). Each solution gets its own color.
//
//	dot, err := render.ToDOT(g, result.Solutions, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// SVG and PNG are rendered in-process by [github.com/goccy/go-graphviz]; no
// external Graphviz install is needed.
package render
