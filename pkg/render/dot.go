package render

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
)

// DefaultMaxEdges bounds the edges drawn with Options.Full.
const DefaultMaxEdges = 2000

var palette = []string{"#d62728", "#1f77b4", "#2ca02c", "#9467bd", "#ff7f0e", "#17becf"}

// Options configures cycle diagrams.
type Options struct {
	// Full draws every graph edge in grey behind the cycles.
	Full bool

	// MaxEdges caps the grey edges drawn with Full. Defaults to
	// DefaultMaxEdges; negative means no cap.
	MaxEdges int
}

type pair [2]uint32

func norm(a, b uint32) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// ToDOT converts the solutions over g to Graphviz DOT source.
// It fails if a solution names an edge that is not in g.
func ToDOT(g *graph.Graph, sols []cycle.Solution, opts Options) (string, error) {
	if opts.MaxEdges == 0 {
		opts.MaxEdges = DefaultMaxEdges
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	drawn := make(map[pair]bool)
	hops := make(map[pair]bool)
	for i, sol := range sols {
		color := palette[i%len(palette)]
		fmt.Fprintf(&buf, "  // solution %d: %s\n", i, sol.Hex())
		edges := sol.Edges()
		for j, e := range edges {
			nonce, err := g.Nonce(e[0], e[1])
			if err != nil {
				return "", fmt.Errorf("solution %d: %w", i, err)
			}
			drawn[norm(e[0], e[1])] = true
			fmt.Fprintf(&buf, "  %d -- %d [label=\"%x\", color=%q, fontcolor=%q, penwidth=2.5];\n",
				e[0], e[1], nonce, color, color)

			next := edges[(j+1)%len(edges)][0]
			if h := norm(e[1], next); !hops[h] && e[1] != next {
				hops[h] = true
				fmt.Fprintf(&buf, "  %d -- %d [style=dotted, color=%q];\n", e[1], next, color)
			}
		}
		buf.WriteString("\n")
	}

	if opts.Full {
		writeBackground(&buf, g, drawn, hops, opts.MaxEdges)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeBackground(buf *bytes.Buffer, g *graph.Graph, drawn, hops map[pair]bool, limit int) {
	n := 0
	seen := make(map[uint32]bool)
	for e := range g.Edges() {
		if limit >= 0 && n >= limit {
			fmt.Fprintf(buf, "  // %d more edges omitted\n", g.EdgeCount()-n)
			break
		}
		n++
		seen[e.U], seen[e.V] = true, true
		if drawn[norm(e.U, e.V)] {
			continue
		}
		fmt.Fprintf(buf, "  %d -- %d [label=\"%x\", color=grey70, fontcolor=grey50];\n", e.U, e.V, e.Nonce)
	}

	nodes := make([]uint32, 0, len(seen))
	for node := range seen {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		c := graph.Companion(node)
		if node < c && seen[c] && !hops[norm(node, c)] {
			fmt.Fprintf(buf, "  %d -- %d [style=dotted, color=grey80];\n", node, c)
		}
	}
}
