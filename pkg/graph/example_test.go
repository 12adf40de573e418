package graph_test

import (
	"fmt"
	"slices"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
)

func ExampleBuild() {
	// Header: word 1 holds the edge count; each edge takes four words.
	words := []uint32{
		0, 2, 0, 0,
		0, 2, 17, 0, // node1, node2, nonce, reserved
		3, 4, 23, 0,
	}
	g, err := graph.Build(words)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	nonce, _ := g.Nonce(4, 3)
	fmt.Println("Nonce of 4-3:", nonce)
	// Output:
	// Nodes: 4
	// Edges: 2
	// Nonce of 4-3: 23
}

func ExampleGraph_Neighbors() {
	g, _ := graph.Build(graph.Encode([]graph.Edge{
		{U: 0, V: 2, Nonce: 1},
		{U: 0, V: 4, Nonce: 2},
	}))
	seq, ok := g.Neighbors(0)
	fmt.Println(ok, slices.Collect(seq))
	_, ok = g.Neighbors(8)
	fmt.Println(ok)
	// Output:
	// true [4 2]
	// false
}

func ExampleBuild_malformed() {
	_, err := graph.Build([]uint32{0, 5, 0, 0})
	fmt.Println(err)
	// Output:
	// input format: declared edge count exceeds buffer: 5 edges need 24 words, have 4
}
