package graph

import (
	"iter"
	"slices"
)

// recordWords is the number of buffer words describing one edge.
const recordWords = 4

// Cursor is the arena offset of an adjacency entry. Cursors stay valid for
// the life of the Graph and are only meaningful to the Graph that issued
// them.
type Cursor int32

// End marks the end of an adjacency list.
const End Cursor = -1

// halfEdge is one endpoint's view of an undirected edge.
type halfEdge struct {
	to   uint32
	next Cursor
}

// Edge is one residual edge as read from the input buffer.
type Edge struct {
	U     uint32 `json:"u"`
	V     uint32 `json:"v"`
	Nonce uint32 `json:"nonce"`
}

// Graph is the undirected residual graph together with its nonce table.
//
// Adjacency lives in one flat arena: every edge adds two half-edges, each
// linked to the previous head of its endpoint's list, so neighbors come back
// most recently inserted first. A Graph is immutable after Build and safe for
// concurrent readers.
type Graph struct {
	index  map[uint32]Cursor
	arena  []halfEdge
	nonces map[uint64]uint32
	order  []uint32
	edges  []Edge
}

// Companion returns the paired node on the opposite side of the bipartite
// construction.
func Companion(node uint32) uint32 { return node ^ 1 }

// key normalizes an undirected pair so (a, b) and (b, a) collide.
func key(n1, n2 uint32) uint64 {
	if n1 > n2 {
		n1, n2 = n2, n1
	}
	return uint64(n1)<<32 | uint64(n2)
}

// Build parses a residual edge buffer into a Graph.
//
// words[1] holds the edge count E and record i (1..E) occupies
// words[4i:4i+4] as (node1, node2, nonce, reserved). The other header words
// and every reserved word are ignored, as is anything past record E. A
// buffer shorter than 4(E+1) words returns an *InputFormatError. Duplicate
// node pairs keep the last nonce.
//
// Build is O(E) in time and memory.
func Build(words []uint32) (*Graph, error) {
	count, err := validate(words)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		index:  make(map[uint32]Cursor, count*2),
		arena:  make([]halfEdge, 0, count*2),
		nonces: make(map[uint64]uint32, count),
		order:  make([]uint32, 0, count*2),
		edges:  make([]Edge, 0, count),
	}
	for i := 1; i <= count; i++ {
		rec := words[i*recordWords:]
		n1, n2, nonce := rec[0], rec[1], rec[2]
		g.addHalfEdge(n1, n2)
		g.addHalfEdge(n2, n1)
		g.nonces[key(n1, n2)] = nonce
		g.edges = append(g.edges, Edge{U: n1, V: n2, Nonce: nonce})
	}
	return g, nil
}

// validate checks the header and returns the declared edge count.
//
// The bound is checked on the raw uint32 in 64-bit arithmetic before the
// count becomes an int, so a header near 2^32 cannot wrap on 32-bit
// platforms and slip past the length check.
func validate(words []uint32) (int, error) {
	if len(words) < 2 {
		return 0, &InputFormatError{Words: len(words), Reason: "missing header"}
	}
	declared := words[1]
	if declared == 0 {
		return 0, nil
	}
	if (uint64(declared)+1)*recordWords > uint64(len(words)) {
		return 0, &InputFormatError{
			Declared: declared,
			Words:    len(words),
			Reason:   "declared edge count exceeds buffer",
		}
	}
	return int(declared), nil
}

// Encode packs edges into the residual buffer layout accepted by Build.
func Encode(edges []Edge) []uint32 {
	words := make([]uint32, (len(edges)+1)*recordWords)
	words[1] = uint32(len(edges))
	for i, e := range edges {
		rec := words[(i+1)*recordWords:]
		rec[0], rec[1], rec[2] = e.U, e.V, e.Nonce
	}
	return words
}

func (g *Graph) addHalfEdge(from, to uint32) {
	head, ok := g.index[from]
	if !ok {
		head = End
		g.order = append(g.order, from)
	}
	g.arena = append(g.arena, halfEdge{to: to, next: head})
	g.index[from] = Cursor(len(g.arena) - 1)
}

// NodeCount returns the number of distinct endpoints.
func (g *Graph) NodeCount() int { return len(g.index) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return len(g.arena) / 2 }

// First returns the head of node's adjacency list, or End for unknown nodes.
// Together with Step it walks the list without allocating:
//
//	for c := g.First(node); c != graph.End; {
//	    var n uint32
//	    n, c = g.Step(c)
//	}
func (g *Graph) First(node uint32) Cursor {
	if c, ok := g.index[node]; ok {
		return c
	}
	return End
}

// Step returns the neighbor stored at c and the cursor of the next entry.
// c must not be End.
func (g *Graph) Step(c Cursor) (uint32, Cursor) {
	e := g.arena[c]
	return e.to, e.next
}

// Neighbors returns a lazy sequence over node's neighbors, most recently
// inserted first. ok is false when the node is unknown. Stopping the range
// early is allowed; the sequence can be ranged over more than once.
func (g *Graph) Neighbors(node uint32) (seq iter.Seq[uint32], ok bool) {
	head, ok := g.index[node]
	if !ok {
		return nil, false
	}
	return func(yield func(uint32) bool) {
		for c := head; c != End; {
			var n uint32
			n, c = g.Step(c)
			if !yield(n) {
				return
			}
		}
	}, true
}

// Nodes yields every node in first-appearance order: the order in which
// Build first saw the node as an endpoint. Searches use it as the default
// root order.
func (g *Graph) Nodes() iter.Seq[uint32] {
	return slices.Values(g.order)
}

// SortedNodes returns every node in ascending order.
func (g *Graph) SortedNodes() []uint32 {
	nodes := slices.Clone(g.order)
	slices.Sort(nodes)
	return nodes
}

// Edges yields the input edges in buffer order, duplicates included.
func (g *Graph) Edges() iter.Seq[Edge] {
	return slices.Values(g.edges)
}

// Nonce returns the nonce of the edge between n1 and n2, in either order.
// A pair without an edge returns a *NonceNotFoundError carrying n1 and n2
// as given.
func (g *Graph) Nonce(n1, n2 uint32) (uint32, error) {
	nonce, ok := g.nonces[key(n1, n2)]
	if !ok {
		return 0, &NonceNotFoundError{Node1: n1, Node2: n2}
	}
	return nonce, nil
}
