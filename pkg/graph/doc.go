// Package graph builds the residual cycle-search graph from a trimmed edge buffer.
//
// # Overview
//
// An external trimming stage reduces a huge keyed hash-graph to a small
// residual edge list. This package turns that list into an undirected graph
// suitable for depth-first cycle search, and keeps a table that maps every
// edge back to the nonce that produced it.
//
// # Input Format
//
// The residual buffer is a flat []uint32. Word 1 holds the edge count E.
// For i in 1..E the four words starting at offset 4*i are:
//
//	node1, node2, nonce, reserved
//
// Words 0, 2 and 3 of the header are ignored. [Build] rejects buffers whose
// declared edge count does not fit, returning an [*InputFormatError] before
// touching any graph state.
//
// # Node Pairing
//
// Node ids come in companion pairs that differ only in the least significant
// bit. [Companion] flips that bit; the cycle search applies it at exactly one
// point of every hop, which is how the bipartite structure of the original
// graph is respected.
//
// # Storage
//
// Adjacency lists live in a single append-only arena. Each node maps to the
// offset of the head of its list, and each arena entry stores a neighbor and
// the offset of the next entry (or -1). Inserting a half-edge prepends to the
// owner's list, so neighbors come back in reverse insertion order. Two
// arena entries are appended per edge, which keeps [Graph.EdgeCount] equal to
// half the arena length.
//
// Walk neighbors lazily with [Graph.Neighbors], or with the closure-free
// cursor pair [Graph.First] and [Graph.Step]:
//
//	for c := g.First(node); c != graph.End; {
//	    var n uint32
//	    n, c = g.Step(c)
//	    // ...
//	}
//
// # Concurrency
//
// A [Graph] is immutable after [Build] returns and may be shared between
// goroutines for reading.
package graph
