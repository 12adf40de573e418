// Package cycle finds simple cycles of an exact length in a residual graph.
//
// # Algorithm
//
// [Find] runs a depth-first traversal from every node of a [graph.Graph], one
// root at a time in a deterministic order. A traversal step on node x:
//
//  1. If x is already Explored, check whether x closes a cycle of the target
//     length on the current path and stop.
//  2. Otherwise mark x Explored, push it on the path and walk its neighbors.
//     An unseen neighbor n is marked Visited, pushed, and the traversal
//     continues from its companion n^1. A neighbor that was seen before is
//     checked for closing a cycle.
//
// Every hop therefore contributes two path entries: the neighbor and, after
// crossing to its companion, the node the walk continues from. A cycle of L
// edges spans 2L path entries, and consecutive pairs of those entries are the
// node pairs whose nonces make up the [Solution].
//
// # Traversal State
//
// The node status map lives in [State] and persists across roots within one
// pass: a node explored from an earlier root is never expanded again. Only
// the path is cleared between roots. Reusing a State across independent
// passes changes the result; create a new [Search] per pass.
//
// # Stack Usage
//
// The traversal keeps its own frame stack on the heap instead of recursing,
// so deep non-cyclic branches in graphs with millions of nodes cannot exhaust
// the goroutine stack. Neighbor order and the companion hop are identical to
// the recursive formulation.
//
// # Usage
//
//	g, err := graph.Build(words)
//	if err != nil {
//	    return err
//	}
//	res, err := cycle.Find(g, cycle.Options{Length: 42})
//	for _, sol := range res.Solutions {
//	    fmt.Printf("%x\n", sol.Nonces)
//	}
package cycle
