package cycle

import (
	"context"
	"fmt"
	"slices"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
)

// DefaultLength is the cycle length of the Cuckatoo proof of work.
const DefaultLength = 42

// ctxCheckInterval is how many traversal steps run between context checks.
const ctxCheckInterval = 4096

// Order selects the sequence in which graph nodes are used as roots.
type Order string

const (
	// OrderInsertion uses nodes in the order their first edge appeared.
	OrderInsertion Order = "insertion"
	// OrderSorted uses nodes in ascending id order.
	OrderSorted Order = "sorted"
)

// Options configures a search pass.
type Options struct {
	// Length is the number of edges of a cycle. Defaults to DefaultLength.
	Length int

	// Order is the root iteration order. Defaults to OrderInsertion.
	Order Order

	// PopClosingEntry removes the closing node pushed when a cycle is detected
	// through an already seen neighbor. The default keeps it on the path for
	// the rest of that neighbor loop.
	PopClosingEntry bool

	// OnSolution, if set, is called for each solution as it is found.
	OnSolution func(Solution)
}

// Stats are the counters of a search pass.
type Stats struct {
	NodesVisited  int `json:"nodes_visited"`
	NodesExplored int `json:"nodes_explored"`
	Roots         int `json:"roots"`
	Solutions     int `json:"solutions"`
	MaxDepth      int `json:"max_depth"`
}

// Result holds the solutions and counters of a completed pass.
type Result struct {
	Solutions []Solution `json:"solutions"`
	Stats     Stats      `json:"stats"`
}

// Search runs one cycle search pass over a graph.
//
// Node status accumulates across every root walked by the same Search, so a
// node explored from one root is never expanded from a later one. Run walks
// all roots; Walk exposes a single root for callers that drive the pass
// themselves. A Search is not safe for concurrent use, and is not reusable:
// create a new one per pass.
type Search struct {
	g         *graph.Graph
	opts      Options
	state     *State
	stack     []graph.Cursor
	solutions []Solution
	roots     int
	maxDepth  int
	steps     int
}

// NewSearch prepares a pass over g. Zero Length and Order take their
// defaults. A Length outside 1..errors.MaxCycleLength returns an
// INVALID_INPUT error and an unknown Order an INVALID_ORDER error.
func NewSearch(g *graph.Graph, opts Options) (*Search, error) {
	if opts.Length == 0 {
		opts.Length = DefaultLength
	}
	if opts.Order == "" {
		opts.Order = OrderInsertion
	}
	if err := errors.ValidateCycleLength(opts.Length); err != nil {
		return nil, err
	}
	if err := errors.ValidateRootOrder(string(opts.Order)); err != nil {
		return nil, err
	}
	return &Search{
		g:     g,
		opts:  opts,
		state: NewState(g.NodeCount(), opts.Length),
	}, nil
}

// Find runs a complete pass over g with a background context. It is the
// shorthand for NewSearch followed by Run:
//
//	res, err := cycle.Find(g, cycle.Options{Length: 42})
func Find(g *graph.Graph, opts Options) (*Result, error) {
	s, err := NewSearch(g, opts)
	if err != nil {
		return nil, err
	}
	return s.Run(context.Background())
}

// State exposes the traversal state of the pass.
func (s *Search) State() *State { return s.state }

// Run walks every node of the graph as a root, in the configured order.
//
// The context is checked between roots and every 4096 traversal steps. A
// cancelled pass returns ctx.Err(). A nonce lookup failure while extracting
// a solution aborts the pass with the *graph.NonceNotFoundError wrapped.
// Either way the result is nil, although OnSolution may already have been
// called for solutions found earlier.
func (s *Search) Run(ctx context.Context) (*Result, error) {
	for _, root := range s.rootNodes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.Walk(ctx, root); err != nil {
			return nil, err
		}
	}
	return s.Result(), nil
}

func (s *Search) rootNodes() []uint32 {
	if s.opts.Order == OrderSorted {
		return s.g.SortedNodes()
	}
	return slices.Collect(s.g.Nodes())
}

// Result returns the solutions and counters accumulated so far.
func (s *Search) Result() *Result {
	return &Result{
		Solutions: slices.Clone(s.solutions),
		Stats: Stats{
			NodesVisited:  s.state.Visited(),
			NodesExplored: s.state.Explored(),
			Roots:         s.roots,
			Solutions:     len(s.solutions),
			MaxDepth:      s.maxDepth,
		},
	}
}

// Walk runs the traversal from a single root, then clears the path. Node
// status set during the walk is kept for later roots. A root that is
// already explored, or has no neighbors, only counts toward Stats.Roots.
func (s *Search) Walk(ctx context.Context, root uint32) error {
	s.roots++
	defer s.state.clear()
	s.stack = s.stack[:0]

	if err := s.enter(root); err != nil {
		return err
	}
	for len(s.stack) > 0 {
		if s.steps++; s.steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		top := len(s.stack) - 1
		if s.stack[top] == graph.End {
			s.state.leave()
			s.stack = s.stack[:top]
			if top > 0 {
				// Back in the parent's neighbor loop: drop the neighbor
				// pushed before crossing to its companion.
				s.state.leave()
			}
			continue
		}

		var ns uint32
		ns, s.stack[top] = s.g.Step(s.stack[top])
		if s.state.Status(ns) == NotVisited {
			s.state.visit(ns)
			if err := s.enter(graph.Companion(ns)); err != nil {
				return err
			}
			if len(s.stack) == top+1 {
				s.state.leave()
			}
			continue
		}
		if s.state.isCycle(ns, false) {
			if err := s.extract(); err != nil {
				return err
			}
			if s.opts.PopClosingEntry {
				s.state.leave()
			}
		}
	}
	return nil
}

// enter starts the traversal step for node. It opens a frame unless node is
// already explored or has no neighbors.
func (s *Search) enter(node uint32) error {
	if s.state.Status(node) == Explored {
		if s.state.isCycle(node, true) {
			return s.extract()
		}
		return nil
	}
	head := s.g.First(node)
	if head == graph.End {
		return nil
	}
	s.state.explore(node)
	s.stack = append(s.stack, head)
	s.maxDepth = max(s.maxDepth, len(s.stack))
	return nil
}

// extract turns the closing window of the path into a solution.
func (s *Search) extract() error {
	tail := s.state.tail()
	nonces := make([]uint32, 0, len(tail)/2)
	for i := 0; i+1 < len(tail); i += 2 {
		nonce, err := s.g.Nonce(tail[i], tail[i+1])
		if err != nil {
			return fmt.Errorf("extract solution: %w", err)
		}
		nonces = append(nonces, nonce)
	}
	slices.Sort(nonces)

	sol := Solution{Nonces: nonces, Path: slices.Clone(tail)}
	s.solutions = append(s.solutions, sol)
	if s.opts.OnSolution != nil {
		s.opts.OnSolution(sol)
	}
	return nil
}
