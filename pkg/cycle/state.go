package cycle

import "slices"

// Status is the traversal status of a node within one search pass.
type Status uint8

const (
	// NotVisited is the implicit status of every node never reached.
	NotVisited Status = iota
	// Visited marks a node pushed as a neighbor whose own expansion has not
	// started yet.
	Visited
	// Explored marks a node whose neighbors have been (or are being) walked.
	// It is terminal for the rest of the pass.
	Explored
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Visited:
		return "visited"
	case Explored:
		return "explored"
	default:
		return "not-visited"
	}
}

// State is the bookkeeping of one search pass.
//
// status persists across every root of the pass; path is cleared after each
// root. Status moves NotVisited → Visited → Explored and never reverts.
type State struct {
	status map[uint32]Status
	path   []uint32
	target int

	visited  int
	explored int
}

// NewState creates the state for a pass looking for cycles of length edges
// over a graph with about nodes nodes. The sizes only pre-allocate; the
// status map and path grow as needed.
func NewState(nodes, length int) *State {
	return &State{
		status: make(map[uint32]Status, nodes),
		path:   make([]uint32, 0, 4*length),
		target: 2 * length,
	}
}

// Status returns the status of node.
func (s *State) Status(node uint32) Status {
	return s.status[node]
}

// Path returns a copy of the current path.
func (s *State) Path() []uint32 { return slices.Clone(s.path) }

// Visited returns how many nodes were marked Visited.
func (s *State) Visited() int { return s.visited }

// Explored returns how many nodes were marked Explored.
func (s *State) Explored() int { return s.explored }

func (s *State) visit(node uint32) {
	s.status[node] = Visited
	s.path = append(s.path, node)
	s.visited++
}

func (s *State) explore(node uint32) {
	s.status[node] = Explored
	s.path = append(s.path, node)
	s.explored++
}

func (s *State) leave() {
	if n := len(s.path); n > 0 {
		s.path = s.path[:n-1]
	}
}

func (s *State) clear() {
	s.path = s.path[:0]
}

// isCycle reports whether node sits exactly target entries back on the path.
// When it does and first is false, node is pushed so the closing pair is the
// last pair of the path.
func (s *State) isCycle(node uint32, first bool) bool {
	n := len(s.path)
	if n <= s.target-1 || s.path[n-s.target] != node {
		return false
	}
	if !first {
		s.path = append(s.path, node)
	}
	return true
}

// tail returns the last target entries of the path.
func (s *State) tail() []uint32 {
	return s.path[len(s.path)-s.target:]
}
