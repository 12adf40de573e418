package cycle

import (
	"fmt"
	"slices"
	"strings"
)

// Solution is one cycle, identified by the nonces of its edges.
type Solution struct {
	// Nonces are sorted ascending, one per cycle edge.
	Nonces []uint32 `json:"nonces"`

	// Path is the closing window of the traversal path: consecutive pairs
	// are the endpoints of the cycle edges in walk order.
	Path []uint32 `json:"path,omitempty"`
}

// Validate checks that the solution has length nonces in strictly
// ascending order. Solutions produced by Search always pass for the
// search's length; Validate is meant for solutions read back from reports
// or caches.
func (s Solution) Validate(length int) error {
	if len(s.Nonces) != length {
		return fmt.Errorf("solution has %d nonces, want %d", len(s.Nonces), length)
	}
	for i := 1; i < len(s.Nonces); i++ {
		if s.Nonces[i] <= s.Nonces[i-1] {
			return fmt.Errorf("nonces not strictly ascending at %d: %d after %d", i, s.Nonces[i], s.Nonces[i-1])
		}
	}
	return nil
}

// Equal reports whether two solutions carry the same nonces.
func (s Solution) Equal(o Solution) bool {
	return slices.Equal(s.Nonces, o.Nonces)
}

// Hex formats the nonces as space-separated hexadecimal values.
func (s Solution) Hex() string {
	parts := make([]string, len(s.Nonces))
	for i, n := range s.Nonces {
		parts[i] = fmt.Sprintf("%x", n)
	}
	return strings.Join(parts, " ")
}

// Edges returns the cycle edges as node pairs in walk order. It is empty for
// solutions without a Path, such as ones decoded from a report that omitted
// it.
func (s Solution) Edges() [][2]uint32 {
	edges := make([][2]uint32, 0, len(s.Path)/2)
	for i := 0; i+1 < len(s.Path); i += 2 {
		edges = append(edges, [2]uint32{s.Path[i], s.Path[i+1]})
	}
	return edges
}
