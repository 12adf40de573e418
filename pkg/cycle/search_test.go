package cycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
)

// square closes a 4-cycle: 0→2, hop 3, 3→4, hop 5, 5→6, hop 7, 7→1, hop 0.
var square = []graph.Edge{
	{U: 0, V: 2, Nonce: 5},
	{U: 3, V: 4, Nonce: 9},
	{U: 5, V: 6, Nonce: 1},
	{U: 7, V: 1, Nonce: 3},
}

// squareB is square shifted to nodes 10..17.
var squareB = []graph.Edge{
	{U: 10, V: 12, Nonce: 20},
	{U: 13, V: 14, Nonce: 21},
	{U: 15, V: 16, Nonce: 22},
	{U: 17, V: 11, Nonce: 23},
}

func build(t *testing.T, edges ...[]graph.Edge) *graph.Graph {
	t.Helper()
	var all []graph.Edge
	for _, e := range edges {
		all = append(all, e...)
	}
	g, err := graph.Build(graph.Encode(all))
	require.NoError(t, err)
	return g
}

func nonces(res *cycle.Result) [][]uint32 {
	out := make([][]uint32, len(res.Solutions))
	for i, s := range res.Solutions {
		out[i] = s.Nonces
	}
	return out
}

func TestFindFourCycle(t *testing.T) {
	g := build(t, square)

	res, err := cycle.Find(g, cycle.Options{Length: 4})
	require.NoError(t, err)

	require.Len(t, res.Solutions, 1)
	assert.Equal(t, []uint32{1, 3, 5, 9}, res.Solutions[0].Nonces)
	assert.Equal(t, []uint32{0, 2, 3, 4, 5, 6, 7, 1}, res.Solutions[0].Path)
	assert.Equal(t, cycle.Stats{
		NodesVisited:  4,
		NodesExplored: 8,
		Roots:         8,
		Solutions:     1,
		MaxDepth:      4,
	}, res.Stats)
}

func TestFindWrongLength(t *testing.T) {
	g := build(t, square)

	for _, length := range []int{1, 2, 3, 5, 42} {
		res, err := cycle.Find(g, cycle.Options{Length: length})
		require.NoError(t, err)
		assert.Empty(t, res.Solutions, "length %d", length)
	}
}

func TestFindCompanionLinkedEdges(t *testing.T) {
	// Edges joining a node to its own companion do not form a 4-cycle under
	// the hop rule; the walk 0→2, hop 3, 3→1, hop 0 closes after two edges.
	edges := []graph.Edge{
		{U: 0, V: 1, Nonce: 5},
		{U: 1, V: 3, Nonce: 9},
		{U: 3, V: 2, Nonce: 1},
		{U: 2, V: 0, Nonce: 3},
	}
	g := build(t, edges)

	res, err := cycle.Find(g, cycle.Options{Length: 4})
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)

	res, err = cycle.Find(g, cycle.Options{Length: 2})
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{3, 9}}, nonces(res))
	assert.Equal(t, 2, res.Stats.NodesVisited)
	assert.Equal(t, 4, res.Stats.NodesExplored)
}

func TestFindClosesThroughSeenNeighbor(t *testing.T) {
	// 0→2 is a tail; the cycle 3→4, hop 5, 5→2 closes on the Visited node 2.
	edges := []graph.Edge{
		{U: 0, V: 2, Nonce: 7},
		{U: 3, V: 4, Nonce: 11},
		{U: 5, V: 2, Nonce: 4},
	}
	g := build(t, edges)

	for _, pop := range []bool{false, true} {
		res, err := cycle.Find(g, cycle.Options{Length: 2, PopClosingEntry: pop})
		require.NoError(t, err)

		require.Len(t, res.Solutions, 1, "pop=%v", pop)
		assert.Equal(t, []uint32{4, 11}, res.Solutions[0].Nonces)
		assert.Equal(t, []uint32{3, 4, 5, 2}, res.Solutions[0].Path)
		assert.Equal(t, 2, res.Stats.NodesVisited)
		assert.Equal(t, 5, res.Stats.NodesExplored)
	}
}

func TestFindSelfCompanionEdge(t *testing.T) {
	g := build(t, []graph.Edge{{U: 6, V: 7, Nonce: 99}})

	res, err := cycle.Find(g, cycle.Options{Length: 1})
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{99}}, nonces(res))
}

func TestFindSolutionProperties(t *testing.T) {
	tail := []graph.Edge{
		{U: 0, V: 8, Nonce: 100},
		{U: 9, V: 30, Nonce: 101},
		{U: 12, V: 40, Nonce: 102},
	}
	g := build(t, square, squareB, tail)

	known := make(map[uint32]bool)
	for e := range g.Edges() {
		known[e.Nonce] = true
	}

	res, err := cycle.Find(g, cycle.Options{Length: 4})
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]uint32{{1, 3, 5, 9}, {20, 21, 22, 23}}, nonces(res))

	for _, sol := range res.Solutions {
		require.NoError(t, sol.Validate(4))
		seen := make(map[uint32]bool)
		for _, n := range sol.Nonces {
			assert.True(t, known[n], "nonce %d not in graph", n)
			assert.False(t, seen[n], "duplicate nonce %d", n)
			seen[n] = true
		}
	}
}

func TestFindDeterministic(t *testing.T) {
	g := build(t, square, squareB)

	first, err := cycle.Find(g, cycle.Options{Length: 4})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := cycle.Find(g, cycle.Options{Length: 4})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	sorted, err := cycle.Find(g, cycle.Options{Length: 4, Order: cycle.OrderSorted})
	require.NoError(t, err)
	assert.ElementsMatch(t, nonces(first), nonces(sorted))
}

func TestFindEmptyGraph(t *testing.T) {
	g, err := graph.Build([]uint32{0, 0})
	require.NoError(t, err)

	res, err := cycle.Find(g, cycle.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)
	assert.Zero(t, res.Stats.Roots)
}

func TestFindOnSolution(t *testing.T) {
	g := build(t, square, squareB)

	var streamed []cycle.Solution
	res, err := cycle.Find(g, cycle.Options{
		Length:     4,
		OnSolution: func(s cycle.Solution) { streamed = append(streamed, s) },
	})
	require.NoError(t, err)
	assert.Equal(t, res.Solutions, streamed)
}

func TestNewSearchRejectsOptions(t *testing.T) {
	g := build(t, square)

	tests := []struct {
		name string
		opts cycle.Options
		code cerrors.Code
	}{
		{"negative length", cycle.Options{Length: -1}, cerrors.ErrCodeInvalidInput},
		{"unknown order", cycle.Options{Length: 4, Order: "random"}, cerrors.ErrCodeInvalidOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := cycle.NewSearch(g, tt.opts)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Equal(t, tt.code, cerrors.GetCode(err))
		})
	}
}

func TestWalkIsolatedRoot(t *testing.T) {
	g := build(t, square)

	s, err := cycle.NewSearch(g, cycle.Options{Length: 4})
	require.NoError(t, err)
	require.NoError(t, s.Walk(context.Background(), 99))

	res := s.Result()
	assert.Empty(t, res.Solutions)
	assert.Zero(t, res.Stats.NodesExplored)
	assert.Equal(t, 1, res.Stats.Roots)
	assert.Equal(t, cycle.NotVisited, s.State().Status(99))
	assert.Empty(t, s.State().Path())
}

func TestWalkStatusPersistsAcrossRoots(t *testing.T) {
	g := build(t, square)

	s, err := cycle.NewSearch(g, cycle.Options{Length: 4})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Walk(ctx, 0))
	assert.Equal(t, cycle.Explored, s.State().Status(0))
	assert.Equal(t, cycle.Visited, s.State().Status(2))
	assert.Empty(t, s.State().Path())

	// A second walk from an explored root does no work.
	require.NoError(t, s.Walk(ctx, 3))
	res := s.Result()
	assert.Len(t, res.Solutions, 1)
	assert.Equal(t, 4, res.Stats.NodesExplored)
}

func TestRunCancelled(t *testing.T) {
	g := build(t, square)

	s, err := cycle.NewSearch(g, cycle.Options{Length: 4})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Run(ctx)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunAbortsOnMissingNonce(t *testing.T) {
	// From root 4 the walk closes [3 4] on the seen node 0 and keeps 0 on
	// the path. The next closure, on 4, then pairs 0 with 1, which share no
	// edge.
	edges := []graph.Edge{
		{U: 4, V: 1, Nonce: 1},
		{U: 0, V: 4, Nonce: 2},
		{U: 1, V: 2, Nonce: 3},
		{U: 3, V: 0, Nonce: 4},
	}
	g := build(t, edges)

	var streamed [][]uint32
	s, err := cycle.NewSearch(g, cycle.Options{
		Length:     2,
		OnSolution: func(sol cycle.Solution) { streamed = append(streamed, sol.Nonces) },
	})
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	assert.Nil(t, res)
	var nf *graph.NonceNotFoundError
	require.True(t, errors.As(err, &nf), "error %v is not *NonceNotFoundError", err)
	assert.Equal(t, uint32(0), nf.Node1)
	assert.Equal(t, uint32(1), nf.Node2)
	assert.Equal(t, cerrors.ErrCodeNonceNotFound, cerrors.GetCode(err))
	assert.Equal(t, [][]uint32{{3, 4}}, streamed)

	// Dropping the closing entry keeps the pairs aligned.
	res, err = cycle.Find(g, cycle.Options{Length: 2, PopClosingEntry: true})
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{3, 4}}, nonces(res))
}
