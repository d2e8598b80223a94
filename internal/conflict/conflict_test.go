package conflict_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/grid"
)

func TestDetectFirst_NoConflict(t *testing.T) {
	paths := []grid.Path{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		{{X: 0, Y: 5}, {X: 1, Y: 5}, {X: 2, Y: 5}},
	}
	c := conflict.DetectFirst(paths)
	require.False(t, c.Exists)
}

func TestDetectFirst_VertexConflict(t *testing.T) {
	paths := []grid.Path{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 5, Y: 0}, {X: 1, Y: 0}},
	}
	c := conflict.DetectFirst(paths)
	require.True(t, c.Exists)
	require.Equal(t, conflict.Vertex, c.Kind)
	require.Equal(t, 0, c.A)
	require.Equal(t, 1, c.B)
	require.Equal(t, 1, c.T)
	require.Equal(t, grid.Position{X: 1, Y: 0}, c.Pos)
}

func TestDetectFirst_EdgeConflict_DepartureTime(t *testing.T) {
	paths := []grid.Path{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 1, Y: 0}, {X: 0, Y: 0}},
	}
	c := conflict.DetectFirst(paths)
	require.True(t, c.Exists)
	require.Equal(t, conflict.Edge, c.Kind)
	// departure time, not arrival time.
	require.Equal(t, 0, c.T)
	require.Equal(t, grid.Position{X: 0, Y: 0}, c.From)
	require.Equal(t, grid.Position{X: 1, Y: 0}, c.To)
}

func TestDetectFirst_FollowingIsNotAConflict(t *testing.T) {
	// Agent 1 moves into agent 0's previous cell one step later - a
	// following chain, not a swap. Must not be reported.
	paths := []grid.Path{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	}
	c := conflict.DetectFirst(paths)
	require.False(t, c.Exists)
}

func TestDetectFirst_WaitIsNotASwap(t *testing.T) {
	// An agent staying put is not a self-swap even though From==To would
	// otherwise satisfy the coordinate equalities.
	paths := []grid.Path{
		{{X: 0, Y: 0}, {X: 0, Y: 0}},
		{{X: 0, Y: 0}, {X: 0, Y: 0}},
	}
	c := conflict.DetectFirst(paths)
	require.True(t, c.Exists)
	require.Equal(t, conflict.Vertex, c.Kind) // vertex conflict at t=0, found before any edge check
}

func TestDetectFirst_EarliestInTimeWins(t *testing.T) {
	paths := []grid.Path{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 9, Y: 9}},
		{{X: 5, Y: 5}, {X: 1, Y: 0}, {X: 9, Y: 9}},
	}
	c := conflict.DetectFirst(paths)
	require.True(t, c.Exists)
	require.Equal(t, 1, c.T)
}

func TestDetectFirst_EmptyPaths(t *testing.T) {
	require.False(t, conflict.DetectFirst(nil).Exists)
	require.False(t, conflict.DetectFirst([]grid.Path{{{X: 0, Y: 0}}}).Exists)
}
