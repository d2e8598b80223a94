package cbs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/cbs"
	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/grid"
)

func mustGrid(t *testing.T, rows []string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(rows)
	require.NoError(t, err)
	return g
}

func assertValidSolution(t *testing.T, g *grid.Grid, starts, goals []grid.Position, paths []grid.Path) {
	t.Helper()
	require.Len(t, paths, len(starts))

	length := -1
	for i, p := range paths {
		require.NotEmpty(t, p)
		require.Equal(t, starts[i], p[0], "agent %d must start at its start cell", i)
		require.Equal(t, goals[i], p[len(p)-1], "agent %d must end at its goal cell", i)
		if length == -1 {
			length = len(p)
		}
		require.Equal(t, length, len(p), "all paths must share one length")

		for t0 := 0; t0 < len(p)-1; t0++ {
			from, to := p[t0], p[t0+1]
			if from == to {
				continue // wait
			}
			require.Equal(t, 1, grid.Manhattan(from, to), "agent %d must only move to a 4-neighbor", i)
			require.True(t, g.PassablePos(to))
		}
	}

	require.False(t, conflict.DetectFirst(paths).Exists)
}

func TestCBS_SingleAgentOpenGrid(t *testing.T) {
	g := mustGrid(t, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
	starts := []grid.Position{{X: 0, Y: 0}}
	goals := []grid.Position{{X: 4, Y: 4}}

	solver := cbs.New(g)
	paths, err := solver.Solve(starts, goals)
	require.NoError(t, err)
	assertValidSolution(t, g, starts, goals, paths)
	require.Equal(t, 9, len(paths[0]))
}

func TestCBS_TwoAgentsSwapAcrossRow(t *testing.T) {
	g := mustGrid(t, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
	starts := []grid.Position{{X: 0, Y: 0}, {X: 4, Y: 0}}
	goals := []grid.Position{{X: 4, Y: 0}, {X: 0, Y: 0}}

	solver := cbs.New(g)
	paths, err := solver.Solve(starts, goals)
	require.NoError(t, err)
	assertValidSolution(t, g, starts, goals, paths)

	// Sum-of-costs counts each agent up to its final arrival at its goal,
	// not the waits that pad all paths to one length.
	sum := 0
	for i, p := range paths {
		end := len(p)
		for end > 1 && p[end-2] == goals[i] {
			end--
		}
		sum += p[:end].Cost()
	}
	require.Equal(t, 10, sum)
}

func TestCBS_WallCorridor(t *testing.T) {
	g := mustGrid(t, []string{
		".....",
		".#.#.",
		".....",
	})
	starts := []grid.Position{{X: 0, Y: 1}, {X: 4, Y: 1}}
	goals := []grid.Position{{X: 4, Y: 1}, {X: 0, Y: 1}}

	solver := cbs.New(g)
	paths, err := solver.Solve(starts, goals)
	require.NoError(t, err)
	assertValidSolution(t, g, starts, goals, paths)
}

func TestCBS_NarrowCorridor(t *testing.T) {
	g := mustGrid(t, []string{
		"...",
		".#.",
		"...",
	})
	starts := []grid.Position{{X: 0, Y: 0}, {X: 2, Y: 2}}
	goals := []grid.Position{{X: 2, Y: 2}, {X: 0, Y: 0}}

	solver := cbs.New(g)
	paths, err := solver.Solve(starts, goals)
	require.NoError(t, err)
	assertValidSolution(t, g, starts, goals, paths)
}

func TestCBS_Unsolvable(t *testing.T) {
	g := mustGrid(t, []string{".#."})
	starts := []grid.Position{{X: 0, Y: 0}, {X: 2, Y: 0}}
	goals := []grid.Position{{X: 2, Y: 0}, {X: 0, Y: 0}}

	solver := cbs.New(g)
	_, err := solver.Solve(starts, goals)
	require.ErrorIs(t, err, cbs.ErrNoSolution)
}

func TestCBS_IdenticalStartGoal_NoSolution(t *testing.T) {
	g := mustGrid(t, []string{"..."})
	starts := []grid.Position{{X: 0, Y: 0}, {X: 0, Y: 0}}
	goals := []grid.Position{{X: 2, Y: 0}, {X: 2, Y: 0}}

	solver := cbs.New(g)
	_, err := solver.Solve(starts, goals)
	require.ErrorIs(t, err, cbs.ErrNoSolution)
}

func TestCBS_IndependentAgents_NoDetour(t *testing.T) {
	g := mustGrid(t, []string{
		"..........",
		"..........",
		"..........",
	})
	starts := []grid.Position{{X: 0, Y: 0}, {X: 0, Y: 2}}
	goals := []grid.Position{{X: 9, Y: 0}, {X: 9, Y: 2}}

	solver := cbs.New(g)
	paths, err := solver.Solve(starts, goals)
	require.NoError(t, err)
	assertValidSolution(t, g, starts, goals, paths)
	require.Equal(t, 9, paths[0].Cost())
	require.Equal(t, 9, paths[1].Cost())
}

func TestCBS_MismatchedAgentCount(t *testing.T) {
	g := mustGrid(t, []string{"..."})
	solver := cbs.New(g)
	_, err := solver.Solve([]grid.Position{{X: 0, Y: 0}}, nil)
	require.ErrorIs(t, err, cbs.ErrMismatchedAgentCount)
}

func TestCBS_BlockedStartOrGoal(t *testing.T) {
	g := mustGrid(t, []string{".#."})
	solver := cbs.New(g)

	_, err := solver.Solve([]grid.Position{{X: 1, Y: 0}}, []grid.Position{{X: 2, Y: 0}})
	require.ErrorIs(t, err, cbs.ErrBlockedStart)

	_, err = solver.Solve([]grid.Position{{X: 0, Y: 0}}, []grid.Position{{X: 1, Y: 0}})
	require.ErrorIs(t, err, cbs.ErrBlockedGoal)
}

func TestCBS_Determinism(t *testing.T) {
	g := mustGrid(t, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
	starts := []grid.Position{{X: 0, Y: 0}, {X: 4, Y: 0}}
	goals := []grid.Position{{X: 4, Y: 0}, {X: 0, Y: 0}}

	a, errA := cbs.New(g).Solve(starts, goals)
	b, errB := cbs.New(g).Solve(starts, goals)
	require.NoError(t, errA)
	require.NoError(t, errB)
	require.Equal(t, a, b)
}
