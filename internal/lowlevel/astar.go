// Package lowlevel implements the constrained single-agent Space-Time A*
// planner CBS calls once per agent per Constraint-Tree node.
package lowlevel

import (
	"container/heap"

	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/grid"
)

// State is a point in the space-time lattice the planner searches over.
type State struct {
	X, Y, T int
}

// Observer receives low-level search telemetry. It is optional: a nil
// Observer is a no-op, keeping the planner itself free of any
// instrumentation dependency (see internal/cbsstats).
type Observer interface {
	LowLevelExpansion()
}

type node struct {
	state  State
	g      int
	f      int
	parent *State
	index  int
}

type openHeap []*node

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Tie-break toward smaller g: this matches one of the two orderings
	// used in the reference implementation. Either is optimal; this
	// implementation always prefers smaller g on tied f.
	return h[i].g < h[j].g
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *openHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// SpaceTimeAStar finds a shortest path from start at time 0 to goal,
// subject to ct, where the agent may additionally wait safely at goal for
// every time in [arrivalTime, maxT]. The returned path is padded to
// length maxT+1 by repeating goal. Returns an empty Path if no such path
// exists within the horizon.
func SpaceTimeAStar(g *grid.Grid, start, goal grid.Position, maxT int, ct *constraint.Table, obs Observer) grid.Path {
	if ct.ViolatesVertex(start.X, start.Y, 0) {
		return nil
	}

	open := &openHeap{}
	heap.Init(open)

	bestG := map[State]int{{start.X, start.Y, 0}: 0}
	parent := map[State]State{}

	heap.Push(open, &node{
		state: State{start.X, start.Y, 0},
		g:     0,
		f:     grid.Manhattan(start, goal),
	})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if obs != nil {
			obs.LowLevelExpansion()
		}

		if cur.g > bestG[cur.state] {
			continue // lazily discard a stale, superseded heap entry
		}

		if cur.state.X == goal.X && cur.state.Y == goal.Y {
			if goalSafe(ct, goal, cur.state.T, maxT) {
				return reconstruct(parent, cur.state, maxT)
			}
			// Not goal-safe yet: keep expanding, the agent must reach the
			// goal later or wait through a future constraint some other way.
		}

		if cur.state.T >= maxT {
			continue
		}

		for _, succ := range successors(g, cur.state) {
			nt := cur.state.T + 1
			if ct.ViolatesVertex(succ.X, succ.Y, nt) {
				continue
			}
			if ct.ViolatesEdge(cur.state.X, cur.state.Y, succ.X, succ.Y, cur.state.T) {
				continue
			}

			ns := State{succ.X, succ.Y, nt}
			ng := cur.g + 1
			if best, ok := bestG[ns]; !ok || ng < best {
				bestG[ns] = ng
				parent[ns] = cur.state
				heap.Push(open, &node{
					state: ns,
					g:     ng,
					f:     ng + grid.Manhattan(grid.Position{X: succ.X, Y: succ.Y}, goal),
				})
			}
		}
	}

	return nil
}

// successors returns the five-action expansion of s: wait plus the
// passable 4-connected neighbors.
func successors(g *grid.Grid, s State) []grid.Position {
	here := grid.Position{X: s.X, Y: s.Y}
	out := make([]grid.Position, 0, 5)
	out = append(out, here) // wait
	out = append(out, g.Neighbors(here)...)
	return out
}

// goalSafe reports whether, having arrived at goal at time t, the agent
// can remain there for the rest of the horizon without violating any
// future vertex constraint or any constraint forbidding the self-edge
// (waiting).
func goalSafe(ct *constraint.Table, goal grid.Position, t, maxT int) bool {
	for tau := t; tau <= maxT; tau++ {
		if ct.ViolatesVertex(goal.X, goal.Y, tau) {
			return false
		}
	}
	for tau := t; tau < maxT; tau++ {
		if ct.ViolatesEdge(goal.X, goal.Y, goal.X, goal.Y, tau) {
			return false
		}
	}
	return true
}

func reconstruct(parent map[State]State, goalState State, maxT int) grid.Path {
	var rev grid.Path
	s := goalState
	for {
		rev = append(rev, grid.Position{X: s.X, Y: s.Y})
		if s.T == 0 {
			break
		}
		s = parent[s]
	}
	path := make(grid.Path, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path.Padded(maxT + 1)
}
