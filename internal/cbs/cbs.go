// Package cbs implements Conflict-Based Search: the high-level
// Constraint-Tree search that repeatedly replans single agents around
// newly discovered conflicts until it finds a mutually conflict-free set
// of paths, or exhausts the tree.
package cbs

import (
	"container/heap"
	"errors"

	"github.com/elektrokombinacija/mapf-cbs/internal/conflict"
	"github.com/elektrokombinacija/mapf-cbs/internal/constraint"
	"github.com/elektrokombinacija/mapf-cbs/internal/grid"
	"github.com/elektrokombinacija/mapf-cbs/internal/lowlevel"
)

// Sentinel errors for malformed CBS input. The core never panics; these
// are checked once at the top of Solve before any search begins.
var (
	ErrMismatchedAgentCount = errors.New("cbs: starts and goals must have the same length")
	ErrBlockedStart         = errors.New("cbs: an agent's start cell is not passable")
	ErrBlockedGoal          = errors.New("cbs: an agent's goal cell is not passable")
)

// ErrNoSolution is returned when the constraint tree is exhausted without
// finding a conflict-free set of paths.
var ErrNoSolution = errors.New("cbs: no solution")

// HorizonPolicy controls how replanAgent sizes the low-level planner's
// time horizon and how many times it iteratively deepens on failure.
// Exported so a driver can tune it without reaching into the solver's
// internals; the zero value is invalid, use DefaultHorizonPolicy.
type HorizonPolicy struct {
	Buffer          int
	DeepeningTries  int
}

// DefaultHorizonPolicy reproduces the reference implementation's
// constants: a padding buffer of 10 timesteps and up to 3 low-level
// attempts per replan, the horizon growing by the buffer after each
// failed attempt.
func DefaultHorizonPolicy() HorizonPolicy {
	return HorizonPolicy{Buffer: 10, DeepeningTries: 3}
}

// Observer receives constraint-tree and low-level telemetry for one
// Solve call. A nil Observer disables all instrumentation.
type Observer interface {
	lowlevel.Observer
	NodeExpanded()
	NodeGenerated()
	LowLevelInvoked()
	ObserveOpenListSize(n int)
}

// Solver runs Conflict-Based Search on a fixed grid.
type Solver struct {
	Grid    *grid.Grid
	Horizon HorizonPolicy
	Obs     Observer
}

// New returns a Solver with the default horizon policy and no observer.
func New(g *grid.Grid) *Solver {
	return &Solver{Grid: g, Horizon: DefaultHorizonPolicy()}
}

// ctNode is one node of the (implicit) constraint tree: a cumulative
// constraint set plus a cost-consistent plan for every agent. Children
// copy their parent's constraint list and path list before mutating;
// the individual Paths are shared but never modified in place.
type ctNode struct {
	id          int
	constraints []constraint.Constraint
	paths       []grid.Path
	cost        int
}

type openHeap []*ctNode

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].id < h[j].id
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(*ctNode)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// Solve runs CBS for the given starts/goals and returns one equal-length,
// conflict-free Path per agent, or ErrNoSolution if the constraint tree
// is exhausted. It validates its inputs and never panics.
func (s *Solver) Solve(starts, goals []grid.Position) ([]grid.Path, error) {
	if len(starts) != len(goals) {
		return nil, ErrMismatchedAgentCount
	}
	for i := range starts {
		if !s.Grid.PassablePos(starts[i]) {
			return nil, ErrBlockedStart
		}
		if !s.Grid.PassablePos(goals[i]) {
			return nil, ErrBlockedGoal
		}
	}

	n := len(starts)
	nextID := 0

	root := &ctNode{id: nextID, paths: make([]grid.Path, n)}
	nextID++

	for i := 0; i < n; i++ {
		if !s.replanAgent(root, i, starts, goals) {
			return nil, ErrNoSolution
		}
	}
	padToSameLength(root.paths)
	root.cost = sumOfCosts(root.paths)

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, root)
	s.observeOpenSize(open.Len())

	for open.Len() > 0 {
		node := heap.Pop(open).(*ctNode)
		s.observeNodeExpanded()

		conf := conflict.DetectFirst(node.paths)
		if !conf.Exists {
			return node.paths, nil
		}

		for _, agent := range []int{conf.A, conf.B} {
			child := &ctNode{
				id:          nextID,
				constraints: append(append([]constraint.Constraint{}, node.constraints...), makeConstraint(conf, agent)),
				paths:       append([]grid.Path{}, node.paths...),
			}
			nextID++

			if !s.replanAgent(child, agent, starts, goals) {
				continue
			}
			padToSameLength(child.paths)
			child.cost = sumOfCosts(child.paths)
			heap.Push(open, child)
			s.observeNodeGenerated()
			s.observeOpenSize(open.Len())
		}
	}

	return nil, ErrNoSolution
}

// makeConstraint derives the single constraint CBS adds for agent out of
// conf, reversing the edge direction when agent is the second traverser.
func makeConstraint(conf conflict.Conflict, agent int) constraint.Constraint {
	if conf.Kind == conflict.Vertex {
		return constraint.Constraint{Agent: agent, Kind: constraint.Vertex, T: conf.T, From: conf.Pos}
	}
	if agent == conf.A {
		return constraint.Constraint{Agent: agent, Kind: constraint.Edge, T: conf.T, From: conf.From, To: conf.To}
	}
	return constraint.Constraint{Agent: agent, Kind: constraint.Edge, T: conf.T, From: conf.To, To: conf.From}
}

// replanAgent rebuilds node.paths[agent] from node.constraints, sizing
// the low-level horizon from the largest relevant constraint time and
// iteratively deepening if that estimate turns out too small. It mutates
// node in place and reports whether it found any path.
func (s *Solver) replanAgent(node *ctNode, agent int, starts, goals []grid.Position) bool {
	ct := constraint.Build(node.constraints, agent)

	lb := 0
	for i := range starts {
		if d := grid.Manhattan(starts[i], goals[i]); d > lb {
			lb = d
		}
	}
	curMakespan := makespan(node.paths)
	maxCtAgent := constraint.MaxTimeForAgent(node.constraints, agent)
	maxCtAll := constraint.MaxTimeAll(node.constraints)

	maxT := maxInt(maxInt(lb, curMakespan), maxInt(maxCtAgent, maxCtAll)) + s.Horizon.Buffer

	for attempt := 0; attempt < s.Horizon.DeepeningTries; attempt++ {
		s.observeLowLevelInvoked()
		path := lowlevel.SpaceTimeAStar(s.Grid, starts[agent], goals[agent], maxT, ct, s.Obs)
		if len(path) > 0 {
			node.paths[agent] = trimWaitsAtGoal(path)
			return true
		}
		maxT += s.Horizon.Buffer
	}
	return false
}

func padToSameLength(paths []grid.Path) {
	maxLen := 0
	for _, p := range paths {
		if len(p) > maxLen {
			maxLen = len(p)
		}
	}
	for i, p := range paths {
		paths[i] = p.Padded(maxLen)
	}
}

// sumOfCosts counts each agent's path up to its final arrival at its
// goal; the trailing waits added by padding cost nothing.
func sumOfCosts(paths []grid.Path) int {
	sum := 0
	for _, p := range paths {
		sum += trimWaitsAtGoal(p).Cost()
	}
	return sum
}

// trimWaitsAtGoal drops the trailing repeats of p's last position, so the
// result ends at the timestep the agent last arrived there.
func trimWaitsAtGoal(p grid.Path) grid.Path {
	end := len(p)
	for end > 1 && p[end-2] == p[end-1] {
		end--
	}
	return p[:end]
}

func makespan(paths []grid.Path) int {
	mx := 0
	for _, p := range paths {
		if c := p.Cost(); c > mx {
			mx = c
		}
	}
	return mx
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *Solver) observeNodeExpanded() {
	if s.Obs != nil {
		s.Obs.NodeExpanded()
	}
}

func (s *Solver) observeNodeGenerated() {
	if s.Obs != nil {
		s.Obs.NodeGenerated()
	}
}

func (s *Solver) observeLowLevelInvoked() {
	if s.Obs != nil {
		s.Obs.LowLevelInvoked()
	}
}

func (s *Solver) observeOpenSize(n int) {
	if s.Obs != nil {
		s.Obs.ObserveOpenListSize(n)
	}
}
