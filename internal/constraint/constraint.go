// Package constraint implements the CBS constraint model: the immutable
// Constraint record, per-agent ConstraintTable lookups, and the
// reductions the high-level planner uses to size its search horizon.
package constraint

import "github.com/elektrokombinacija/mapf-cbs/internal/grid"

// Kind distinguishes the two constraint shapes. Modeled as a tagged sum:
// a Vertex constraint's second coordinate is meaningless and left zero,
// never read.
type Kind int

const (
	Vertex Kind = iota
	Edge
)

// Constraint forbids one agent from an action at a specific time.
//
//   - Vertex: agent may not occupy From at time T.
//   - Edge:   agent may not traverse From (at T) -> To (at T+1). Direction
//     matters: the reverse traversal is a distinct, unconstrained action.
type Constraint struct {
	Agent int
	Kind  Kind
	T     int
	From  grid.Position
	To    grid.Position // only meaningful when Kind == Edge
}

// vertexKey is a comparable map key for a single (x, y, t) occupancy.
type vertexKey struct {
	x, y, t int
}

type edgeKey struct {
	x1, y1, x2, y2, t int
}

// Table is the per-agent, O(1)-membership view of a constraint list.
type Table struct {
	vertices map[vertexKey]struct{}
	edges    map[edgeKey]struct{}
}

// Build filters cons down to those targeting agent and indexes them for
// O(1) membership tests.
func Build(cons []Constraint, agent int) *Table {
	t := &Table{
		vertices: make(map[vertexKey]struct{}),
		edges:    make(map[edgeKey]struct{}),
	}
	for _, c := range cons {
		if c.Agent != agent {
			continue
		}
		switch c.Kind {
		case Vertex:
			t.vertices[vertexKey{c.From.X, c.From.Y, c.T}] = struct{}{}
		case Edge:
			t.edges[edgeKey{c.From.X, c.From.Y, c.To.X, c.To.Y, c.T}] = struct{}{}
		}
	}
	return t
}

// ViolatesVertex reports whether occupying (x, y) at time t is forbidden.
func (t *Table) ViolatesVertex(x, y, tt int) bool {
	_, forbidden := t.vertices[vertexKey{x, y, tt}]
	return forbidden
}

// ViolatesEdge reports whether traversing (x1,y1)->(x2,y2) departing at
// time t is forbidden.
func (t *Table) ViolatesEdge(x1, y1, x2, y2, tt int) bool {
	_, forbidden := t.edges[edgeKey{x1, y1, x2, y2, tt}]
	return forbidden
}

// MaxTimeForAgent returns the largest T among cons targeting agent, or 0
// if agent has no constraints.
func MaxTimeForAgent(cons []Constraint, agent int) int {
	mx := 0
	for _, c := range cons {
		if c.Agent == agent && c.T > mx {
			mx = c.T
		}
	}
	return mx
}

// MaxTimeAll returns the largest T across all cons, or 0 if cons is empty.
func MaxTimeAll(cons []Constraint) int {
	mx := 0
	for _, c := range cons {
		if c.T > mx {
			mx = c.T
		}
	}
	return mx
}
