// Package conflict detects the first collision between a set of agent
// paths: vertex conflicts (two agents sharing a cell at a timestep) and
// edge/swap conflicts (two agents exchanging cells in one unit step).
package conflict

import "github.com/elektrokombinacija/mapf-cbs/internal/grid"

// Kind distinguishes a vertex conflict from an edge (swap) conflict.
type Kind int

const (
	Vertex Kind = iota
	Edge
)

// Conflict describes the earliest collision found in a set of paths. The
// zero value has Exists == false.
type Conflict struct {
	Exists bool
	Kind   Kind
	A, B   int // conflicting agent indices, A < B
	T      int // for Edge, this is the departure time, not the arrival time

	// Vertex: the shared cell.
	Pos grid.Position

	// Edge: agent A's traversal From (at T) -> To (at T+1). Agent B
	// traverses the reverse, To -> From, in the same step.
	From, To grid.Position
}

// DetectFirst scans paths for the earliest conflict, ascending in time,
// and within a timestep in lexicographic (i, j) agent-pair order. This
// ordering is what makes CBS's expansion deterministic.
func DetectFirst(paths []grid.Path) Conflict {
	horizon := 0
	for _, p := range paths {
		if len(p) > horizon {
			horizon = len(p)
		}
	}

	for t := 0; t < horizon; t++ {
		for i := 0; i < len(paths); i++ {
			pi := paths[i].At(t)
			for j := i + 1; j < len(paths); j++ {
				pj := paths[j].At(t)
				if pi == pj {
					return Conflict{Exists: true, Kind: Vertex, A: i, B: j, T: t, Pos: pi}
				}

				if t > 0 {
					piPrev := paths[i].At(t - 1)
					pjPrev := paths[j].At(t - 1)
					if piPrev == pj && pjPrev == pi && piPrev != pi {
						return Conflict{
							Exists: true,
							Kind:   Edge,
							A:      i,
							B:      j,
							T:      t - 1,
							From:   piPrev,
							To:     pi,
						}
					}
				}
			}
		}
	}

	return Conflict{}
}
