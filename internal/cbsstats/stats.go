// Package cbsstats counts constraint-tree and low-level search activity
// for a single CBS invocation, without pulling in a visualizer or any
// other instrumentation dependency: the core package it plugs into
// never has to import anything beyond this package's interfaces.
package cbsstats

// Stats accumulates counters for one cbs.Solver.Solve call. The zero value is
// ready to use.
type Stats struct {
	NodesExpanded   int
	NodesGenerated  int
	LowLevelCalls   int
	LowLevelNodes   int
	MaxOpenListSize int
}

// NodeExpanded records a popped constraint-tree node.
func (s *Stats) NodeExpanded() { s.NodesExpanded++ }

// NodeGenerated records a pushed constraint-tree node.
func (s *Stats) NodeGenerated() { s.NodesGenerated++ }

// LowLevelInvoked records one call into the low-level planner.
func (s *Stats) LowLevelInvoked() { s.LowLevelCalls++ }

// LowLevelExpansion records one low-level A* pop, satisfying
// lowlevel.Observer.
func (s *Stats) LowLevelExpansion() { s.LowLevelNodes++ }

// ObserveOpenListSize records the open list's size right after a push,
// tracking its running maximum.
func (s *Stats) ObserveOpenListSize(n int) {
	if n > s.MaxOpenListSize {
		s.MaxOpenListSize = n
	}
}

// Observer is the subset of cbs.Observer that Multi fans out to. Spelled
// out locally so this package doesn't import internal/cbs just for an
// interface.
type Observer interface {
	LowLevelExpansion()
	NodeExpanded()
	NodeGenerated()
	LowLevelInvoked()
	ObserveOpenListSize(n int)
}

// Multi fans one Solve call's events out to every wrapped Observer, so a
// driver can keep its own Stats summary and feed a metrics.RunRecorder
// from the same run without the core ever knowing about either.
type Multi struct {
	Observers []Observer
}

// NewMulti returns a Multi wrapping the given observers in order.
func NewMulti(observers ...Observer) *Multi {
	return &Multi{Observers: observers}
}

func (m *Multi) NodeExpanded() {
	for _, o := range m.Observers {
		o.NodeExpanded()
	}
}

func (m *Multi) NodeGenerated() {
	for _, o := range m.Observers {
		o.NodeGenerated()
	}
}

func (m *Multi) LowLevelInvoked() {
	for _, o := range m.Observers {
		o.LowLevelInvoked()
	}
}

func (m *Multi) LowLevelExpansion() {
	for _, o := range m.Observers {
		o.LowLevelExpansion()
	}
}

func (m *Multi) ObserveOpenListSize(n int) {
	for _, o := range m.Observers {
		o.ObserveOpenListSize(n)
	}
}
