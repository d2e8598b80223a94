// Package instance defines a MAPF scenario: a grid plus per-agent
// start/goal pairs, and its YAML serialization. It depends on
// internal/grid but not internal/cbs, and neither depends on it.
package instance

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/mapf-cbs/internal/grid"
)

// Sentinel errors for scenario validation.
var (
	ErrNoAgents             = errors.New("instance: scenario must define at least one agent")
	ErrMismatchedAgentCount = errors.New("instance: starts and goals must have the same length")
)

// Agent is one robot's start/goal pair, by YAML-friendly coordinate pair.
type Agent struct {
	Start [2]int `yaml:"start"`
	Goal  [2]int `yaml:"goal"`
}

// document is the on-disk YAML shape: an ASCII grid plus an agent list.
type document struct {
	Grid   []string `yaml:"grid"`
	Agents []Agent  `yaml:"agents"`
}

// Scenario is a fully parsed, in-memory MAPF instance.
type Scenario struct {
	Grid   *grid.Grid
	Starts []grid.Position
	Goals  []grid.Position
}

// Parse decodes a YAML scenario document.
func Parse(data []byte) (*Scenario, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("instance: yaml: %w", err)
	}

	g, err := grid.Parse(doc.Grid)
	if err != nil {
		return nil, fmt.Errorf("instance: grid: %w", err)
	}

	if len(doc.Agents) == 0 {
		return nil, ErrNoAgents
	}

	starts := make([]grid.Position, len(doc.Agents))
	goals := make([]grid.Position, len(doc.Agents))
	for i, a := range doc.Agents {
		starts[i] = grid.Position{X: a.Start[0], Y: a.Start[1]}
		goals[i] = grid.Position{X: a.Goal[0], Y: a.Goal[1]}
	}

	return &Scenario{Grid: g, Starts: starts, Goals: goals}, nil
}

// Encode renders s back to its YAML form.
func Encode(s *Scenario) ([]byte, error) {
	if len(s.Starts) != len(s.Goals) {
		return nil, ErrMismatchedAgentCount
	}
	doc := document{
		Grid:   s.Grid.Rows(),
		Agents: make([]Agent, len(s.Starts)),
	}
	for i := range s.Starts {
		doc.Agents[i] = Agent{
			Start: [2]int{s.Starts[i].X, s.Starts[i].Y},
			Goal:  [2]int{s.Goals[i].X, s.Goals[i].Y},
		}
	}
	return yaml.Marshal(doc)
}
