// Command gen_scenarios generates random grid MAPF scenarios for manual
// benchmarking of the CBS solver, adapted from the MAPF-HET research
// tooling's own instance generator.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/mapf-cbs/internal/grid"
	"github.com/elektrokombinacija/mapf-cbs/internal/instance"
)

func main() {
	seed := flag.Int64("seed", 42, "random seed for deterministic generation")
	numAgents := flag.Int("agents", 4, "number of agents")
	width := flag.Int("width", 10, "grid width")
	height := flag.Int("height", 10, "grid height")
	obstacleDensity := flag.Float64("obstacles", 0.1, "fraction of cells that are blocked")
	outputDir := flag.String("output", "testdata", "output directory")
	name := flag.String("name", "", "output file name without extension (default: derived from parameters)")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	scenario, err := generate(*seed, *numAgents, *width, *height, *obstacleDensity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating scenario: %v\n", err)
		os.Exit(1)
	}

	fileName := *name
	if fileName == "" {
		fileName = fmt.Sprintf("scenario_%dx%d_%da_%d", *width, *height, *numAgents, *seed)
	}
	path := filepath.Join(*outputDir, fileName+".yaml")

	data, err := instance.Encode(scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding scenario: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing scenario: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("generated: %s (%d agents, %dx%d grid, seed %d)\n", path, *numAgents, *width, *height, *seed)
}

// generate builds a random grid with obstacleDensity blocked cells and
// places numAgents agents at distinct free start cells and distinct free
// goal cells, drawn from one shuffle of the free cells so no start is also
// a goal. It returns an error if fewer than 2*numAgents cells are free.
func generate(seed int64, numAgents, width, height int, obstacleDensity float64) (*instance.Scenario, error) {
	rng := rand.New(rand.NewSource(seed))

	rows := make([][]grid.Cell, height)
	for y := 0; y < height; y++ {
		rows[y] = make([]grid.Cell, width)
		for x := 0; x < width; x++ {
			if rng.Float64() < obstacleDensity {
				rows[y][x] = grid.Blocked
			} else {
				rows[y][x] = grid.Free
			}
		}
	}
	g, err := grid.New(rows)
	if err != nil {
		return nil, err
	}

	freeCells := make([]grid.Position, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if g.Passable(x, y) {
				freeCells = append(freeCells, grid.Position{X: x, Y: y})
			}
		}
	}
	if len(freeCells) < numAgents*2 {
		return nil, fmt.Errorf("gen_scenarios: grid has only %d free cells, need %d for %d agents", len(freeCells), numAgents*2, numAgents)
	}

	rng.Shuffle(len(freeCells), func(i, j int) { freeCells[i], freeCells[j] = freeCells[j], freeCells[i] })

	starts := make([]grid.Position, numAgents)
	goals := make([]grid.Position, numAgents)
	copy(starts, freeCells[:numAgents])
	copy(goals, freeCells[numAgents:2*numAgents])

	return &instance.Scenario{Grid: g, Starts: starts, Goals: goals}, nil
}
