// Command mapfcbs solves a grid MAPF instance with Conflict-Based
// Search, printing each agent's path and a summary of the search.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/elektrokombinacija/mapf-cbs/internal/cbs"
	"github.com/elektrokombinacija/mapf-cbs/internal/cbsstats"
	"github.com/elektrokombinacija/mapf-cbs/internal/gridio"
	"github.com/elektrokombinacija/mapf-cbs/internal/instance"
	"github.com/elektrokombinacija/mapf-cbs/internal/metrics"
	"github.com/elektrokombinacija/mapf-cbs/internal/solverconfig"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file (grid + agents)")
	gridPath := flag.String("grid", "", "path to a plain-text ASCII grid that replaces the scenario's grid (optional)")
	configPath := flag.String("config", "", "path to a YAML solver config file (optional)")
	maxPrintSteps := flag.Int("max-print-steps", 20, "maximum number of timesteps to print per agent path")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address for the duration of the solve")
	flag.Parse()

	log.SetLevel(log.InfoLevel)
	runID := uuid.NewString()
	logger := log.With("run_id", runID)

	if *scenarioPath == "" {
		logger.Error("missing required flag", "flag", "-scenario")
		os.Exit(1)
	}

	cfg := solverconfig.Default()
	if *configPath != "" {
		loaded, err := solverconfig.FromYAML(*configPath)
		if err != nil {
			logger.Error("failed to load solver config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	data, err := os.ReadFile(*scenarioPath)
	if err != nil {
		logger.Error("failed to read scenario", "path", *scenarioPath, "err", err)
		os.Exit(1)
	}
	scenario, err := instance.Parse(data)
	if err != nil {
		logger.Error("failed to parse scenario", "path", *scenarioPath, "err", err)
		os.Exit(1)
	}

	if *gridPath != "" {
		g, err := gridio.ReadFile(*gridPath)
		if err != nil {
			logger.Error("failed to read grid override", "path", *gridPath, "err", err)
			os.Exit(1)
		}
		scenario.Grid = g
	}

	logger.Info("starting solve",
		"agents", len(scenario.Starts),
		"grid_width", scenario.Grid.Width(),
		"grid_height", scenario.Grid.Height(),
		"horizon_buffer", cfg.HorizonBuffer,
		"deepening_tries", cfg.DeepeningTries,
	)

	recorder := metrics.NewRecorder()
	runRecorder := recorder.ForRun(runID)
	stats := &cbsstats.Stats{}
	obs := cbsstats.NewMulti(stats, runRecorder)

	if *metricsAddr != "" {
		srv := &http.Server{Addr: *metricsAddr, Handler: recorder.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	solver := &cbs.Solver{Grid: scenario.Grid, Horizon: cfg.HorizonPolicy(), Obs: obs}

	start := time.Now()
	paths, err := solver.Solve(scenario.Starts, scenario.Goals)
	elapsed := time.Since(start)
	runRecorder.ObserveSolveDuration(elapsed.Seconds())

	if err != nil {
		logger.Error("solve failed", "err", err, "elapsed", elapsed)
		os.Exit(1)
	}

	logger.Info("solve succeeded",
		"elapsed", elapsed,
		"ct_nodes_expanded", stats.NodesExpanded,
		"low_level_calls", stats.LowLevelCalls,
		"low_level_nodes", stats.LowLevelNodes,
		"max_open_list_size", stats.MaxOpenListSize,
	)

	for i, p := range paths {
		fmt.Printf("agent %d (cost %d):", i, p.Cost())
		for t, pos := range p {
			if t >= *maxPrintSteps {
				fmt.Printf(" ...")
				break
			}
			fmt.Printf(" (%d,%d)", pos.X, pos.Y)
		}
		fmt.Println()
	}
}
