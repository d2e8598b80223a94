package solverconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/solverconfig"
)

func TestDefault(t *testing.T) {
	cfg := solverconfig.Default()
	require.Equal(t, 10, cfg.HorizonBuffer)
	require.Equal(t, 3, cfg.DeepeningTries)

	hp := cfg.HorizonPolicy()
	require.Equal(t, 10, hp.Buffer)
	require.Equal(t, 3, hp.DeepeningTries)
}

func TestFromYAML_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("horizon_buffer: 25\n"), 0o644))

	cfg, err := solverconfig.FromYAML(path)
	require.NoError(t, err)
	require.Equal(t, 25, cfg.HorizonBuffer)
	require.Equal(t, 3, cfg.DeepeningTries) // untouched, keeps its default
}

func TestFromYAML_MissingFile(t *testing.T) {
	_, err := solverconfig.FromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
