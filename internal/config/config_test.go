package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timetabler_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 50, cfg.Search.PopulationSize)
	assert.Equal(t, 2, cfg.Search.EliteCount)
}

func TestLoadFromPathOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
search:
  populationSize: 80
  maxGenerations: 500
  crossoverRate: 0.85
  mutationRate: 0.1
  eliteCount: 4
  tournamentSize: 5
  seed: 1234
  timeLimit: 90s
outputDir: /tmp/runs
databaseURL: postgres://localhost/timetabler
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Search.PopulationSize)
	assert.Equal(t, 500, cfg.Search.MaxGenerations)
	assert.Equal(t, int64(1234), cfg.Search.Seed)
	assert.Equal(t, "/tmp/runs", cfg.OutputDir)
	assert.Equal(t, "postgres://localhost/timetabler", cfg.DatabaseURL)

	limit, err := cfg.Search.TimeLimitDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, limit)
}

func TestLoadFromPathKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeConfig(t, `
search:
  populationSize: 30
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Search.PopulationSize)
	assert.Equal(t, 200, cfg.Search.MaxGenerations)
	assert.Equal(t, 0.9, cfg.Search.CrossoverRate)
}

func TestValidateRejectsEliteCountAtPopulationSize(t *testing.T) {
	cfg := Default()
	cfg.Search.EliteCount = cfg.Search.PopulationSize
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsBadTimeLimit(t *testing.T) {
	cfg := Default()
	cfg.Search.TimeLimit = "ninety seconds"
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsOutOfRangeRates(t *testing.T) {
	cfg := Default()
	cfg.Search.MutationRate = 1.5
	require.Error(t, Validate(cfg))
}

func TestLoadFromPathRejectsMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
