package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freshLoader returns a loader on a private viper instance, run from an
// empty working directory so no stray omr.yaml is picked up.
func freshLoader(t *testing.T) *Loader {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return NewLoaderWithViper(viper.New())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := freshLoader(t).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_ConfigFileInWorkingDirectory(t *testing.T) {
	l := freshLoader(t)
	yaml := `
log_level: warn
sheet:
  questions: 30
  choices: 5
decode:
  min_score_choice: 0.04
  seat_convention: ascending-swapped
output:
  dir: out
  overlay_dir: overlays
`
	require.NoError(t, os.WriteFile(ConfigFileName+".yaml", []byte(yaml), 0o644))

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 30, cfg.Sheet.Questions)
	assert.Equal(t, 5, cfg.Sheet.Choices)
	assert.InDelta(t, 0.04, cfg.Decode.MinScoreChoice, 1e-12)
	assert.Equal(t, "ascending-swapped", cfg.Decode.SeatConvention)
	assert.Equal(t, "overlays", cfg.Output.OverlayDir)
	assert.Equal(t, "results.csv", cfg.Output.Results, "unset keys keep defaults")
	assert.Contains(t, l.GetConfigFileUsed(), "omr.yaml")
}

func TestLoadWithFile(t *testing.T) {
	l := freshLoader(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input:\n  dpi: 300\n  source: pdf-images\n"), 0o644))

	cfg, err := l.LoadWithFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, cfg.Input.DPI, 1e-12)
	assert.Equal(t, "pdf-images", cfg.Input.Source)

	_, err = freshLoader(t).LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_InvalidFile(t *testing.T) {
	l := freshLoader(t)
	require.NoError(t, os.WriteFile("omr.yaml", []byte("sheet: [unclosed"), 0o644))
	_, err := l.Load()
	require.Error(t, err)
}

func TestLoad_ValidationFails(t *testing.T) {
	l := freshLoader(t)
	require.NoError(t, os.WriteFile("omr.yaml", []byte("decode:\n  multi_ratio: 2\n"), 0o644))
	_, err := l.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	l := freshLoader(t)
	t.Setenv("OMR_SHEET_QUESTIONS", "12")
	t.Setenv("OMR_DECODE_SEAT_CONVENTION", "legacy-normal")
	t.Setenv("OMR_PARALLEL_MAX_WORKERS", "1")

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Sheet.Questions)
	assert.Equal(t, "legacy-normal", cfg.Decode.SeatConvention)
	assert.Equal(t, 1, cfg.Parallel.MaxWorkers)
}

func TestLoad_LegacyEnvironmentNames(t *testing.T) {
	l := freshLoader(t)
	t.Setenv("ANSWER_SHEET_MIN_SCORE_SEAT", "0.09")
	t.Setenv("ANSWER_SHEET_MIN_SCORE_CHOICE", "0.03")

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.09, cfg.Decode.MinScoreSeat, 1e-12)
	assert.InDelta(t, 0.03, cfg.Decode.MinScoreChoice, 1e-12)
}

func TestLoad_PrefixedNameWinsOverLegacy(t *testing.T) {
	l := freshLoader(t)
	t.Setenv("ANSWER_SHEET_MIN_SCORE_GRADE", "0.2")
	t.Setenv("OMR_DECODE_MIN_SCORE_GRADE", "0.1")

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, cfg.Decode.MinScoreGrade, 1e-12)
}

func TestLoad_VerboseRaisesLogLevel(t *testing.T) {
	l := freshLoader(t)
	l.Set("verbose", true)
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetConfigSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	paths := GetConfigSearchPaths()
	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, "/etc/omr")
	assert.Contains(t, paths, filepath.Join("/xdg", "omr"))
}
