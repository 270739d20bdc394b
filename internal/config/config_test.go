package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpec(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1000, cfg.Solver.MaxOuterPasses)
	assert.Equal(t, []int{128, 256, 512}, cfg.Vectorizer.Widths)
	assert.Equal(t, 4, cfg.Vectorizer.MinSequenceLength)
}

func TestLoadFillsDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "core.yaml")
	require.NoError(t, os.WriteFile(path, []byte("smt:\n  enabled: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.SMT.Enabled)
	assert.Equal(t, 1000, cfg.Solver.MaxOuterPasses)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
