package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.OutlierThreshold)
	assert.Equal(t, 0.2, c.TestRatio)
	assert.Equal(t, int64(42), c.Seed)
	assert.Equal(t, 20, c.HistBins)
	assert.Equal(t, "info", c.LogLevel)
	assert.Contains(t, c.NullTokens, "NA")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EDAKIT_OUTLIER_THRESHOLD", "2.5")
	t.Setenv("EDAKIT_LOG_LEVEL", "debug")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.OutlierThreshold)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "cfg.yaml")

	c, err := Load("")
	require.NoError(t, err)
	c.Seed = 7
	c.OutputDir = "reports"
	require.NoError(t, Save(c, path))

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Seed)
	assert.Equal(t, "reports", got.OutputDir)
}

func TestValidateRejectsBadRatio(t *testing.T) {
	c := &Global{OutlierThreshold: 3, TestRatio: 1.5, HistBins: 10}
	assert.Error(t, c.Validate())
	c.TestRatio = 0.25
	assert.NoError(t, c.Validate())
}

func TestDefaultMatchesLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.NoError(t, Default().Validate())
}
