package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{EnvDataDir, EnvOutDir, EnvSchemasDir, EnvLogLevel, EnvFormats} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "dist", cfg.OutDir)
	assert.Empty(t, cfg.SchemasDir)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Nil(t, cfg.Formats)

	assert.Equal(t, filepath.Join("data", "countries"), cfg.CountriesDir())
	assert.Equal(t, filepath.Join("data", "intblocks"), cfg.IntblocksDir())
	assert.Equal(t, filepath.Join("data", "datasets", "blocktypes.yaml"), cfg.BlocktypesFile())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvDataDir, "/srv/corpus")
	t.Setenv(EnvOutDir, "/srv/out")
	t.Setenv(EnvSchemasDir, "/srv/schemas")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvFormats, "jsonl, parquet,,")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/srv/corpus", cfg.DataDir)
	assert.Equal(t, "/srv/out", cfg.OutDir)
	assert.Equal(t, "/srv/schemas", cfg.SchemasDir)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"jsonl", "parquet"}, cfg.Formats)
}

func TestFromEnvBadLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "loud")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"loud"`)
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}
