package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	d := Defaults()
	assert.NoError(t, d.Validate())
	assert.Equal(t, "mock", d.EmbeddingProvider)
	assert.Equal(t, 384, d.EmbeddingDimensions)
}

func TestLoadWithNoOverridesReturnsDefaults(t *testing.T) {
	t.Setenv("LMFETCH_CONFIG_FILE", "")
	t.Setenv("LMFETCH_EMBEDDING_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().EmbeddingProvider, cfg.EmbeddingProvider)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("LMFETCH_EMBEDDING_PROVIDER", "anthropic")
	t.Setenv("LMFETCH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.EmbeddingProvider)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFileOverridesDefaultsButEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lmfetch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedding_provider: file-provider\nlog_level: warn\n"), 0o644))

	t.Setenv("LMFETCH_CONFIG_FILE", path)
	t.Setenv("LMFETCH_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-provider", cfg.EmbeddingProvider, "file should override default")
	assert.Equal(t, "error", cfg.LogLevel, "env should override file")
}

func TestLoadReturnsErrorForUnreadableConfigFile(t *testing.T) {
	t.Setenv("LMFETCH_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEnvDimensionsOverride(t *testing.T) {
	t.Setenv("LMFETCH_EMBEDDING_DIMENSIONS", "768")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 768, cfg.EmbeddingDimensions)
}

func TestLoadEnvSentryDSNEnablesSentry(t *testing.T) {
	t.Setenv("LMFETCH_SENTRY_DSN", "https://example.invalid/1")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, "https://example.invalid/1", cfg.SentryDSN)
}

func TestValidateRejectsEmptyCacheDir(t *testing.T) {
	cfg := Defaults()
	cfg.CacheDir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveDimensions(t *testing.T) {
	cfg := Defaults()
	cfg.EmbeddingDimensions = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	cfg := Defaults()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())
}
