package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "  gsk-test  ")
	t.Setenv(EnvModel, "llama-3.1-8b-instant")
	t.Setenv(EnvBaseURL, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gsk-test", cfg.APIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Model)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTopK, cfg.Tools.TopK)
	assert.Equal(t, DefaultMaxChars, cfg.Tools.MaxChars)
	require.NoError(t, Validate(cfg))
}

func TestValidateMissingAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "   ")

	cfg, err := Load("")
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestLoadMergesYAMLFile(t *testing.T) {
	t.Setenv(EnvAPIKey, "key")
	t.Setenv(EnvModel, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "research.yaml")
	content := `
model: "mixtral-8x7b-32768"
max_turns: 4
model_rps: 0.5
graph_output: ""
tools:
  top_k: 2
  max_chars: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mixtral-8x7b-32768", cfg.Model)
	assert.Equal(t, 4, cfg.MaxTurns)
	assert.Equal(t, 0.5, cfg.ModelRPS)
	assert.Equal(t, "", cfg.GraphOutput)
	assert.Equal(t, 2, cfg.Tools.TopK)
	assert.Equal(t, 500, cfg.Tools.MaxChars)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestNormalizeClampsBounds(t *testing.T) {
	cfg := Normalize(Config{MaxTurns: -1, Model: " m ", ModelRPS: -2})
	assert.Zero(t, cfg.ModelRPS)
	assert.Equal(t, 1, cfg.MaxTurns)
	assert.Equal(t, DefaultTopK, cfg.Tools.TopK)
	assert.Equal(t, DefaultMaxChars, cfg.Tools.MaxChars)
	assert.Equal(t, "m", cfg.Model)
}
