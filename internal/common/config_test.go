package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndFloors(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("INTAKE_WORKERS", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	require.Equal(t, time.Second/3, cfg.LLM.MinRequestInterval)
	require.Equal(t, 14, cfg.Snippet.MaxLines)
	require.Equal(t, 1400, cfg.Snippet.MaxChars)
	require.Equal(t, "eng", cfg.OCR.Language)
	require.Positive(t, cfg.Workers)
}

func TestNormalizeClampsFloors(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.Timeout = 5 * time.Second
	cfg.Snippet.MaxLines = 2
	cfg.Snippet.MaxChars = 100
	cfg.Normalize()

	require.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 6, cfg.Snippet.MaxLines)
	require.Equal(t, 500, cfg.Snippet.MaxChars)
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  path: /in
output:
  path: /out/batch.json
llm:
  model: file-model
workers: 2
`), 0o644))

	t.Setenv("OPENAI_MODEL", "env-model")
	t.Setenv("OPENAI_API_KEY", "k")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/in", cfg.Input.Path)
	require.Equal(t, "env-model", cfg.LLM.Model, "environment wins over the file")
	require.Equal(t, 2, cfg.Workers)
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiredFields(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Error(t, cfg.Validate(), "input path missing")

	cfg.Input.Path = "/in"
	require.Error(t, cfg.Validate(), "output path missing")

	cfg.Output.Path = "/out/batch.json"
	require.Error(t, cfg.Validate(), "api key missing")

	cfg.LLM.APIKey = "k"
	require.NoError(t, cfg.Validate())
}
