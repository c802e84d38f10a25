package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues tests that hardcoded defaults are applied correctly.
// It loads from an empty directory so no YAML file interferes.
func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "github-issues", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultBaseURL, cfg.GitHub.BaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.GitHub.UserAgent)
	assert.Equal(t, DefaultTimeout, cfg.GitHub.Timeout)
	assert.Empty(t, cfg.GitHub.Token)
	assert.Equal(t, DefaultTransportConfig(), cfg.Transport)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)

	require.NoError(t, cfg.Validate())
}

// TestLoad_EnvVarOverrides tests that environment variables override
// defaults, including keys containing underscores.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("GHI_GITHUB_BASE_URL", "https://github.example.com/api/v3")
	t.Setenv("GHI_GITHUB_TOKEN", "from-env")
	t.Setenv("GHI_LOG_LEVEL", "warn")
	t.Setenv("GHI_TRANSPORT_IDLE_CONN_TIMEOUT", "10s")
	t.Setenv("GHI_TELEMETRY_ENABLED", "true")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://github.example.com/api/v3", cfg.GitHub.BaseURL)
	assert.Equal(t, "from-env", cfg.GitHub.Token)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.Transport.IdleConnTimeout)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_GitHubTokenFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "gh-env-token")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "gh-env-token", cfg.GitHub.Token)

	t.Setenv("GHI_GITHUB_TOKEN", "preferred")

	cfg, err = LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "preferred", cfg.GitHub.Token)
}

func TestLoad_ProfileFiles(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), `
app:
  environment: dev
github:
  user_agent: base-agent
  timeout: 5s
`)
	writeFile(t, filepath.Join(dir, "enterprise.yaml"), `
github:
  base_url: https://ghe.example.com/api/v3
  login: octocat
  password: pw
`)

	cfg, err := LoadFrom(dir, "enterprise")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Environment)
	assert.Equal(t, "base-agent", cfg.GitHub.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.BaseURL)
	assert.True(t, cfg.GitHub.HasBasicAuth())
	require.NoError(t, cfg.Validate())
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "github-issues", cfg.App.Name)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "github: [unterminated")

	_, err := LoadFrom(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"github.base_url", "log.level"})

	assert.Equal(t, "github.base_url", mapper("GHI_GITHUB_BASE_URL"))
	assert.Equal(t, "log.level", mapper("GHI_LOG_LEVEL"))
	assert.Equal(t, "some.new.key", mapper("GHI_SOME_NEW_KEY"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
