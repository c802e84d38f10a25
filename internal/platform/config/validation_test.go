package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "github-issues",
			Version:     "1.0.0",
			Environment: "local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com",
			Token:     "s3cr3t",
			UserAgent: "go-github-issues",
			Timeout:   30 * time.Second,
		},
		Transport: DefaultTransportConfig(),
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "missing app name",
			modify:  func(c *Config) { c.App.Name = "" },
			wantErr: "app.name is required",
		},
		{
			name:    "invalid environment",
			modify:  func(c *Config) { c.App.Environment = "staging" },
			wantErr: "app.environment must be one of",
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level must be one of",
		},
		{
			name:    "trace log level accepted",
			modify:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "",
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format must be one of",
		},
		{
			name:    "log file enabled without path",
			modify:  func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} },
			wantErr: "log.file.path is required when",
		},
		{
			name:    "telemetry enabled without endpoint",
			modify:  func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "x"} },
			wantErr: "telemetry.endpoint is required when",
		},
		{
			name:    "sampling rate above one",
			modify:  func(c *Config) { c.Telemetry.SamplingRate = 1.5 },
			wantErr: "telemetry.sampling_rate must be at most 1",
		},
		{
			name:    "base url not a url",
			modify:  func(c *Config) { c.GitHub.BaseURL = "api.github.com" },
			wantErr: "github.base_url",
		},
		{
			name:    "base url not http",
			modify:  func(c *Config) { c.GitHub.BaseURL = "ftp://api.github.com" },
			wantErr: "github.base_url must start with \"http\"",
		},
		{
			name:    "login without password",
			modify:  func(c *Config) { c.GitHub.Login = "octocat" },
			wantErr: "github.password is required when",
		},
		{
			name:    "password without login",
			modify:  func(c *Config) { c.GitHub.Password = "pw" },
			wantErr: "github.login is required when",
		},
		{
			name:    "timeout too small",
			modify:  func(c *Config) { c.GitHub.Timeout = time.Millisecond },
			wantErr: "github.timeout must be at least 1s",
		},
		{
			name:    "missing user agent",
			modify:  func(c *Config) { c.GitHub.UserAgent = "" },
			wantErr: "github.user_agent is required",
		},
		{
			name:    "transport pool empty",
			modify:  func(c *Config) { c.Transport.MaxIdleConns = 0 },
			wantErr: "transport.max_idle_conns is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "invalid"},
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "app.name")
	assert.Contains(t, errStr, "app.version")
	assert.Contains(t, errStr, "config validation failed")
}

func TestGitHubConfig_HasBasicAuth(t *testing.T) {
	assert.True(t, GitHubConfig{Login: "octocat", Password: "pw"}.HasBasicAuth())
	assert.False(t, GitHubConfig{Login: "octocat", Password: "pw", Token: "t"}.HasBasicAuth())
	assert.False(t, GitHubConfig{Login: "octocat"}.HasBasicAuth())
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.github.base_url", "github.base_url"},
		{"Config.app.name", "app.name"},
		{"Config.log.file.path", "log.file.path"},
		{"Name", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}
