package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterwise-login/config"
	"waterwise-login/login"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, config.TransportHTTP, cfg.Transport.Kind)
	assert.Equal(t, login.DefaultConfig(), cfg.LoginSettings())
	assert.False(t, cfg.Server.Security.CSRFEnabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("TEST_KRATOS_URL", "http://kratos:4433")
	path := writeConfig(t, `
server:
  addr: ":9090"
  security:
    csrf_enabled: true
    csrf_secret: "0123456789abcdef0123456789abcdef"
login:
  redirect_target: /reports
transport:
  kind: kratos
  kratos_public_url: ${TEST_KRATOS_URL}
  timeout: 5s
  retry_max: 2
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Server.Security.CSRFEnabled)
	assert.Equal(t, "/reports", cfg.Login.RedirectTarget)
	assert.Equal(t, "/register", cfg.Login.SignupLink)
	assert.Equal(t, config.TransportKratos, cfg.Transport.Kind)
	assert.Equal(t, "http://kratos:4433", cfg.Transport.KratosPublicURL)
	assert.Equal(t, 5*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, 2, cfg.Transport.RetryMax)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LOGIN_ENDPOINT", "https://auth.example.com/api/login")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com/api/login", cfg.Transport.Endpoint)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	_, err = config.Load(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *config.Config)
		expectError string
	}{
		{
			name:        "missing addr",
			mutate:      func(c *config.Config) { c.Server.Addr = "" },
			expectError: "server.addr is required",
		},
		{
			name: "short csrf secret",
			mutate: func(c *config.Config) {
				c.Server.Security.CSRFEnabled = true
				c.Server.Security.CSRFSecret = "too-short"
			},
			expectError: "csrf_secret must be exactly 32 bytes",
		},
		{
			name:        "missing redirect target",
			mutate:      func(c *config.Config) { c.Login.RedirectTarget = "" },
			expectError: "login.redirect_target is required",
		},
		{
			name:        "relative redirect target",
			mutate:      func(c *config.Config) { c.Login.RedirectTarget = "dashboard" },
			expectError: "must be a path starting with /",
		},
		{
			name:        "relative endpoint",
			mutate:      func(c *config.Config) { c.Transport.Endpoint = "/api/login" },
			expectError: "transport.endpoint must be an absolute http(s) URL",
		},
		{
			name: "kratos without url",
			mutate: func(c *config.Config) {
				c.Transport.Kind = config.TransportKratos
				c.Transport.KratosPublicURL = ""
			},
			expectError: "transport.kratos_public_url must be an absolute http(s) URL",
		},
		{
			name:        "unknown transport",
			mutate:      func(c *config.Config) { c.Transport.Kind = "grpc" },
			expectError: "transport.kind must be",
		},
		{
			name:        "negative retries",
			mutate:      func(c *config.Config) { c.Transport.RetryMax = -1 },
			expectError: "retry_max must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	require.NoError(t, config.Default().Validate())
}
