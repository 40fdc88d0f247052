package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"waterwise-login/login"
)

// Transport kinds.
const (
	TransportHTTP   = "http"
	TransportKratos = "kratos"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Login     LoginConfig     `yaml:"login"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string         `yaml:"addr"`
	BaseURL         string         `yaml:"base_url"` // absolute origin used by the terminal client to print redirects
	ReadTimeout     time.Duration  `yaml:"read_timeout"`
	WriteTimeout    time.Duration  `yaml:"write_timeout"`
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout"`
	Security        SecurityConfig `yaml:"security"`
}

// SecurityConfig contains CSRF settings for the login form
type SecurityConfig struct {
	CSRFEnabled  bool   `yaml:"csrf_enabled"`
	CSRFSecret   string `yaml:"csrf_secret"`
	CookieSecure bool   `yaml:"cookie_secure"`
}

// LoginConfig holds the fixed destinations of the login form
type LoginConfig struct {
	RedirectTarget string `yaml:"redirect_target"`
	SignupLink     string `yaml:"signup_link"`
}

// TransportConfig selects and tunes the authentication backend
type TransportConfig struct {
	Kind            string        `yaml:"kind"` // "http" or "kratos"
	Endpoint        string        `yaml:"endpoint"`
	KratosPublicURL string        `yaml:"kratos_public_url"`
	Timeout         time.Duration `yaml:"timeout"`
	RetryMax        int           `yaml:"retry_max"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	lc := login.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BaseURL:         "http://127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Login: LoginConfig{
			RedirectTarget: lc.RedirectTarget,
			SignupLink:     lc.SignupLink,
		},
		Transport: TransportConfig{
			Kind:            TransportHTTP,
			Endpoint:        "http://127.0.0.1:8080/api/login",
			KratosPublicURL: "http://127.0.0.1:4433",
			Timeout:         15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified file path on top of the
// defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the config
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables if set
	if endpoint := os.Getenv("LOGIN_ENDPOINT"); endpoint != "" {
		cfg.Transport.Endpoint = endpoint
	}
	if secret := os.Getenv("CSRF_SECRET"); secret != "" {
		cfg.Server.Security.CSRFSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.Security.CSRFEnabled && len(c.Server.Security.CSRFSecret) != 32 {
		return fmt.Errorf("server.security.csrf_secret must be exactly 32 bytes when csrf is enabled")
	}

	if c.Login.RedirectTarget == "" {
		return fmt.Errorf("login.redirect_target is required")
	}
	if !strings.HasPrefix(c.Login.RedirectTarget, "/") {
		return fmt.Errorf("login.redirect_target must be a path starting with /")
	}

	switch c.Transport.Kind {
	case TransportHTTP:
		if err := requireAbsoluteURL("transport.endpoint", c.Transport.Endpoint); err != nil {
			return err
		}
	case TransportKratos:
		if err := requireAbsoluteURL("transport.kratos_public_url", c.Transport.KratosPublicURL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("transport.kind must be %q or %q", TransportHTTP, TransportKratos)
	}
	if c.Transport.RetryMax < 0 {
		return fmt.Errorf("transport.retry_max must not be negative")
	}
	if c.Transport.Timeout < 0 {
		return fmt.Errorf("transport.timeout must not be negative")
	}

	return nil
}

// LoginSettings returns the destinations in the form the controller takes.
func (c *Config) LoginSettings() login.Config {
	return login.Config{
		RedirectTarget: c.Login.RedirectTarget,
		SignupLink:     c.Login.SignupLink,
	}
}

func requireAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", field)
	}
	return nil
}
