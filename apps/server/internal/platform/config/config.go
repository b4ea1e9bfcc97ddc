// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

// Config holds all settings shared by the server and the snapshot command.
type Config struct {
	GitHub    GitHubConfig
	Server    ServerConfig
	Telemetry TelemetryConfig
	Estimate  EstimateConfig
}

// GitHubConfig holds the credentials and endpoint for the GitHub API.
// Token and Username have no default; their absence is reported by the
// profile service as a ConfigurationError.
type GitHubConfig struct {
	Token    string `env:"GITHUB_TOKEN"`
	Username string `env:"GITHUB_USERNAME"`
	APIURL   string `env:"GITHUB_API_URL"`
	PageSize int    `env:"REPO_PAGE_SIZE"  envDefault:"100"`
}

// ServerConfig holds HTTP and cache settings.
type ServerConfig struct {
	Port      string        `env:"PORT"       envDefault:"8080"`
	RedisAddr string        `env:"REDIS_ADDR"`
	CacheTTL  time.Duration `env:"CACHE_TTL"  envDefault:"5m"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"insights-server"`
}

// EstimateConfig tunes the estimated contribution tier.
type EstimateConfig struct {
	Cutoff time.Time `env:"ESTIMATE_CUTOFF" envDefault:"2024-01-01T00:00:00Z"`
}

// Credentials returns the profile credentials carried by the config.
func (c *Config) Credentials() profile.Credentials {
	return profile.Credentials{Token: c.GitHub.Token, Username: c.GitHub.Username}
}

// Load reads .env (if present) and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
