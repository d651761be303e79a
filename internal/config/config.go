package config

import (
	"fmt"
	"strings"

	"github.com/2beens/gymprogress/internal/progression"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	ComputeRateLimitAllowedPerMin int `toml:"compute_rate_limit_allowed_per_min"`

	Progression *progression.Bounds `toml:"progression"`
}

// ProgressionBounds returns the configured bounds, or the defaults
// when the config has no progression table.
func (c *Config) ProgressionBounds() (progression.Bounds, error) {
	if c.Progression == nil {
		return progression.DefaultBounds(), nil
	}
	if err := c.Progression.Validate(); err != nil {
		return progression.Bounds{}, err
	}
	return *c.Progression, nil
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}

	return cfg, nil
}

func Load(env string, path string) (*Config, error) {
	var cfgToml Toml
	if _, err := toml.DecodeFile(path, &cfgToml); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := cfgToml.Get(env)
	if err != nil {
		return nil, err
	}

	if cfg.ComputeRateLimitAllowedPerMin <= 0 {
		cfg.ComputeRateLimitAllowedPerMin = DefaultComputeRateLimitAllowedPerMin
	}

	return cfg, nil
}

const DefaultComputeRateLimitAllowedPerMin = 60
