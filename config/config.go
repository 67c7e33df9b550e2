package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"HOST"                    env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"SERVER_REQUEST_TIMEOUT"  env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig selects the store driver and its data source
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite3"`
	DSN    string `yaml:"dsn"    env:"DATABASE_DSN"    env-default:"registry.db"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// AuthConfig holds OpenID Connect settings. Authentication is disabled when
// IssuerURL is empty.
type AuthConfig struct {
	IssuerURL    string `yaml:"issuer_url"    env:"AUTH_ISSUER_URL"`
	ClientID     string `yaml:"client_id"     env:"AUTH_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"AUTH_CLIENT_SECRET"`
	CallbackURL  string `yaml:"callback_url"  env:"AUTH_CALLBACK_URL"`
	UseHTTPS     bool   `yaml:"use_https"     env:"USE_HTTPS"          env-default:"false"`
}

// Enabled reports whether an OpenID provider is configured
func (c AuthConfig) Enabled() bool {
	return c.IssuerURL != ""
}

// RateLimitConfig holds per-client rate limiting settings. A zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"   env:"RATE_LIMIT_RPS"   env-default:"0"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

// Load reads configuration from the environment, an optional .env file and an
// optional YAML file named by CONFIG_PATH. Priority: ENV > YAML > defaults.
func Load() (*Config, error) {
	// A missing .env is fine; the process environment is enough
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded configuration for inconsistent values
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server port %d out of range", c.Server.Port))
	}

	switch c.Database.Driver {
	case "sqlite3", "pgx":
	default:
		errs = append(errs, fmt.Sprintf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, "database DSN is required")
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("unsupported log format %q", c.Log.Format))
	}

	if c.Auth.Enabled() {
		if c.Auth.ClientID == "" {
			errs = append(errs, "auth client ID is required")
		}
		if c.Auth.ClientSecret == "" {
			errs = append(errs, "auth client secret is required")
		}
		if c.Auth.CallbackURL == "" {
			errs = append(errs, "auth callback URL is required")
		}
	}

	if c.RateLimit.RPS < 0 {
		errs = append(errs, "rate limit rps must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		errs = append(errs, "rate limit burst must be positive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
