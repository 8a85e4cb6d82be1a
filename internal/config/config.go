package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Reports   ReportsConfig   `yaml:"reports"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file instead of the console.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	// Mode is "http" or "stdio".
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// Mode is "api_key" or "jwt".
	Mode      string `yaml:"mode"`
	JWTSecret string `yaml:"jwt_secret"`
	// Tenant is used for every request when auth is disabled.
	Tenant string `yaml:"tenant"`
}

type ReportsConfig struct {
	HealthCacheTTL       time.Duration `yaml:"health_cache_ttl"`
	AggregateConcurrency int           `yaml:"aggregate_concurrency"`
	// Timezone decides "today" for overdue and snapshot dates.
	Timezone string `yaml:"timezone"`
}

// Location resolves the reports timezone.
func (r ReportsConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reports timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 30 * time.Second,
		},
		DB: DBConfig{
			Path: "costwatch.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
			Mode:    "api_key",
			Tenant:  "default",
		},
		Reports: ReportsConfig{
			HealthCacheTTL:       5 * time.Minute,
			AggregateConcurrency: 4,
			Timezone:             "UTC",
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables, in increasing precedence.
func Load() (Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("COSTWATCH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("COSTWATCH_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("COSTWATCH_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid COSTWATCH_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("COSTWATCH_SERVER_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid COSTWATCH_SERVER_REQUEST_TIMEOUT: %w", err)
		}
		cfg.Server.RequestTimeout = d
	}
	if dbPath := os.Getenv("COSTWATCH_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("COSTWATCH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("COSTWATCH_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("COSTWATCH_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if v := os.Getenv("COSTWATCH_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COSTWATCH_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if mode := os.Getenv("COSTWATCH_AUTH_MODE"); mode != "" {
		cfg.Auth.Mode = mode
	}
	if secret := os.Getenv("COSTWATCH_AUTH_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if tenant := os.Getenv("COSTWATCH_AUTH_TENANT"); tenant != "" {
		cfg.Auth.Tenant = tenant
	}
	if v := os.Getenv("COSTWATCH_REPORTS_HEALTH_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid COSTWATCH_REPORTS_HEALTH_CACHE_TTL: %w", err)
		}
		cfg.Reports.HealthCacheTTL = d
	}
	if v := os.Getenv("COSTWATCH_REPORTS_AGGREGATE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COSTWATCH_REPORTS_AGGREGATE_CONCURRENCY: %w", err)
		}
		cfg.Reports.AggregateConcurrency = n
	}
	if tz := os.Getenv("COSTWATCH_REPORTS_TIMEZONE"); tz != "" {
		cfg.Reports.Timezone = tz
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Auth.Enabled {
		switch c.Auth.Mode {
		case "api_key":
		case "jwt":
			if c.Auth.JWTSecret == "" {
				return fmt.Errorf("auth mode jwt requires auth.jwt_secret")
			}
		default:
			return fmt.Errorf("invalid auth mode %q", c.Auth.Mode)
		}
	}
	if c.Reports.HealthCacheTTL < 0 {
		return fmt.Errorf("reports.health_cache_ttl must not be negative")
	}
	if _, err := c.Reports.Location(); err != nil {
		return err
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
