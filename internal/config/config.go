package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	LoginLimit LoginLimitConfig `yaml:"login_limit"`
	Jobs       JobsConfig       `yaml:"jobs"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `yaml:"port"`
	Env            string        `yaml:"env"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string        `yaml:"host"`
	Port      string        `yaml:"port"`
	Namespace string        `yaml:"namespace"`
	Database  string        `yaml:"database"`
	User      string        `yaml:"user"`
	Password  string        `yaml:"password"`
	Breaker   BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds the store circuit breaker settings
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxRequests  uint32        `yaml:"max_requests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	FailureRatio float64       `yaml:"failure_ratio"`
	MinRequests  uint32        `yaml:"min_requests"`
}

// AuthConfig holds token and access control settings
type AuthConfig struct {
	Enabled       bool          `yaml:"enabled"`
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
	CookieSecure  bool          `yaml:"cookie_secure"`
}

// LoginLimitConfig holds the login limiter settings
type LoginLimitConfig struct {
	Attempts int           `yaml:"attempts"`
	Window   time.Duration `yaml:"window"`
}

// JobsConfig holds background job settings. A zero interval disables a job.
type JobsConfig struct {
	OrphanAuditInterval time.Duration `yaml:"orphan_audit_interval"`
}

// Default returns the built-in configuration used for development
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "3500",
			Env:            "development",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "notes",
			Database:  "main",
			User:      "root",
			Password:  "root",
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     30 * time.Second,
				Timeout:      15 * time.Second,
				FailureRatio: 0.6,
				MinRequests:  5,
			},
		},
		Auth: AuthConfig{
			Enabled:       true,
			AccessSecret:  "dev-access-secret",
			RefreshSecret: "dev-refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			CookieSecure:  false,
		},
		LoginLimit: LoginLimitConfig{
			Attempts: 5,
			Window:   60 * time.Second,
		},
		Jobs: JobsConfig{
			OrphanAuditInterval: 10 * time.Minute,
		},
	}
}

// Load builds the configuration from the defaults, then the YAML file named
// by CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.Env = getEnv("SERVER_ENV", c.Server.Env)
	c.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.AllowedOrigins = getSliceEnv("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.Namespace = getEnv("DB_NAMESPACE", c.Database.Namespace)
	c.Database.Database = getEnv("DB_DATABASE", c.Database.Database)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Breaker.Enabled = getBoolEnv("DB_BREAKER_ENABLED", c.Database.Breaker.Enabled)
	c.Database.Breaker.Timeout = getDurationEnv("DB_BREAKER_TIMEOUT", c.Database.Breaker.Timeout)

	c.Auth.Enabled = getBoolEnv("AUTH_ENABLED", c.Auth.Enabled)
	c.Auth.AccessSecret = getEnv("ACCESS_TOKEN_SECRET", c.Auth.AccessSecret)
	c.Auth.RefreshSecret = getEnv("REFRESH_TOKEN_SECRET", c.Auth.RefreshSecret)
	c.Auth.AccessTTL = getDurationEnv("ACCESS_TOKEN_TTL", c.Auth.AccessTTL)
	c.Auth.RefreshTTL = getDurationEnv("REFRESH_TOKEN_TTL", c.Auth.RefreshTTL)
	c.Auth.CookieSecure = getBoolEnv("AUTH_COOKIE_SECURE", c.Auth.CookieSecure)

	c.LoginLimit.Attempts = getIntEnv("LOGIN_LIMIT_ATTEMPTS", c.LoginLimit.Attempts)
	c.LoginLimit.Window = getDurationEnv("LOGIN_LIMIT_WINDOW", c.LoginLimit.Window)

	c.Jobs.OrphanAuditInterval = getDurationEnv("ORPHAN_AUDIT_INTERVAL", c.Jobs.OrphanAuditInterval)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}
	if b := c.Database.Breaker; b.Enabled {
		if b.FailureRatio <= 0 || b.FailureRatio > 1 {
			errs = append(errs, fmt.Errorf("breaker failure_ratio must be in (0, 1], got %v", b.FailureRatio))
		}
		if b.Timeout <= 0 {
			errs = append(errs, errors.New("DB_BREAKER_TIMEOUT must be positive"))
		}
	}

	// Auth validation - secrets are critical in production
	if c.Auth.AccessSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.Auth.RefreshSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
	}
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if c.IsProduction() {
		if strings.HasPrefix(c.Auth.AccessSecret, "dev-") || strings.HasPrefix(c.Auth.RefreshSecret, "dev-") {
			errs = append(errs, errors.New("development token secrets are not allowed in production"))
		}
		if !c.Auth.CookieSecure {
			errs = append(errs, errors.New("AUTH_COOKIE_SECURE must be true in production"))
		}
	}
	if c.Auth.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.RefreshTTL <= c.Auth.AccessTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL"))
	}

	// Login limiter validation
	if c.LoginLimit.Attempts <= 0 {
		errs = append(errs, errors.New("LOGIN_LIMIT_ATTEMPTS must be positive"))
	}
	if c.LoginLimit.Window <= 0 {
		errs = append(errs, errors.New("LOGIN_LIMIT_WINDOW must be positive"))
	}

	if c.Jobs.OrphanAuditInterval < 0 {
		errs = append(errs, errors.New("ORPHAN_AUDIT_INTERVAL must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
