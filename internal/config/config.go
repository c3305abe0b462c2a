package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string `env:"APP_MODE" envDefault:"dev"`
	Port           string `env:"PORT" envDefault:"3001"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	Database       DatabaseConfig
	Redis          RedisConfig
	JWT            JWTConfig
	Log            LogConfig
	Admin          AdminConfig

	// DotEnvLoaded reports whether a .env file was found
	DotEnvLoaded bool `env:"-"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASS"`
	DBName   string `env:"DB_NAME" envDefault:"crm_leads"`
}

// RedisConfig holds the optional token denylist store
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// JWTConfig holds credential signing configuration
type JWTConfig struct {
	Secret      string `env:"JWT_SECRET"`
	Issuer      string `env:"JWT_ISSUER" envDefault:"crm-leads"`
	ExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"168"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AdminConfig holds the default admin account created by provisioning
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@digitalbuddiess.com"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

const devJWTSecret = "dev-only-jwt-secret"

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; production reads the real environment
	loaded := godotenv.Load() == nil

	cfg, err := Parse(env.Options{})
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = loaded
	return cfg, nil
}

// Parse decodes and validates configuration using opts (opts.Environment
// replaces the process environment when set)
func Parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg.AppMode = strings.TrimSpace(cfg.AppMode)
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AppMode != "dev" && c.AppMode != "prod" {
		return fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", c.AppMode)
	}
	if c.Database.Driver != DriverMySQL && c.Database.Driver != DriverMemory {
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'memory')", c.Database.Driver)
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	if c.JWT.Secret == "" {
		if c.IsProd() {
			return errors.New("JWT_SECRET is required in prod mode")
		}
		c.JWT.Secret = devJWTSecret
	}
	return nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return c.AllowedOrigins
}

// TTL returns how long an issued credential stays valid
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}
