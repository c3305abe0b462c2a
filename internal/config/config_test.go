package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEnv(vars map[string]string) (*Config, error) {
	return Parse(env.Options{Environment: vars})
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parseEnv(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppMode)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "crm-leads", cfg.JWT.Issuer)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TTL())
	assert.Equal(t, devJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "admin@digitalbuddiess.com", cfg.Admin.Email)
	assert.Equal(t, "admin123", cfg.Admin.Password)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.True(t, cfg.IsDev())
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parseEnv(map[string]string{
		"APP_MODE":         "prod",
		"PORT":             "8080",
		"DB_DRIVER":        "Memory",
		"JWT_SECRET":       "s3cret",
		"JWT_EXPIRY_HOURS": "2",
		"ALLOWED_ORIGINS":  "https://crm.example.com",
		"REDIS_ADDR":       "localhost:6379",
		"REDIS_DB":         "3",
		"LOG_FORMAT":       "console",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL())
	assert.Equal(t, "https://crm.example.com", cfg.GetAllowedOrigins())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"app mode":       {"APP_MODE": "staging"},
		"driver":         {"DB_DRIVER": "mongo"},
		"expiry":         {"JWT_EXPIRY_HOURS": "0"},
		"expiry not int": {"JWT_EXPIRY_HOURS": "soon"},
		"prod no secret": {"APP_MODE": "prod"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseEnv(vars)
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "3307", User: "crm", Password: "pw", DBName: "leads"}
	assert.Equal(t, "crm:pw@tcp(db:3307)/leads?charset=utf8mb4&parseTime=True&loc=UTC", d.BuildDSN())

	d.DSN = "custom"
	assert.Equal(t, "custom", d.BuildDSN())
}
