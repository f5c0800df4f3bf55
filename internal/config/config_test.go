package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Lease.DecisionTimeout)
	assert.Equal(t, "resident", cfg.Lease.StarterRole)
	assert.Equal(t, 10, cfg.RateLimit.LeaseCreatePerMinute)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "/tmp/residence.db")
	t.Setenv("LEASE_DECISION_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_LEASE_CREATE_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/residence.db", cfg.Database.DSN())
	assert.Equal(t, 3*time.Second, cfg.Lease.DecisionTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimit.LeaseCreateBurst)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: "production",
			Database:    DatabaseConfig{Driver: "postgres", Password: "s3cret"},
			JWT:         JWTConfig{SecretKey: "rotated"},
			Lease:       LeaseConfig{DecisionTimeout: time.Second, StarterRole: "resident"},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"default secret in production": func(c *Config) { c.JWT.SecretKey = defaultJWTSecret },
		"unknown driver":               func(c *Config) { c.Database.Driver = "mysql" },
		"empty password in production": func(c *Config) { c.Database.Password = "" },
		"non resident starter role":    func(c *Config) { c.Lease.StarterRole = "owner" },
		"zero decision timeout":        func(c *Config) { c.Lease.DecisionTimeout = 0 },
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestDatabaseConfig_PostgresDSN(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "app", Password: "pw", Database: "residence", SSLMode: "disable"}
	dsn := cfg.DSN()

	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "dbname=residence")
	assert.Contains(t, dsn, "sslmode=disable")
}
