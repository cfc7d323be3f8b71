package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, 25, cfg.Server.RateLimit.MaxRequests)
	require.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.True(t, cfg.Monitoring.Health.Enabled)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "taskdeck-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 10, cfg.Auth.BcryptCost)

	require.Equal(t, "root@taskdeck.local", cfg.Seed.AdminEmail)
	require.False(t, cfg.Maintenance.Enabled)
	require.Equal(t, 14, cfg.Maintenance.AuditRetentionDays)

	conn := cfg.Database.ConnectionConfig()
	require.Equal(t, "postgres", conn.Driver)
	require.Equal(t, "db.example.com", conn.Host)
	require.Equal(t, "taskdeck", conn.Name)

	seed := cfg.DatabaseSeedConfig()
	require.Equal(t, "root@taskdeck.local", seed.AdminEmail)
	require.Equal(t, 10, seed.BcryptCost)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TASKDECK_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("TASKDECK_SERVER_PORT", "7777")
	t.Setenv("TASKDECK_SEED_ADMIN_PASSWORD", "env-password")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 7777, cfg.Server.Port)
	require.Equal(t, "env-password", cfg.DatabaseSeedConfig().AdminPassword)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 100, cfg.Server.RateLimit.MaxRequests)
	require.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 12, cfg.Auth.BcryptCost)
	require.Equal(t, 90, cfg.Maintenance.AuditRetentionDays)
}
