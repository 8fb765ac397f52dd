package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090
public_base_url = "https://turnos.example.com"

[database]
host = "db"
dbname = "turnero_test"

[availability]
max_booking_days = 14

[rate_limit]
backend = "redis"
limit = 50
`

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "https://turnos.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, 14, cfg.Availability.MaxBookingDays)
	assert.Equal(t, 5, cfg.Availability.SlotIntervalMinutes)
	assert.Equal(t, 60, cfg.Availability.MinLeadTimeMinutes)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, 50, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, 3, cfg.Webhooks.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Webhooks.Timeout())
	assert.Equal(t, time.Second, cfg.Webhooks.BackoffStep())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("WEBHOOK_MASTER_SECRET", "master")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "master", cfg.Webhooks.MasterSecret)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
	assert.Contains(t, cfg.Database.DSN(), "host=db")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"zero interval", func(c *Config) { c.Availability.SlotIntervalMinutes = 0 }},
		{"unknown timezone", func(c *Config) { c.Availability.DefaultTimezone = "Mars/Olympus" }},
		{"zero attempts", func(c *Config) { c.Webhooks.MaxAttempts = 0 }},
		{"unknown backend", func(c *Config) { c.RateLimit.Backend = "memcached" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, Default().Validate())
}
