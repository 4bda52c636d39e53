package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  host: 0.0.0.0
database:
  host: localhost
  port: 5432
  user: vibes
  password: geheim
  dbname: dailyvibes
  sslmode: disable
redis:
  addr: localhost:6379
  device_ttl: 168h
jwt:
  secret: test-secret
challenge:
  timezone: Europe/Berlin
  cron_spec: "0 10 * * *"
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "Europe/Berlin", cfg.Challenge.Timezone)
	assert.Equal(t, "host=localhost port=5432 user=vibes password=geheim dbname=dailyvibes sslmode=disable", cfg.Database.DSN())

	ttl, err := cfg.Redis.TTL()
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, ttl)

	loc, err := cfg.Challenge.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.Challenge.Timezone)
	assert.Equal(t, "0 10 * * *", cfg.Challenge.CronSpec)
	assert.Equal(t, "720h", cfg.Redis.DeviceTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestTTL_Invalid(t *testing.T) {
	c := RedisConfig{DeviceTTL: "30 days"}
	_, err := c.TTL()
	assert.Error(t, err)
}

func TestLocation_Invalid(t *testing.T) {
	c := ChallengeConfig{Timezone: "Mars/Olympus"}
	_, err := c.Location()
	assert.Error(t, err)
}
