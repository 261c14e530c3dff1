package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// When: no config file exists
	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

	// Then: defaults are used
	require.NoError(t, err)
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, "9090", conf.HTTPPort)
	assert.Equal(t, StoreMemory, conf.SessionStore)
	assert.Equal(t, 24*time.Hour, conf.SessionTTL)
	assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
log-level: debug
http-port: "8081"
session-store: redis
session-ttl: 30m
redis:
  host: cache
  port: "6380"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	conf, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "8081", conf.HTTPPort)
	assert.Equal(t, StoreRedis, conf.SessionStore)
	assert.Equal(t, 30*time.Minute, conf.SessionTTL)
	assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("http-port: \"8081\"\n"), 0o600))
	t.Setenv("HTTP_PORT", "7000")

	conf, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "7000", conf.HTTPPort)
}

func TestLoadUnknownStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "sqlite")

	_, err := Load("")

	require.ErrorIs(t, err, ErrUnknownStore)
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("SESSION_STORE", "sqlite")

	assert.Panics(t, func() { MustLoad("") })
}
