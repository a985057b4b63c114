package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.InDelta(t, 0.65, cfg.Normalizer.ConfidenceThreshold, 0.001)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
cache:
  driver: redis
  redis:
    addr: redis.internal:6379
normalizer:
  confidence_threshold: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.Redis.Addr)
	assert.InDelta(t, 0.8, cfg.Normalizer.ConfidenceThreshold, 0.001)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_URL", "sqlite:/tmp/test.db")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.History.SQLite.Path)
	assert.InDelta(t, 0.7, cfg.Normalizer.ConfidenceThreshold, 0.001)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad history driver", func(c *Config) { c.History.Driver = "mysql" }},
		{"bad cache driver", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"bad threshold", func(c *Config) { c.Normalizer.ConfidenceThreshold = 1.5 }},
		{"auth without keys", func(c *Config) { c.Auth.Enabled = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestHistoryDSN(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "/tmp/query-normalizer.db", cfg.HistoryDSN())

	cfg.History.Driver = "postgres"
	cfg.History.Postgres.DSN = "postgres://localhost/qn"
	assert.Equal(t, "postgres://localhost/qn", cfg.HistoryDSN())
}
