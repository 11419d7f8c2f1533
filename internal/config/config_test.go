package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/catalog.json", cfg.Catalog.Path)
	assert.Equal(t, "exact", cfg.Catalog.DefaultMode)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 1024, cfg.Cache.MaxEntries)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)

	require.NoError(t, m.Validate())
}

func TestValidate(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func()
	}{
		{"invalid port", func() { m.config.Server.Port = -1 }},
		{"missing catalog path", func() { m.config.Catalog.Path = "" }},
		{"invalid default mode", func() { m.config.Catalog.DefaultMode = "fuzzy" }},
		{"invalid cache backend", func() { m.config.Cache.Backend = "memcached" }},
		{"redis backend without URL", func() {
			m.config.Cache.Backend = "redis"
			m.config.Cache.RedisURL = ""
		}},
		{"non-positive cache size", func() { m.config.Cache.MaxEntries = 0 }},
		{"history enabled without path", func() {
			m.config.History.Enabled = true
			m.config.History.Path = ""
		}},
		{"invalid log level", func() { m.config.Logging.Level = "verbose" }},
		{"non-positive rate limit", func() {
			m.config.RateLimit.Enabled = true
			m.config.RateLimit.RequestsPerSecond = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, m.Reload())
			tt.mutate()
			assert.Error(t, m.Validate())
		})
	}
}
