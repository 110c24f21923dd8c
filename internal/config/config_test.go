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

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
	assert.Less(t, cfg.Server.RequestTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, StoreDriverFixtures, cfg.Store.Driver)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.View.SessionTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("VIEW_SESSION_TTL", "90m")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.NATS.Enabled)
	assert.Equal(t, 90*time.Minute, cfg.View.SessionTTL)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("VIEW_SWEEP_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.View.SweepInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "store driver", key: "STORE_DRIVER", value: "mongo"},
		{name: "log level", key: "LOG_LEVEL", value: "chatty"},
		{name: "log format", key: "LOG_FORMAT", value: "xml"},
		{name: "port", key: "SERVER_PORT", value: "70000"},
		{name: "metrics path", key: "METRICS_PATH", value: "metrics"},
		{name: "request timeout past write deadline", key: "SERVER_REQUEST_TIMEOUT", value: "10s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_RequestTimeoutWithoutWriteDeadline(t *testing.T) {
	t.Setenv("SERVER_WRITE_TIMEOUT", "0s")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Server.RequestTimeout)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5433, Database: "w3", SSLMode: "require"}

	assert.Equal(t, "postgres://u:p@db:5433/w3?sslmode=require", cfg.DSN())
}
