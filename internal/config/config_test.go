package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "./web", cfg.StaticDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "medium", cfg.DefaultDifficulty)
	assert.Equal(t, "500", cfg.AIDelay)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Redis.ConnString)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
	assert.False(t, cfg.Telemetry.StdoutTraces)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("API_KEY", "secret")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DEFAULT_DIFFICULTY", "hard")
	t.Setenv("AI_DELAY", "1200")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("REDIS_CONNSTRING", "redis://localhost:6379/0")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "hard", cfg.DefaultDifficulty)
	assert.Equal(t, "1200", cfg.AIDelay)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.ConnString)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
}

func TestLoad_FileWithEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "4000"
static-dir: /srv/web
default-difficulty: easy
redis:
  conn-string: redis:6379
telemetry:
  service-version: v1.2.3
`), 0o600))
	t.Setenv("PORT", "5000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "/srv/web", cfg.StaticDir)
	assert.Equal(t, "easy", cfg.DefaultDifficulty)
	assert.Equal(t, "redis:6379", cfg.Redis.ConnString)
	assert.Equal(t, "v1.2.3", cfg.Telemetry.ServiceVersion)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Non-numeric port", key: "PORT", value: "http"},
		{name: "Unknown log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "Unknown difficulty", key: "DEFAULT_DIFFICULTY", value: "impossible"},
		{name: "Unparseable timeout", key: "SHUTDOWN_TIMEOUT", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestUsage(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "PORT")
	assert.Contains(t, usage, "REDIS_CONNSTRING")
}
