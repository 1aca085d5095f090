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
	t.Setenv("INVEST_TOKEN", "t.secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "t.secret", cfg.Invest.Token)
	assert.Equal(t, defaultInvestEndpoint, cfg.Invest.Endpoint)
	assert.Equal(t, 4, cfg.Fetch.Sessions)
	assert.Equal(t, "file", cfg.Fetch.Strategy)
	assert.Equal(t, SinkCSV, cfg.Sink.Kind)
	assert.Equal(t, "data", cfg.Sink.OutputDir)
	assert.Equal(t, "marketdata.history", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 1000, cfg.RabbitMQ.BatchSize)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INVEST_TOKEN", "t.secret")
	t.Setenv("FEED_SESSIONS", "8")
	t.Setenv("FETCH_STRATEGY", "memory")
	t.Setenv("SINK", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/marketdata")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("INVEST_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Fetch.Sessions)
	assert.Equal(t, "memory", cfg.Fetch.Strategy)
	assert.Equal(t, SinkPostgres, cfg.Sink.Kind)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Invest.InsecureSkipVerify)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"INVEST_TOKEN": ""}},
		{name: "zero sessions", env: map[string]string{"FEED_SESSIONS": "0"}},
		{name: "bad sessions", env: map[string]string{"FEED_SESSIONS": "many"}},
		{name: "bad strategy", env: map[string]string{"FETCH_STRATEGY": "stream"}},
		{name: "bad sink", env: map[string]string{"SINK": "s3"}},
		{name: "postgres without dsn", env: map[string]string{"SINK": "postgres", "DATABASE_DSN": ""}},
		{name: "amqp without url", env: map[string]string{"SINK": "amqp", "RABBITMQ_URL": ""}},
		{name: "bad bool", env: map[string]string{"INVEST_INSECURE_SKIP_VERIFY": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("INVEST_TOKEN", "t.secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OUTPUT_DIR=/srv/history\n"), 0o600))
	t.Setenv("OUTPUT_DIR", "")
	require.NoError(t, os.Unsetenv("OUTPUT_DIR"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "/srv/history", os.Getenv("OUTPUT_DIR"))
}
