package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "LOG_LEVEL", "ALUMNI_PAGE_SIZE", "CACHE_TTL", "KAFKA_BROKERS", "KAFKA_TOPIC", "AUTH_ENABLED", "DATABASE_URL", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 20, cfg.AlumniPageSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "alumni-events", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.AuthEnabled)
	assert.Contains(t, cfg.DSN(), "dbname=alumni")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALUMNI_PAGE_SIZE", "0")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/alumni")
	t.Setenv("AUTH_ENABLED", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 0, cfg.AlumniPageSize)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "postgres://u:p@db:5432/alumni", cfg.DSN())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"negative page size", "ALUMNI_PAGE_SIZE", "-1"},
		{"non numeric page size", "ALUMNI_PAGE_SIZE", "twenty"},
		{"bad ttl", "CACHE_TTL", "soon"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"auth without casdoor", "AUTH_ENABLED", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("CASDOOR_ENDPOINT", "")
			t.Setenv("CASDOOR_CERT", "")
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
