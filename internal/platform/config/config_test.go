package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"PGSQL_URL": "postgres://localhost/erp"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedChartOnStart)
	assert.Empty(t, cfg.RedisURL)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORAGE_DRIVER":       "MEMORY",
		"REPORT_CACHE_TTL":     "90s",
		"CORS_ALLOWED_ORIGINS": "https://erp.example.com, https://admin.example.com,",
		"LOG_LEVEL":            "DEBUG",
		"SEED_CHART_ON_START":  "false",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 90*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, []string{"https://erp.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.SeedChartOnStart)
}

func TestFromViper_Errors(t *testing.T) {
	_, err := fromViper(newViper(nil))
	assert.ErrorContains(t, err, "PGSQL_URL")

	_, err = fromViper(newViper(map[string]any{"STORAGE_DRIVER": "sqlite"}))
	assert.ErrorContains(t, err, "STORAGE_DRIVER")

	cfg, err := fromViper(newViper(map[string]any{"STORAGE_DRIVER": "memory", "REPORT_CACHE_TTL": "soon"}))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
}
