package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/evidly-backend/internal/temporalx"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SCORING_WINDOW_DAYS", "CATALOG_CACHE_TTL_SECONDS", "CORS_ALLOWED_ORIGINS", "TEMPORAL_ADDRESS", "POSTGRES_DSN"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig(nil)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7, cfg.ScoringWindowDays)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 4, cfg.MaxParallelJurisdictions)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, temporalx.DefaultTaskQueue, cfg.Temporal.TaskQueue)
	assert.Equal(t, temporalx.DefaultDailySnapshotCron, cfg.Temporal.DailySnapshotCron)
	assert.False(t, cfg.Temporal.Enabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", " 9090 ")
	t.Setenv("SCORING_WINDOW_DAYS", "14")
	t.Setenv("SCORING_MAX_PARALLEL_JURISDICTIONS", "2")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "30")
	t.Setenv("SNAPSHOT_SWEEP_RATE", "0.5")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, ,https://admin.example.com")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db:5432/evidly")
	t.Setenv("TEMPORAL_ADDRESS", "temporal:7233")
	t.Setenv("DAILY_SNAPSHOT_CRON", "")

	cfg := LoadConfig(nil)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 14, cfg.ScoringWindowDays)
	assert.Equal(t, 2, cfg.MaxParallelJurisdictions)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, 0.5, cfg.SnapshotSweepRate)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "postgres://u:p@db:5432/evidly", cfg.Postgres.DSN)
	assert.True(t, cfg.Temporal.Enabled())
}

func TestLoadConfigRejectsBadWindow(t *testing.T) {
	t.Setenv("SCORING_WINDOW_DAYS", "-3")
	t.Setenv("SCORING_MAX_PARALLEL_JURISDICTIONS", "0")

	cfg := LoadConfig(nil)
	assert.Equal(t, 7, cfg.ScoringWindowDays)
	assert.Equal(t, 4, cfg.MaxParallelJurisdictions)
}

func TestReleaseTag(t *testing.T) {
	assert.Equal(t, "v9", releaseTag(Config{Release: "v9", EngineVersion: "2.0.0"}))
	assert.Equal(t, "2.0.0", releaseTag(Config{EngineVersion: "2.0.0"}))
	assert.NotEmpty(t, releaseTag(Config{}))
}
