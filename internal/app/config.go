package app

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/evidly-backend/internal/data/db"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/services"
	"github.com/yungbote/evidly-backend/internal/temporalx"
)

type Config struct {
	Port        string
	LogMode     string
	Environment string
	ServiceName string
	Release     string

	Postgres db.PostgresConfig

	ScoringWindowDays        int
	EngineVersion            string
	MaxParallelJurisdictions int
	CatalogCacheTTL          time.Duration
	OverrideCacheTTL         time.Duration
	SeedCatalogOnBoot        bool
	SnapshotSweepRate        float64

	MetricsEnabled bool
	MetricsAddr    string
	SentryDSN      string
	CORSOrigins    []string

	RedisAddr         string
	RedisScoreChannel string

	Temporal temporalx.Config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_NAME", "evidly-scoring")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_NAME", "evidly")
	v.SetDefault("POSTGRES_MAX_OPEN_CONNS", 20)
	v.SetDefault("POSTGRES_MAX_IDLE_CONNS", 5)
	v.SetDefault("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800)

	v.SetDefault("SCORING_WINDOW_DAYS", 7)
	v.SetDefault("SCORING_MAX_PARALLEL_JURISDICTIONS", services.DefaultMaxParallelJurisdictions)
	v.SetDefault("CATALOG_CACHE_TTL_SECONDS", 300)
	v.SetDefault("OVERRIDE_CACHE_TTL_SECONDS", 300)
	v.SetDefault("SEED_CATALOG_ON_BOOT", true)
	v.SetDefault("SNAPSHOT_SWEEP_RATE", 5.0)

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("REDIS_SCORE_CHANNEL", "compliance.score")

	v.SetDefault("TEMPORAL_NAMESPACE", temporalx.DefaultNamespace)
	v.SetDefault("TEMPORAL_TASK_QUEUE", temporalx.DefaultTaskQueue)
	v.SetDefault("DAILY_SNAPSHOT_CRON", temporalx.DefaultDailySnapshotCron)
	v.SetDefault("TEMPORAL_AUTO_REGISTER_NAMESPACE", false)
}

// LoadConfig reads the process environment. Unset keys take the defaults
// above.
func LoadConfig(log *logger.Logger) Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Port:        strings.TrimSpace(v.GetString("PORT")),
		LogMode:     v.GetString("LOG_MODE"),
		Environment: v.GetString("APP_ENV"),
		ServiceName: v.GetString("SERVICE_NAME"),
		Release:     v.GetString("RELEASE"),

		Postgres: db.PostgresConfig{
			DSN:             v.GetString("POSTGRES_DSN"),
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetString("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			Name:            v.GetString("POSTGRES_NAME"),
			MaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: seconds(v, "POSTGRES_CONN_MAX_LIFETIME_SECONDS"),
		},

		ScoringWindowDays:        v.GetInt("SCORING_WINDOW_DAYS"),
		EngineVersion:            strings.TrimSpace(v.GetString("SCORING_ENGINE_VERSION")),
		MaxParallelJurisdictions: v.GetInt("SCORING_MAX_PARALLEL_JURISDICTIONS"),
		CatalogCacheTTL:          seconds(v, "CATALOG_CACHE_TTL_SECONDS"),
		OverrideCacheTTL:         seconds(v, "OVERRIDE_CACHE_TTL_SECONDS"),
		SeedCatalogOnBoot:        v.GetBool("SEED_CATALOG_ON_BOOT"),
		SnapshotSweepRate:        v.GetFloat64("SNAPSHOT_SWEEP_RATE"),

		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		MetricsAddr:    strings.TrimSpace(v.GetString("METRICS_ADDR")),
		SentryDSN:      v.GetString("SENTRY_DSN"),
		CORSOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		RedisAddr:         strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisScoreChannel: v.GetString("REDIS_SCORE_CHANNEL"),

		Temporal: temporalx.Config{
			Address:           v.GetString("TEMPORAL_ADDRESS"),
			Namespace:         v.GetString("TEMPORAL_NAMESPACE"),
			TaskQueue:         v.GetString("TEMPORAL_TASK_QUEUE"),
			DailySnapshotCron: v.GetString("DAILY_SNAPSHOT_CRON"),
			AutoRegister:      v.GetBool("TEMPORAL_AUTO_REGISTER_NAMESPACE"),
			ClientCertPath:    v.GetString("TEMPORAL_TLS_CERT"),
			ClientKeyPath:     v.GetString("TEMPORAL_TLS_KEY"),
			ClientCAPath:      v.GetString("TEMPORAL_TLS_CA"),
		}.Normalize(),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ScoringWindowDays <= 0 {
		if log != nil {
			log.Warn("SCORING_WINDOW_DAYS must be positive; using 7", "value", cfg.ScoringWindowDays)
		}
		cfg.ScoringWindowDays = 7
	}
	if cfg.MaxParallelJurisdictions <= 0 {
		cfg.MaxParallelJurisdictions = services.DefaultMaxParallelJurisdictions
	}
	return cfg
}

func seconds(v *viper.Viper, key string) time.Duration {
	n := v.GetInt(key)
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
