package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/evidly-backend/internal/data/db"
	"github.com/yungbote/evidly-backend/internal/data/repos"
	httpx "github.com/yungbote/evidly-backend/internal/http"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/scoring"
	"github.com/yungbote/evidly-backend/internal/services"
	"github.com/yungbote/evidly-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    repos.Set
	Services Services
	Server   *httpx.Server
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	cancel       context.CancelFunc
	flushSentry  func()
	shutdownOTel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig(nil)
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loaded configuration", "env", cfg.Environment, "port", cfg.Port, "window_days", cfg.ScoringWindowDays)

	bgCtx, cancel := context.WithCancel(context.Background())
	a := &App{Log: log, Cfg: cfg, cancel: cancel}

	a.flushSentry = observability.InitSentry(log, observability.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     releaseTag(cfg),
	})
	a.shutdownOTel = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     releaseTag(cfg),
	})
	a.Metrics = observability.Init(log, cfg.MetricsEnabled)

	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	a.pg = pg
	if err := pg.AutoMigrateAll(); err != nil {
		a.Close()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	a.DB = pg.DB()
	a.Metrics.StartPostgresCollector(bgCtx, log, a.DB)

	clients, err := wireClients(log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Clients = clients
	if clients.ScoreBus != nil {
		a.Metrics.StartRedisCollector(bgCtx, log, clients.ScoreBus.Client())
	}

	a.Repos = wireRepos(a.DB, log)
	a.Services = wireServices(log, cfg, a.Repos, clients, a.Metrics)

	if cfg.SeedCatalogOnBoot {
		if _, err := a.SeedCatalog(ctx); err != nil {
			log.Warn("Violation catalog seeding failed (continuing)", "error", err)
		}
	}

	handlers := wireHandlers(log, a.DB, a.Services)
	a.Server = wireServer(log, cfg, handlers, a.Metrics)
	return a, nil
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Serving compliance scoring API", "addr", addr)
	return a.Server.Run(ctx, addr)
}

// RunWorker hosts the daily snapshot workflow until ctx is cancelled.
func (a *App) RunWorker(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	runner, err := temporalworker.NewRunner(a.Log, a.Clients.Temporal, a.Cfg.Temporal, a.Services.Sweeper)
	if err != nil {
		return err
	}
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start temporal worker: %w", err)
	}
	<-ctx.Done()
	a.Log.Info("Temporal worker stopping")
	return nil
}

// Sweep rescores every active location once, outside of Temporal.
func (a *App) Sweep(ctx context.Context) (services.SweepResult, error) {
	return a.Services.Sweeper.Sweep(ctx)
}

func (a *App) SeedCatalog(ctx context.Context) (int64, error) {
	n, err := a.Services.Catalog.SeedDefaults(ctx)
	if err != nil {
		return 0, err
	}
	a.Log.Info("Violation catalog seeded", "inserted", n)
	return n, nil
}

func (a *App) Score(ctx context.Context, locationID string, saveAudit bool) (*scoring.OverallScore, error) {
	return a.Services.Scoring.Calculate(ctx, locationID, saveAudit)
}

// WatchScores forwards score.updated events to onMsg until ctx is done.
func (a *App) WatchScores(ctx context.Context, onMsg func(ev services.ScoreUpdatedEvent)) error {
	if a.Clients.ScoreBus == nil {
		return fmt.Errorf("REDIS_ADDR is required to watch score events")
	}
	if err := a.Clients.ScoreBus.StartForwarder(ctx, onMsg); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.shutdownOTel(ctx)
		cancel()
	}
	if a.flushSentry != nil {
		a.flushSentry()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

func releaseTag(cfg Config) string {
	if cfg.Release != "" {
		return cfg.Release
	}
	if cfg.EngineVersion != "" {
		return cfg.EngineVersion
	}
	return scoring.EngineVersion
}
