package app

import (
	"github.com/yungbote/evidly-backend/internal/data/repos"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/services"
)

type Services struct {
	Catalog   services.CatalogService
	Resolver  services.JurisdictionResolver
	Collector services.ComplianceCollector
	Writer    services.AuditSnapshotWriter
	Scoring   services.ComplianceScoringService
	Sweeper   services.SnapshotSweeper
}

func wireServices(log *logger.Logger, cfg Config, set repos.Set, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	catalog := services.NewCatalogService(log, set.ViolationCatalog, cfg.CatalogCacheTTL)
	resolver := services.NewJurisdictionResolver(log, set.LocationJurisdiction, set.JurisdictionOverride, cfg.OverrideCacheTTL, metrics)
	collector := services.NewComplianceCollector(log, set, cfg.ScoringWindowDays, metrics)
	writer := services.NewAuditSnapshotWriter(log, set.ScoreSnapshot, set.ScoreCalculation, metrics)

	var events services.ScoreEventPublisher
	if clients.ScoreBus != nil {
		events = clients.ScoreBus
	}

	scoringSvc := services.NewComplianceScoringService(log, services.ScoringDeps{
		Resolver:  resolver,
		Catalog:   catalog,
		Collector: collector,
		Writer:    writer,
		Events:    events,
		Snapshots: set.ScoreSnapshot,
		Metrics:   metrics,
	}, services.ScoringConfig{
		MaxParallelJurisdictions: cfg.MaxParallelJurisdictions,
		EngineVersion:            cfg.EngineVersion,
	})

	sweeper := services.NewSnapshotSweeper(log, set.Location, scoringSvc, cfg.SnapshotSweepRate, metrics)

	return Services{
		Catalog:   catalog,
		Resolver:  resolver,
		Collector: collector,
		Writer:    writer,
		Scoring:   scoringSvc,
		Sweeper:   sweeper,
	}
}
