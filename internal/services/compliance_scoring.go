package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/evidly-backend/internal/data/repos"
	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/scoring"
)

const (
	DefaultMaxParallelJurisdictions = 4
	DefaultSnapshotHistoryLimit     = 30
	MaxSnapshotHistoryLimit         = 366
)

type ScoringConfig struct {
	MaxParallelJurisdictions int
	// EngineVersion overrides scoring.EngineVersion on responses and rows.
	EngineVersion string
}

// ComplianceScoringService computes a location's compliance score end to end.
type ComplianceScoringService interface {
	Calculate(ctx context.Context, locationID string, saveAudit bool) (*scoring.OverallScore, error)
	Snapshots(ctx context.Context, locationID string, limit int) ([]*types.ScoreSnapshot, error)
}

type complianceScoringService struct {
	log       *logger.Logger
	resolver  JurisdictionResolver
	catalog   CatalogService
	collector ComplianceCollector
	writer    AuditSnapshotWriter
	events    ScoreEventPublisher
	snapshots repos.ScoreSnapshotRepo
	metrics   *observability.Metrics
	tracer    trace.Tracer
	cfg       ScoringConfig
	now       func() time.Time
}

// ScoringDeps are the collaborators of ComplianceScoringService. Events,
// Metrics and Now are optional.
type ScoringDeps struct {
	Resolver  JurisdictionResolver
	Catalog   CatalogService
	Collector ComplianceCollector
	Writer    AuditSnapshotWriter
	Events    ScoreEventPublisher
	Snapshots repos.ScoreSnapshotRepo
	Metrics   *observability.Metrics
	Now       func() time.Time
}

func NewComplianceScoringService(log *logger.Logger, deps ScoringDeps, cfg ScoringConfig) ComplianceScoringService {
	if cfg.MaxParallelJurisdictions <= 0 {
		cfg.MaxParallelJurisdictions = DefaultMaxParallelJurisdictions
	}
	if strings.TrimSpace(cfg.EngineVersion) == "" {
		cfg.EngineVersion = scoring.EngineVersion
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &complianceScoringService{
		log:       log.With("service", "ComplianceScoringService"),
		resolver:  deps.Resolver,
		catalog:   deps.Catalog,
		collector: deps.Collector,
		writer:    deps.Writer,
		events:    deps.Events,
		snapshots: deps.Snapshots,
		metrics:   deps.Metrics,
		tracer:    observability.Tracer(),
		cfg:       cfg,
		now:       now,
	}
}

func (s *complianceScoringService) Calculate(ctx context.Context, rawLocationID string, saveAudit bool) (*scoring.OverallScore, error) {
	locationID, err := ParseLocationID(rawLocationID)
	if err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "compliance.score", trace.WithAttributes(
		attribute.String("location_id", locationID.String()),
		attribute.Bool("save_audit", saveAudit),
	))
	defer span.End()

	started := time.Now()
	now := s.now()
	log := s.log.With("location_id", locationID)

	var jurisdictions []scoring.Jurisdiction
	if err := s.stage(ctx, "resolve", func(ctx context.Context) error {
		var err error
		jurisdictions, err = s.resolver.Resolve(ctx, locationID)
		return err
	}); err != nil {
		log.Warn("jurisdiction resolution failed", "stage", "resolve", "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var items []scoring.CatalogItem
	if err := s.stage(ctx, "catalog", func(ctx context.Context) error {
		var err error
		items, err = s.catalog.Items(ctx)
		return err
	}); err != nil {
		log.Error("catalog load failed", "stage", "catalog", "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var signals *scoring.Signals
	_ = s.stage(ctx, "collect", func(ctx context.Context) error {
		signals = s.collector.Collect(ctx, locationID, now)
		return nil
	})

	results := make([]scoring.JurisdictionScore, len(jurisdictions))
	_ = s.stage(ctx, "score", func(ctx context.Context) error {
		var g errgroup.Group
		g.SetLimit(s.cfg.MaxParallelJurisdictions)
		for i, j := range jurisdictions {
			g.Go(func() error {
				_, jspan := s.tracer.Start(ctx, "compliance.score.jurisdiction", trace.WithAttributes(
					attribute.String("jurisdiction_id", j.ID),
					attribute.String("scoring_type", string(j.Scoring.Type())),
					attribute.String("grading_type", string(j.Grading.Type())),
				))
				defer jspan.End()
				res := scoring.ScoreJurisdiction(j, items, signals, now)
				results[i] = res
				s.metrics.IncScoreCalculation(string(res.ScoringType), string(res.GradingType), string(res.PassFail))
				if res.ImminentHazard {
					log.Warn("imminent health hazard", "jurisdiction_id", j.ID, "stage", "grade")
				}
				return nil
			})
		}
		return g.Wait()
	})

	var overall scoring.OverallScore
	_ = s.stage(ctx, "aggregate", func(ctx context.Context) error {
		overall = scoring.Aggregate(locationID.String(), scoring.PillarWeights(jurisdictions), results, now)
		return nil
	})

	summary := signals.Summary()
	overall.EngineVersion = s.cfg.EngineVersion
	overall.InputHash = scoring.InputHash(overall.EngineVersion, summary, scoring.JurisdictionIDs(results), overall.WeightsUsed)

	if saveAudit && s.writer != nil {
		_ = s.stage(ctx, "persist", func(ctx context.Context) error {
			s.writer.Write(ctx, AuditRecord{LocationID: locationID, Score: overall, Summary: summary})
			return nil
		})
	}
	s.publish(ctx, overall)

	span.SetAttributes(attribute.Float64("overall_score", overall.OverallScore))
	log.Info("compliance score calculated",
		"overall_score", overall.OverallScore,
		"jurisdictions", len(results),
		"input_hash", overall.InputHash,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return &overall, nil
}

func (s *complianceScoringService) Snapshots(ctx context.Context, rawLocationID string, limit int) ([]*types.ScoreSnapshot, error) {
	locationID, err := ParseLocationID(rawLocationID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSnapshotHistoryLimit
	}
	if limit > MaxSnapshotHistoryLimit {
		limit = MaxSnapshotHistoryLimit
	}
	rows, err := s.snapshots.ListByLocation(dbctx.Context{Ctx: ctx}, locationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list score snapshots: %w", err)
	}
	if rows == nil {
		rows = []*types.ScoreSnapshot{}
	}
	return rows, nil
}

// stage times fn under a child span and the stage histogram.
func (s *complianceScoringService) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "compliance.stage."+name)
	defer span.End()
	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveScoreStage(name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *complianceScoringService) publish(ctx context.Context, overall scoring.OverallScore) {
	if s.events == nil {
		return
	}
	hazard := false
	for _, js := range overall.Jurisdictions {
		if js.ImminentHazard {
			hazard = true
			break
		}
	}
	err := s.events.PublishScoreUpdated(ctx, ScoreUpdatedEvent{
		Event:         ScoreEventUpdated,
		LocationID:    overall.LocationID,
		OverallScore:  overall.OverallScore,
		FoodSafety:    overall.FoodSafety.Score,
		FireSafety:    overall.FireSafety.Score,
		ImminentRisk:  hazard,
		InputHash:     overall.InputHash,
		EngineVersion: overall.EngineVersion,
		CalculatedAt:  overall.CalculatedAt,
	})
	if err != nil {
		s.metrics.IncScoreEvent("failed")
		s.log.Warn("score event publish failed", "location_id", overall.LocationID, "stage", "publish", "error", err)
		return
	}
	s.metrics.IncScoreEvent("published")
}
