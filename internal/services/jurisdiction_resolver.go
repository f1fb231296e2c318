package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/yungbote/evidly-backend/internal/data/repos"
	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/scoring"
)

// JurisdictionResolver turns a location's jurisdiction associations into
// engine-ready profiles with strategies, thresholds, weights and overrides
// already resolved.
type JurisdictionResolver interface {
	Resolve(ctx context.Context, locationID uuid.UUID) ([]scoring.Jurisdiction, error)
}

type jurisdictionResolver struct {
	log       *logger.Logger
	links     repos.LocationJurisdictionRepo
	overrides repos.JurisdictionOverrideRepo
	cache     *cache.Cache
	metrics   *observability.Metrics
}

func NewJurisdictionResolver(
	log *logger.Logger,
	links repos.LocationJurisdictionRepo,
	overrides repos.JurisdictionOverrideRepo,
	overrideTTL time.Duration,
	metrics *observability.Metrics,
) JurisdictionResolver {
	if overrideTTL <= 0 {
		overrideTTL = 5 * time.Minute
	}
	return &jurisdictionResolver{
		log:       log.With("service", "JurisdictionResolver"),
		links:     links,
		overrides: overrides,
		cache:     cache.New(overrideTTL, 2*overrideTTL),
		metrics:   metrics,
	}
}

func (r *jurisdictionResolver) Resolve(ctx context.Context, locationID uuid.UUID) ([]scoring.Jurisdiction, error) {
	dbc := dbctx.Context{Ctx: ctx}
	links, err := r.links.ListByLocation(dbc, locationID)
	if err != nil {
		return nil, fmt.Errorf("list location jurisdictions: %w", err)
	}

	out := make([]scoring.Jurisdiction, 0, len(links))
	for _, link := range links {
		if link == nil || link.Jurisdiction == nil {
			continue
		}
		layer, ok := scoring.ParsePillar(link.JurisdictionLayer)
		if !ok {
			r.log.Warn("skipping jurisdiction with unknown layer",
				"location_id", locationID,
				"jurisdiction_id", link.JurisdictionID,
				"layer", link.JurisdictionLayer,
			)
			continue
		}
		ov, err := r.overridesFor(ctx, link.JurisdictionID)
		if err != nil {
			return nil, err
		}
		out = append(out, r.profile(locationID, link, layer, ov))
	}
	if len(out) == 0 {
		return nil, jurisdictionNotConfigured(locationID)
	}
	return out, nil
}

func (r *jurisdictionResolver) overridesFor(ctx context.Context, jurisdictionID uuid.UUID) (scoring.Overrides, error) {
	key := jurisdictionID.String()
	if v, ok := r.cache.Get(key); ok {
		if ov, ok := v.(scoring.Overrides); ok {
			return ov, nil
		}
	}
	rows, err := r.overrides.ListByJurisdictionIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{jurisdictionID})
	if err != nil {
		return nil, fmt.Errorf("list overrides for jurisdiction %s: %w", jurisdictionID, err)
	}
	ov := make(scoring.Overrides, len(rows))
	for _, row := range rows {
		var o scoring.Override
		if row.Severity != nil && *row.Severity != "" {
			o.Severity = scoring.ParseSeverity(*row.Severity)
		}
		if row.PointDeduction != nil {
			pts := *row.PointDeduction
			o.Points = &pts
		}
		ov[row.ViolationCode] = o
	}
	r.cache.SetDefault(key, ov)
	return ov, nil
}

func (r *jurisdictionResolver) profile(locationID uuid.UUID, link *types.LocationJurisdiction, layer scoring.Pillar, ov scoring.Overrides) scoring.Jurisdiction {
	j := link.Jurisdiction
	log := r.log.With("location_id", locationID, "jurisdiction_id", j.ID)

	weights, ok := scoring.WeightsFromPercent(j.FoodSafetyWeight, j.FireSafetyWeight, j.OpsWeight, j.DocsWeight)
	if !ok {
		log.Warn("jurisdiction weights do not sum to 100; normalized",
			"food_safety_weight", j.FoodSafetyWeight,
			"fire_safety_weight", j.FireSafetyWeight,
			"ops_weight", j.OpsWeight,
			"docs_weight", j.DocsWeight,
		)
	}

	var cfg scoring.GradingConfig
	if len(j.GradingConfig) > 0 {
		if err := json.Unmarshal(j.GradingConfig, &cfg); err != nil {
			log.Warn("ignoring malformed grading_config", "error", err)
			cfg = scoring.GradingConfig{}
		}
	}

	profile := scoring.Jurisdiction{
		ID:              j.ID.String(),
		Name:            j.Name,
		Layer:           layer,
		MostRestrictive: link.IsMostRestrictive,
		Scoring:         scoring.ResolveScoring(j.ScoringType),
		Grading:         scoring.ResolveGrading(j.GradingType),
		GradingConfig:   cfg,
		Thresholds:      thresholdsOrDefault(j),
		Weights:         weights,
		Overrides:       ov,
	}

	fallbackScoring, fallbackGrading := profile.IsFallback()
	if fallbackScoring {
		r.metrics.IncStrategyFallback("scoring")
		log.Warn("unknown scoring_type; using weighted_deduction", "scoring_type", j.ScoringType)
	}
	if fallbackGrading {
		r.metrics.IncStrategyFallback("grading")
		log.Warn("unknown grading_type; using pass_reinspect", "grading_type", j.GradingType)
	}
	return profile
}

func thresholdsOrDefault(j *types.Jurisdiction) scoring.Thresholds {
	t := scoring.Thresholds{
		Pass:     j.PassThreshold,
		Warning:  j.WarningThreshold,
		Critical: j.CriticalThreshold,
	}
	if t.Pass <= 0 {
		t.Pass = scoring.DefaultThresholds.Pass
	}
	if t.Warning <= 0 {
		t.Warning = scoring.DefaultThresholds.Warning
	}
	if t.Critical <= 0 {
		t.Critical = scoring.DefaultThresholds.Critical
	}
	return t
}
