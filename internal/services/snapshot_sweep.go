package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/evidly-backend/internal/data/repos"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

// SweepResult summarizes one pass over every active location.
type SweepResult struct {
	Scored        int `json:"scored"`
	Skipped       int `json:"skipped"`
	Failed        int `json:"failed"`
	LocationCount int `json:"locationCount"`
}

// SnapshotSweeper rescores every active location with audit enabled, which
// refreshes today's snapshot row for each.
type SnapshotSweeper interface {
	Sweep(ctx context.Context) (SweepResult, error)
}

type snapshotSweeper struct {
	log       *logger.Logger
	locations repos.LocationRepo
	scorer    ComplianceScoringService
	limiter   *rate.Limiter
	metrics   *observability.Metrics
}

// NewSnapshotSweeper paces calculations at perSecond; zero or less disables
// pacing.
func NewSnapshotSweeper(
	log *logger.Logger,
	locations repos.LocationRepo,
	scorer ComplianceScoringService,
	perSecond float64,
	metrics *observability.Metrics,
) SnapshotSweeper {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &snapshotSweeper{
		log:       log.With("service", "SnapshotSweeper"),
		locations: locations,
		scorer:    scorer,
		limiter:   rate.NewLimiter(limit, 1),
		metrics:   metrics,
	}
}

func (s *snapshotSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	started := time.Now()
	ids, err := s.locations.ListActiveIDs(dbctx.Context{Ctx: ctx})
	if err != nil {
		return SweepResult{}, fmt.Errorf("list active locations: %w", err)
	}
	res := SweepResult{LocationCount: len(ids)}
	for _, id := range ids {
		if err := s.limiter.Wait(ctx); err != nil {
			return res, err
		}
		_, err := s.scorer.Calculate(ctx, id.String(), true)
		switch {
		case err == nil:
			res.Scored++
			s.metrics.IncSnapshotSweep("scored")
		case errors.Is(err, ErrJurisdictionNotConfigured):
			res.Skipped++
			s.metrics.IncSnapshotSweep("skipped")
			s.log.Debug("location has no jurisdictions; skipping", "location_id", id)
		case ctx.Err() != nil:
			return res, ctx.Err()
		default:
			res.Failed++
			s.metrics.IncSnapshotSweep("failed")
			s.log.Warn("snapshot sweep calculation failed", "location_id", id, "error", err)
		}
	}
	s.log.Info("snapshot sweep complete",
		"locations", res.LocationCount,
		"scored", res.Scored,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return res, nil
}
