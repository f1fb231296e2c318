package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/evidly-backend/internal/data/db"
	"github.com/yungbote/evidly-backend/internal/data/repos"
	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/scoring"
)

// AuditRecord is everything one calculation persists.
type AuditRecord struct {
	LocationID uuid.UUID
	Score      scoring.OverallScore
	Summary    scoring.SignalSummary
}

// AuditSnapshotWriter persists the daily snapshot and the per-calculation
// audit rows. Write never fails: persistence problems are logged and counted
// and the caller's score stands.
type AuditSnapshotWriter interface {
	Write(ctx context.Context, rec AuditRecord)
}

type auditSnapshotWriter struct {
	log          *logger.Logger
	snapshots    repos.ScoreSnapshotRepo
	calculations repos.ScoreCalculationRepo
	metrics      *observability.Metrics
}

func NewAuditSnapshotWriter(
	log *logger.Logger,
	snapshots repos.ScoreSnapshotRepo,
	calculations repos.ScoreCalculationRepo,
	metrics *observability.Metrics,
) AuditSnapshotWriter {
	return &auditSnapshotWriter{
		log:          log.With("service", "AuditSnapshotWriter"),
		snapshots:    snapshots,
		calculations: calculations,
		metrics:      metrics,
	}
}

func (w *auditSnapshotWriter) Write(ctx context.Context, rec AuditRecord) {
	dbc := dbctx.Context{Ctx: ctx}
	score := rec.Score
	weights := mustJSON(score.WeightsUsed)

	// The snapshot goes first so audit rows can reference it. If it fails the
	// audit rows are still written, unlinked.
	var snapshotID *uuid.UUID
	snap, err := w.snapshots.Upsert(dbc, snapshotFor(rec, weights))
	if err != nil {
		w.persistFailed("snapshot", rec.LocationID, err)
	} else if snap != nil {
		id := snap.ID
		snapshotID = &id
	}

	rows := make([]*types.ScoreCalculation, 0, len(score.Jurisdictions)*3)
	for _, js := range score.Jurisdictions {
		jID, err := uuid.Parse(js.JurisdictionID)
		if err != nil {
			w.log.Warn("skipping audit row with non-UUID jurisdiction id",
				"location_id", rec.LocationID,
				"jurisdiction_id", js.JurisdictionID,
				"stage", "audit",
			)
			continue
		}
		for _, r := range js.Results() {
			rows = append(rows, &types.ScoreCalculation{
				LocationID:        rec.LocationID,
				SnapshotID:        snapshotID,
				JurisdictionID:    jID,
				Pillar:            string(r.Pillar),
				SubComponent:      string(r.SubComponent),
				ScoringType:       string(r.ScoringType),
				GradingType:       string(r.GradingType),
				RawScore:          r.RawScore,
				NormalizedScore:   r.NormalizedScore,
				TotalPoints:       r.TotalPoints,
				Grade:             r.Grade,
				GradeDisplay:      r.GradeDisplay,
				PassFail:          string(r.PassFail),
				MajorViolations:   r.MajorViolations,
				MinorViolations:   r.MinorViolations,
				UncorrectedMajors: r.UncorrectedMajors,
				ImminentHazard:    r.ImminentHazard,
				Violations:        mustJSON(r.Violations),
				Weights:           mustJSON(r.Weights),
				InputHash:         score.InputHash,
				EngineVersion:     score.EngineVersion,
				CalculatedAt:      r.CalculatedAt,
			})
		}
	}
	if _, err := w.calculations.Create(dbc, rows); err != nil {
		w.persistFailed("audit", rec.LocationID, err)
	}
}

func snapshotFor(rec AuditRecord, weights datatypes.JSON) *types.ScoreSnapshot {
	score := rec.Score
	calculatedAt := score.CalculatedAt
	if calculatedAt.IsZero() {
		calculatedAt = time.Now().UTC()
	}
	return &types.ScoreSnapshot{
		LocationID:             rec.LocationID,
		SnapshotDate:           calculatedAt.UTC().Format(types.SnapshotDateLayout),
		OverallScore:           score.OverallScore,
		FoodSafetyScore:        score.FoodSafety.Score,
		FireSafetyScore:        score.FireSafety.Score,
		VendorScore:            rec.Summary.VendorScore,
		TempInRangePct:         rec.Summary.TempInRangePct,
		ChecklistCompletionPct: rec.Summary.ChecklistCompletionPct,
		DocumentsCurrentPct:    rec.Summary.DocumentsCurrentPct,
		EngineVersion:          score.EngineVersion,
		InputHash:              score.InputHash,
		Weights:                weights,
		Payload:                mustJSON(score),
		CalculatedAt:           calculatedAt,
	}
}

func (w *auditSnapshotWriter) persistFailed(stage string, locationID uuid.UUID, err error) {
	w.metrics.IncPersistenceFailure(stage)
	w.log.Error("score persistence failed; returning computed score",
		"location_id", locationID,
		"stage", stage,
		"sqlstate", db.SQLState(err),
		"error", err,
	)
	observability.CaptureError(err, map[string]string{
		"component":   "audit_snapshot",
		"stage":       stage,
		"location_id": locationID.String(),
	})
}

func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(raw)
}
