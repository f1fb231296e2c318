package compliance

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type ScoreSnapshotRepo interface {
	// Upsert writes the day's snapshot, replacing any earlier one for the same
	// (location, day). The returned row carries the persisted ID.
	Upsert(dbc dbctx.Context, snap *types.ScoreSnapshot) (*types.ScoreSnapshot, error)
	ListByLocation(dbc dbctx.Context, locationID uuid.UUID, limit int) ([]*types.ScoreSnapshot, error)
}

type scoreSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ScoreSnapshotRepo {
	repoLog := baseLog.With("repo", "ScoreSnapshotRepo")
	return &scoreSnapshotRepo{db: db, log: repoLog}
}

func (r *scoreSnapshotRepo) Upsert(dbc dbctx.Context, snap *types.ScoreSnapshot) (*types.ScoreSnapshot, error) {
	if snap == nil {
		return nil, nil
	}
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	conn := dbc.Conn(r.db)
	if err := conn.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "location_id"}, {Name: "snapshot_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_score",
				"food_safety_score",
				"fire_safety_score",
				"vendor_score",
				"temp_in_range_pct",
				"checklist_completion_pct",
				"documents_current_pct",
				"engine_version",
				"input_hash",
				"weights",
				"payload",
				"calculated_at",
				"updated_at",
			}),
		}).
		Create(snap).Error; err != nil {
		return nil, err
	}

	// On conflict the existing row keeps its ID; read it back so audit rows
	// reference the persisted snapshot.
	var out types.ScoreSnapshot
	if err := conn.
		Where("location_id = ? AND snapshot_date = ?", snap.LocationID, snap.SnapshotDate).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *scoreSnapshotRepo) ListByLocation(dbc dbctx.Context, locationID uuid.UUID, limit int) ([]*types.ScoreSnapshot, error) {
	var out []*types.ScoreSnapshot
	q := dbc.Conn(r.db).
		Where("location_id = ?", locationID).
		Order("snapshot_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type ScoreCalculationRepo interface {
	Create(dbc dbctx.Context, rows []*types.ScoreCalculation) ([]*types.ScoreCalculation, error)
	ListByLocation(dbc dbctx.Context, locationID uuid.UUID, limit int) ([]*types.ScoreCalculation, error)
}

type scoreCalculationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreCalculationRepo(db *gorm.DB, baseLog *logger.Logger) ScoreCalculationRepo {
	repoLog := baseLog.With("repo", "ScoreCalculationRepo")
	return &scoreCalculationRepo{db: db, log: repoLog}
}

func (r *scoreCalculationRepo) Create(dbc dbctx.Context, rows []*types.ScoreCalculation) ([]*types.ScoreCalculation, error) {
	if len(rows) == 0 {
		return []*types.ScoreCalculation{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.Conn(r.db).CreateInBatches(&rows, 100).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scoreCalculationRepo) ListByLocation(dbc dbctx.Context, locationID uuid.UUID, limit int) ([]*types.ScoreCalculation, error) {
	var out []*types.ScoreCalculation
	q := dbc.Conn(r.db).
		Where("location_id = ?", locationID).
		Order("calculated_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
