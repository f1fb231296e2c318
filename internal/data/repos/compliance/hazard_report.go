package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type HazardReportRepo interface {
	Create(dbc dbctx.Context, rows []*types.HazardReport) ([]*types.HazardReport, error)
	// ListOpen returns hazards reported at or before asOf that are not resolved.
	ListOpen(dbc dbctx.Context, locationID uuid.UUID, asOf time.Time) ([]*types.HazardReport, error)
	Resolve(dbc dbctx.Context, id uuid.UUID, at time.Time) error
}

type hazardReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHazardReportRepo(db *gorm.DB, baseLog *logger.Logger) HazardReportRepo {
	repoLog := baseLog.With("repo", "HazardReportRepo")
	return &hazardReportRepo{db: db, log: repoLog}
}

func (r *hazardReportRepo) Create(dbc dbctx.Context, rows []*types.HazardReport) ([]*types.HazardReport, error) {
	if len(rows) == 0 {
		return []*types.HazardReport{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *hazardReportRepo) ListOpen(dbc dbctx.Context, locationID uuid.UUID, asOf time.Time) ([]*types.HazardReport, error) {
	var out []*types.HazardReport
	if err := dbc.Conn(r.db).
		Where("location_id = ? AND resolved_at IS NULL AND reported_at <= ?", locationID, asOf).
		Order("reported_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *hazardReportRepo) Resolve(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return dbc.Conn(r.db).
		Model(&types.HazardReport{}).
		Where("id = ? AND resolved_at IS NULL", id).
		Update("resolved_at", at).Error
}
