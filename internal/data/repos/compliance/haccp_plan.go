package compliance

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type HACCPPlanRepo interface {
	Create(dbc dbctx.Context, rows []*types.HACCPPlan) ([]*types.HACCPPlan, error)
	ListByLocation(dbc dbctx.Context, locationID uuid.UUID) ([]*types.HACCPPlan, error)
}

type haccpPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHACCPPlanRepo(db *gorm.DB, baseLog *logger.Logger) HACCPPlanRepo {
	repoLog := baseLog.With("repo", "HACCPPlanRepo")
	return &haccpPlanRepo{db: db, log: repoLog}
}

func (r *haccpPlanRepo) Create(dbc dbctx.Context, rows []*types.HACCPPlan) ([]*types.HACCPPlan, error) {
	if len(rows) == 0 {
		return []*types.HACCPPlan{}, nil
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

func (r *haccpPlanRepo) ListByLocation(dbc dbctx.Context, locationID uuid.UUID) ([]*types.HACCPPlan, error) {
	var out []*types.HACCPPlan
	if err := dbc.Conn(r.db).
		Where("location_id = ?", locationID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
