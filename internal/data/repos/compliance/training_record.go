package compliance

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type TrainingRecordRepo interface {
	Create(dbc dbctx.Context, rows []*types.TrainingRecord) ([]*types.TrainingRecord, error)
	ListByLocation(dbc dbctx.Context, locationID uuid.UUID) ([]*types.TrainingRecord, error)
}

type trainingRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainingRecordRepo(db *gorm.DB, baseLog *logger.Logger) TrainingRecordRepo {
	repoLog := baseLog.With("repo", "TrainingRecordRepo")
	return &trainingRecordRepo{db: db, log: repoLog}
}

func (r *trainingRecordRepo) Create(dbc dbctx.Context, rows []*types.TrainingRecord) ([]*types.TrainingRecord, error) {
	if len(rows) == 0 {
		return []*types.TrainingRecord{}, nil
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

func (r *trainingRecordRepo) ListByLocation(dbc dbctx.Context, locationID uuid.UUID) ([]*types.TrainingRecord, error) {
	var out []*types.TrainingRecord
	if err := dbc.Conn(r.db).
		Where("location_id = ?", locationID).
		Order("certification ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
