package compliance

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type EquipmentRecordRepo interface {
	Create(dbc dbctx.Context, rows []*types.EquipmentRecord) ([]*types.EquipmentRecord, error)
	ListInService(dbc dbctx.Context, locationID uuid.UUID) ([]*types.EquipmentRecord, error)
}

type equipmentRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEquipmentRecordRepo(db *gorm.DB, baseLog *logger.Logger) EquipmentRecordRepo {
	repoLog := baseLog.With("repo", "EquipmentRecordRepo")
	return &equipmentRecordRepo{db: db, log: repoLog}
}

func (r *equipmentRecordRepo) Create(dbc dbctx.Context, rows []*types.EquipmentRecord) ([]*types.EquipmentRecord, error) {
	if len(rows) == 0 {
		return []*types.EquipmentRecord{}, nil
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

func (r *equipmentRecordRepo) ListInService(dbc dbctx.Context, locationID uuid.UUID) ([]*types.EquipmentRecord, error) {
	var out []*types.EquipmentRecord
	if err := dbc.Conn(r.db).
		Where("location_id = ? AND retired = ?", locationID, false).
		Order("name ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
