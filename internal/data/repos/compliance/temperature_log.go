package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type TemperatureLogRepo interface {
	Create(dbc dbctx.Context, rows []*types.TemperatureLog) ([]*types.TemperatureLog, error)
	// ListInWindow returns readings recorded in [since, until], oldest first.
	ListInWindow(dbc dbctx.Context, locationID uuid.UUID, since, until time.Time) ([]*types.TemperatureLog, error)
}

type temperatureLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemperatureLogRepo(db *gorm.DB, baseLog *logger.Logger) TemperatureLogRepo {
	repoLog := baseLog.With("repo", "TemperatureLogRepo")
	return &temperatureLogRepo{db: db, log: repoLog}
}

func (r *temperatureLogRepo) Create(dbc dbctx.Context, rows []*types.TemperatureLog) ([]*types.TemperatureLog, error) {
	if len(rows) == 0 {
		return []*types.TemperatureLog{}, nil
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

func (r *temperatureLogRepo) ListInWindow(dbc dbctx.Context, locationID uuid.UUID, since, until time.Time) ([]*types.TemperatureLog, error) {
	var out []*types.TemperatureLog
	if err := dbc.Conn(r.db).
		Where("location_id = ? AND recorded_at >= ? AND recorded_at <= ?", locationID, since, until).
		Order("recorded_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
