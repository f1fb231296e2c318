package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type ChecklistCompletionRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChecklistCompletion) ([]*types.ChecklistCompletion, error)
	ListInWindow(dbc dbctx.Context, locationID uuid.UUID, since, until time.Time) ([]*types.ChecklistCompletion, error)
}

type checklistCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChecklistCompletionRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistCompletionRepo {
	repoLog := baseLog.With("repo", "ChecklistCompletionRepo")
	return &checklistCompletionRepo{db: db, log: repoLog}
}

func (r *checklistCompletionRepo) Create(dbc dbctx.Context, rows []*types.ChecklistCompletion) ([]*types.ChecklistCompletion, error) {
	if len(rows) == 0 {
		return []*types.ChecklistCompletion{}, nil
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

func (r *checklistCompletionRepo) ListInWindow(dbc dbctx.Context, locationID uuid.UUID, since, until time.Time) ([]*types.ChecklistCompletion, error) {
	var out []*types.ChecklistCompletion
	if err := dbc.Conn(r.db).
		Where("location_id = ? AND completed_at >= ? AND completed_at <= ?", locationID, since, until).
		Order("completed_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
