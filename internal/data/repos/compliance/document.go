package compliance

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type DocumentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Document) ([]*types.Document, error)
	// ListCurrent returns the location's non-archived documents. Expiry is
	// judged by the caller against its own clock.
	ListCurrent(dbc dbctx.Context, locationID uuid.UUID) ([]*types.Document, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (r *documentRepo) Create(dbc dbctx.Context, rows []*types.Document) ([]*types.Document, error) {
	if len(rows) == 0 {
		return []*types.Document{}, nil
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

func (r *documentRepo) ListCurrent(dbc dbctx.Context, locationID uuid.UUID) ([]*types.Document, error) {
	var out []*types.Document
	if err := dbc.Conn(r.db).
		Where("location_id = ? AND archived = ?", locationID, false).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
