package compliance

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type ViolationCatalogRepo interface {
	ListActive(dbc dbctx.Context) ([]*types.ViolationCatalogItem, error)
	// InsertMissing adds items whose code is not present yet and returns how
	// many rows were inserted. Existing rows are never modified.
	InsertMissing(dbc dbctx.Context, items []*types.ViolationCatalogItem) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
}

type violationCatalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViolationCatalogRepo(db *gorm.DB, baseLog *logger.Logger) ViolationCatalogRepo {
	repoLog := baseLog.With("repo", "ViolationCatalogRepo")
	return &violationCatalogRepo{db: db, log: repoLog}
}

func (r *violationCatalogRepo) ListActive(dbc dbctx.Context) ([]*types.ViolationCatalogItem, error) {
	var out []*types.ViolationCatalogItem
	if err := dbc.Conn(r.db).
		Where("active = ?", true).
		Order("sort_order ASC, code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *violationCatalogRepo) InsertMissing(dbc dbctx.Context, items []*types.ViolationCatalogItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
	}
	res := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(&items)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *violationCatalogRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&types.ViolationCatalogItem{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
