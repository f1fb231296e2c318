package compliance

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type LocationRepo interface {
	Create(dbc dbctx.Context, locations []*types.Location) ([]*types.Location, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Location, error)
	ListActiveIDs(dbc dbctx.Context) ([]uuid.UUID, error)
}

type locationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLocationRepo(db *gorm.DB, baseLog *logger.Logger) LocationRepo {
	repoLog := baseLog.With("repo", "LocationRepo")
	return &locationRepo{db: db, log: repoLog}
}

func (r *locationRepo) Create(dbc dbctx.Context, locations []*types.Location) ([]*types.Location, error) {
	if len(locations) == 0 {
		return []*types.Location{}, nil
	}
	for _, l := range locations {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
	}
	if err := dbc.Conn(r.db).Create(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// GetByID returns nil, nil when the location does not exist.
func (r *locationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Location, error) {
	var out types.Location
	err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *locationRepo) ListActiveIDs(dbc dbctx.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := dbc.Conn(r.db).
		Model(&types.Location{}).
		Where("active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
