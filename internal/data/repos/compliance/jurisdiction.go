package compliance

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type JurisdictionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Jurisdiction) ([]*types.Jurisdiction, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Jurisdiction, error)
}

type jurisdictionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJurisdictionRepo(db *gorm.DB, baseLog *logger.Logger) JurisdictionRepo {
	repoLog := baseLog.With("repo", "JurisdictionRepo")
	return &jurisdictionRepo{db: db, log: repoLog}
}

func (r *jurisdictionRepo) Create(dbc dbctx.Context, rows []*types.Jurisdiction) ([]*types.Jurisdiction, error) {
	if len(rows) == 0 {
		return []*types.Jurisdiction{}, nil
	}
	for _, j := range rows {
		if j.ID == uuid.Nil {
			j.ID = uuid.New()
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *jurisdictionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Jurisdiction, error) {
	var out []*types.Jurisdiction
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type LocationJurisdictionRepo interface {
	// Attach links jurisdictions to a location. Re-attaching the same layer is
	// a no-op.
	Attach(dbc dbctx.Context, rows []*types.LocationJurisdiction) error
	// ListByLocation returns the location's jurisdictions in attach order,
	// with the Jurisdiction preloaded.
	ListByLocation(dbc dbctx.Context, locationID uuid.UUID) ([]*types.LocationJurisdiction, error)
}

type locationJurisdictionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLocationJurisdictionRepo(db *gorm.DB, baseLog *logger.Logger) LocationJurisdictionRepo {
	repoLog := baseLog.With("repo", "LocationJurisdictionRepo")
	return &locationJurisdictionRepo{db: db, log: repoLog}
}

func (r *locationJurisdictionRepo) Attach(dbc dbctx.Context, rows []*types.LocationJurisdiction) error {
	if len(rows) == 0 {
		return nil
	}
	for _, lj := range rows {
		if lj.ID == uuid.Nil {
			lj.ID = uuid.New()
		}
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "location_id"}, {Name: "jurisdiction_id"}, {Name: "jurisdiction_layer"}},
			DoNothing: true,
		}).
		Omit("Jurisdiction").
		Create(&rows).Error
}

func (r *locationJurisdictionRepo) ListByLocation(dbc dbctx.Context, locationID uuid.UUID) ([]*types.LocationJurisdiction, error) {
	var out []*types.LocationJurisdiction
	if err := dbc.Conn(r.db).
		Preload("Jurisdiction").
		Where("location_id = ?", locationID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type JurisdictionOverrideRepo interface {
	Upsert(dbc dbctx.Context, rows []*types.JurisdictionViolationOverride) error
	ListByJurisdictionIDs(dbc dbctx.Context, jurisdictionIDs []uuid.UUID) ([]*types.JurisdictionViolationOverride, error)
}

type jurisdictionOverrideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJurisdictionOverrideRepo(db *gorm.DB, baseLog *logger.Logger) JurisdictionOverrideRepo {
	repoLog := baseLog.With("repo", "JurisdictionOverrideRepo")
	return &jurisdictionOverrideRepo{db: db, log: repoLog}
}

func (r *jurisdictionOverrideRepo) Upsert(dbc dbctx.Context, rows []*types.JurisdictionViolationOverride) error {
	if len(rows) == 0 {
		return nil
	}
	for _, o := range rows {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "jurisdiction_id"}, {Name: "violation_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"severity", "point_deduction", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *jurisdictionOverrideRepo) ListByJurisdictionIDs(dbc dbctx.Context, jurisdictionIDs []uuid.UUID) ([]*types.JurisdictionViolationOverride, error) {
	var out []*types.JurisdictionViolationOverride
	if len(jurisdictionIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("jurisdiction_id IN ?", jurisdictionIDs).
		Order("violation_code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
