package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yungbote/evidly-backend/internal/data/repos"
	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/scoring"
	"github.com/yungbote/evidly-backend/internal/scoring/catalog"
)

const catalogCacheKey = "catalog:active"

type CatalogService interface {
	// Items returns the active catalog, served from cache within the TTL.
	Items(ctx context.Context) ([]scoring.CatalogItem, error)
	// SeedDefaults inserts embedded catalog items whose codes are missing.
	// Existing rows are left untouched.
	SeedDefaults(ctx context.Context) (int64, error)
	Invalidate()
}

type catalogService struct {
	log   *logger.Logger
	repo  repos.ViolationCatalogRepo
	cache *cache.Cache
}

func NewCatalogService(log *logger.Logger, repo repos.ViolationCatalogRepo, ttl time.Duration) CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &catalogService{
		log:   log.With("service", "CatalogService"),
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *catalogService) Items(ctx context.Context) ([]scoring.CatalogItem, error) {
	if v, ok := s.cache.Get(catalogCacheKey); ok {
		if items, ok := v.([]scoring.CatalogItem); ok {
			return items, nil
		}
	}
	rows, err := s.repo.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("load violation catalog: %w", err)
	}
	items := make([]scoring.CatalogItem, 0, len(rows))
	for _, row := range rows {
		it, ok := catalogItemFromRow(row)
		if !ok {
			s.log.Warn("skipping catalog item with unknown pillar", "code", row.Code, "pillar", row.EvidlyPillar)
			continue
		}
		items = append(items, it)
	}
	s.cache.SetDefault(catalogCacheKey, items)
	return items, nil
}

func (s *catalogService) SeedDefaults(ctx context.Context) (int64, error) {
	defaults, err := catalog.Default()
	if err != nil {
		return 0, fmt.Errorf("load default catalog: %w", err)
	}
	rows := make([]*types.ViolationCatalogItem, 0, len(defaults))
	for i, it := range defaults {
		rows = append(rows, &types.ViolationCatalogItem{
			Code:                  it.Code,
			Title:                 it.Title,
			EvidlyPillar:          string(it.Pillar),
			EvidlyModule:          string(it.Module),
			SeverityDefault:       string(it.Severity),
			PointDeductionDefault: it.Points,
			CDCRiskFactor:         it.CDCRiskFactor,
			Active:                true,
			SortOrder:             i,
		})
	}
	n, err := s.repo.InsertMissing(dbctx.Context{Ctx: ctx}, rows)
	if err != nil {
		return 0, fmt.Errorf("seed violation catalog: %w", err)
	}
	if n > 0 {
		s.log.Info("Seeded violation catalog", "inserted", n, "defaults", len(rows))
		s.Invalidate()
	}
	return n, nil
}

func (s *catalogService) Invalidate() {
	s.cache.Delete(catalogCacheKey)
}

func catalogItemFromRow(row *types.ViolationCatalogItem) (scoring.CatalogItem, bool) {
	if row == nil {
		return scoring.CatalogItem{}, false
	}
	pillar, ok := scoring.ParsePillar(row.EvidlyPillar)
	if !ok {
		return scoring.CatalogItem{}, false
	}
	points := row.PointDeductionDefault
	if points < 0 {
		points = 0
	}
	return scoring.CatalogItem{
		Code:          row.Code,
		Title:         row.Title,
		Pillar:        pillar,
		Module:        scoring.Module(row.EvidlyModule),
		Severity:      scoring.ParseSeverity(row.SeverityDefault),
		Points:        points,
		CDCRiskFactor: row.CDCRiskFactor,
	}, true
}
