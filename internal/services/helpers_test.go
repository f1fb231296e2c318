package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/evidly-backend/internal/data/repos"
	"github.com/yungbote/evidly-backend/internal/data/repos/testutil"
	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

var errBoom = errors.New("boom")

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// scoringEnv is a migrated database plus the repo set over it. Fixtures are
// written on the root handle: the SQLite test pool holds one connection, so an
// open transaction would block the services under test.
type scoringEnv struct {
	ctx     context.Context
	db      *gorm.DB
	log     *logger.Logger
	set     repos.Set
	reg     *prometheus.Registry
	metrics *observability.Metrics
}

func newScoringEnv(t *testing.T) *scoringEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	return &scoringEnv{
		ctx:     context.Background(),
		db:      db,
		log:     log,
		set:     repos.NewSet(db, log),
		reg:     reg,
		metrics: m,
	}
}

func (e *scoringEnv) service(events ScoreEventPublisher) ComplianceScoringService {
	return e.serviceWith(e.set, events)
}

func (e *scoringEnv) serviceWith(set repos.Set, events ScoreEventPublisher) ComplianceScoringService {
	return NewComplianceScoringService(e.log, ScoringDeps{
		Resolver:  NewJurisdictionResolver(e.log, set.LocationJurisdiction, set.JurisdictionOverride, time.Minute, e.metrics),
		Catalog:   NewCatalogService(e.log, set.ViolationCatalog, time.Minute),
		Collector: NewComplianceCollector(e.log, set, DefaultScoringWindowDays, e.metrics),
		Writer:    NewAuditSnapshotWriter(e.log, set.ScoreSnapshot, set.ScoreCalculation, e.metrics),
		Events:    events,
		Snapshots: set.ScoreSnapshot,
		Metrics:   e.metrics,
		Now:       func() time.Time { return testNow },
	}, ScoringConfig{})
}

// seedFoodLocation creates a location with one most-restrictive food
// jurisdiction and a small food catalog: T1 temperatures critical 4, C1
// checklists major 4, D1 documents minor 2.
func (e *scoringEnv) seedFoodLocation(t *testing.T, scoringType, gradingType string) (*types.Location, *types.Jurisdiction) {
	t.Helper()
	loc := testutil.SeedLocation(t, e.ctx, e.db, "Downtown Kitchen")
	j := testutil.SeedJurisdiction(t, e.ctx, e.db, "Fresno County EH", scoringType, gradingType, "")
	testutil.AttachJurisdiction(t, e.ctx, e.db, loc.ID, j.ID, "food_safety", true, testNow.AddDate(0, -1, 0))
	testutil.SeedCatalogItem(t, e.ctx, e.db, "T1", "food_safety", "temperatures", "critical", 4)
	testutil.SeedCatalogItem(t, e.ctx, e.db, "C1", "food_safety", "checklists", "major", 4)
	testutil.SeedCatalogItem(t, e.ctx, e.db, "D1", "food_safety", "documents", "minor", 2)
	return loc, j
}

func (e *scoringEnv) countCalculations(t *testing.T, locationID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&types.ScoreCalculation{}).Where("location_id = ?", locationID).Count(&n).Error)
	return n
}

type failingTemperatureRepo struct{ repos.TemperatureLogRepo }

func (failingTemperatureRepo) ListInWindow(dbctx.Context, uuid.UUID, time.Time, time.Time) ([]*types.TemperatureLog, error) {
	return nil, errBoom
}

type failingSnapshotRepo struct{ repos.ScoreSnapshotRepo }

func (failingSnapshotRepo) Upsert(dbctx.Context, *types.ScoreSnapshot) (*types.ScoreSnapshot, error) {
	return nil, errBoom
}

type failingCalculationRepo struct{ repos.ScoreCalculationRepo }

func (failingCalculationRepo) Create(dbctx.Context, []*types.ScoreCalculation) ([]*types.ScoreCalculation, error) {
	return nil, errBoom
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []ScoreUpdatedEvent
}

func (p *fakePublisher) PublishScoreUpdated(_ context.Context, ev ScoreUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func dbcFor(e *scoringEnv) dbctx.Context {
	return dbctx.Context{Ctx: e.ctx}
}
