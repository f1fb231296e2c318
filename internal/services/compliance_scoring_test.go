package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/evidly-backend/internal/data/repos/testutil"
	"github.com/yungbote/evidly-backend/internal/platform/apierr"
	"github.com/yungbote/evidly-backend/internal/scoring"
)

func TestCalculatePersistsAndPublishes(t *testing.T) {
	env := newScoringEnv(t)
	loc, j := env.seedFoodLocation(t, "weighted_deduction", "letter_grade")
	// No temperature logs: T1 fails. Checklists and documents are clean.
	testutil.SeedChecklistCompletion(t, env.ctx, env.db, loc.ID, 0, testNow.Add(-2*time.Hour))
	testutil.SeedDocument(t, env.ctx, env.db, loc.ID, "Health permit", testutil.PtrTime(testNow.AddDate(1, 0, 0)), nil)

	pub := &fakePublisher{}
	svc := env.service(pub)

	got, err := svc.Calculate(env.ctx, loc.ID.String(), true)
	require.NoError(t, err)
	require.Len(t, got.Jurisdictions, 1)

	js := got.Jurisdictions[0]
	assert.Equal(t, j.ID.String(), js.JurisdictionID)
	assert.Equal(t, 96.0, js.RawScore)
	assert.Equal(t, "A", js.Grade)
	assert.Equal(t, 96.0, got.FoodSafety.Ops)
	assert.Equal(t, 100.0, got.FoodSafety.Docs)
	assert.Equal(t, 98.0, got.FoodSafety.Score)
	assert.Equal(t, 100.0, got.FireSafety.Score)
	assert.InDelta(t, 98.8, got.OverallScore, 1e-9)
	assert.Len(t, got.InputHash, 64)
	assert.Equal(t, scoring.EngineVersion, got.EngineVersion)
	assert.Equal(t, testNow, got.CalculatedAt)

	snaps, err := svc.Snapshots(env.ctx, loc.ID.String(), 0)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2026-03-14", snaps[0].SnapshotDate)
	assert.InDelta(t, 98.8, snaps[0].OverallScore, 1e-9)
	assert.Equal(t, got.InputHash, snaps[0].InputHash)
	assert.Equal(t, 100.0, snaps[0].ChecklistCompletionPct)
	assert.Equal(t, 100.0, snaps[0].DocumentsCurrentPct)
	assert.Equal(t, 0.0, snaps[0].TempInRangePct)
	assert.Nil(t, snaps[0].VendorScore)
	assert.Equal(t, int64(3), env.countCalculations(t, loc.ID))

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, ScoreEventUpdated, ev.Event)
	assert.Equal(t, loc.ID.String(), ev.LocationID)
	assert.InDelta(t, 98.8, ev.OverallScore, 1e-9)
	assert.False(t, ev.ImminentRisk)
	assert.Equal(t, got.InputHash, ev.InputHash)

	// Recalculating the same day replaces the snapshot and appends audit rows.
	again, err := svc.Calculate(env.ctx, loc.ID.String(), true)
	require.NoError(t, err)
	assert.Equal(t, got.InputHash, again.InputHash)
	snaps, err = svc.Snapshots(env.ctx, loc.ID.String(), 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
	assert.Equal(t, int64(6), env.countCalculations(t, loc.ID))
}

func TestCalculateWithoutAudit(t *testing.T) {
	env := newScoringEnv(t)
	loc, _ := env.seedFoodLocation(t, "weighted_deduction", "letter_grade")
	pub := &fakePublisher{}

	got, err := env.service(pub).Calculate(env.ctx, loc.ID.String(), false)
	require.NoError(t, err)
	assert.NotEmpty(t, got.InputHash)

	snaps, err := env.set.ScoreSnapshot.ListByLocation(dbcFor(env), loc.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, snaps)
	assert.Equal(t, int64(0), env.countCalculations(t, loc.ID))
	assert.Len(t, pub.events, 1)
}

func TestCalculateRejectsBadLocation(t *testing.T) {
	env := newScoringEnv(t)
	svc := env.service(nil)

	cases := []struct {
		name string
		raw  string
		code string
		want error
	}{
		{"missing", "  ", CodeMissingLocationID, ErrMissingLocationID},
		{"not a uuid", "kitchen-7", CodeInvalidLocationID, ErrInvalidLocationID},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", CodeInvalidLocationID, ErrInvalidLocationID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Calculate(env.ctx, tc.raw, true)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			ae := apierr.From(err, CodeScoringFailed)
			assert.Equal(t, http.StatusBadRequest, ae.Status)
			assert.Equal(t, tc.code, ae.Code)
		})
	}
}

func TestCalculateWithoutJurisdictions(t *testing.T) {
	env := newScoringEnv(t)
	loc := testutil.SeedLocation(t, env.ctx, env.db, "Unassigned")
	pub := &fakePublisher{}

	got, err := env.service(pub).Calculate(env.ctx, loc.ID.String(), true)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrJurisdictionNotConfigured))

	ae := apierr.From(err, CodeScoringFailed)
	assert.Equal(t, http.StatusNotFound, ae.Status)
	assert.Equal(t, CodeJurisdictionNotConfigured, ae.Code)
	assert.Empty(t, pub.events)
	assert.Equal(t, int64(0), env.countCalculations(t, loc.ID))
}

func TestCalculateOpenHazardClosesLocation(t *testing.T) {
	env := newScoringEnv(t)
	loc, _ := env.seedFoodLocation(t, "weighted_deduction", "score_100")
	testutil.SeedHazardReport(t, env.ctx, env.db, loc.ID, "sewage_backup", testNow.Add(-30*time.Minute))
	pub := &fakePublisher{}

	got, err := env.service(pub).Calculate(env.ctx, loc.ID.String(), true)
	require.NoError(t, err)
	for _, r := range got.Jurisdictions[0].Results() {
		assert.Equal(t, scoring.ClosedGrade, r.Grade)
		assert.Equal(t, scoring.OutcomeClosed, r.PassFail)
		assert.True(t, r.ImminentHazard)
	}
	require.Len(t, pub.events, 1)
	assert.True(t, pub.events[0].ImminentRisk)
}

func TestCalculateTakesStrictestFoodJurisdiction(t *testing.T) {
	env := newScoringEnv(t)
	loc, _ := env.seedFoodLocation(t, "weighted_deduction", "letter_grade")
	city := testutil.SeedJurisdiction(t, env.ctx, env.db, "City of Fresno", "heavy_weighted", "score_100", "")
	testutil.AttachJurisdiction(t, env.ctx, env.db, loc.ID, city.ID, "food_safety", false, testNow.AddDate(0, 0, -1))

	got, err := env.service(nil).Calculate(env.ctx, loc.ID.String(), true)
	require.NoError(t, err)
	require.Len(t, got.Jurisdictions, 2)

	lowest := 100.0
	for _, js := range got.Jurisdictions {
		lowest = min(lowest, js.NormalizedScore)
	}
	assert.Equal(t, lowest, got.FoodSafety.Score)
	assert.Less(t, got.Jurisdictions[1].RawScore, got.Jurisdictions[0].RawScore)
	assert.Equal(t, int64(6), env.countCalculations(t, loc.ID))
}

func TestCalculateSurvivesAuditFailure(t *testing.T) {
	env := newScoringEnv(t)
	loc, _ := env.seedFoodLocation(t, "weighted_deduction", "letter_grade")

	set := env.set
	set.ScoreSnapshot = failingSnapshotRepo{env.set.ScoreSnapshot}
	want, err := env.service(nil).Calculate(env.ctx, loc.ID.String(), false)
	require.NoError(t, err)

	got, err := env.serviceWith(set, nil).Calculate(env.ctx, loc.ID.String(), true)
	require.NoError(t, err)
	assert.Equal(t, want.OverallScore, got.OverallScore)
	assert.Equal(t, want.InputHash, got.InputHash)

	rows, err := env.set.ScoreCalculation.ListByLocation(dbcFor(env), loc.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Nil(t, r.SnapshotID)
	}
	n, err := promtest.GatherAndCount(env.reg, "compliance_persistence_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCalculateIgnoresPublishFailure(t *testing.T) {
	env := newScoringEnv(t)
	loc, _ := env.seedFoodLocation(t, "weighted_deduction", "letter_grade")
	pub := &fakePublisher{err: errBoom}

	got, err := env.service(pub).Calculate(env.ctx, loc.ID.String(), false)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Len(t, pub.events, 1)

	n, err := promtest.GatherAndCount(env.reg, "compliance_score_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSnapshotsLimit(t *testing.T) {
	env := newScoringEnv(t)
	loc, _ := env.seedFoodLocation(t, "weighted_deduction", "letter_grade")
	svc := env.service(nil)

	for i := 0; i < 3; i++ {
		day := testNow.AddDate(0, 0, -i)
		s := NewComplianceScoringService(env.log, ScoringDeps{
			Resolver:  NewJurisdictionResolver(env.log, env.set.LocationJurisdiction, env.set.JurisdictionOverride, time.Minute, nil),
			Catalog:   NewCatalogService(env.log, env.set.ViolationCatalog, time.Minute),
			Collector: NewComplianceCollector(env.log, env.set, 0, nil),
			Writer:    NewAuditSnapshotWriter(env.log, env.set.ScoreSnapshot, env.set.ScoreCalculation, nil),
			Snapshots: env.set.ScoreSnapshot,
			Now:       func() time.Time { return day },
		}, ScoringConfig{})
		_, err := s.Calculate(env.ctx, loc.ID.String(), true)
		require.NoError(t, err)
	}

	all, err := svc.Snapshots(env.ctx, loc.ID.String(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-14", all[0].SnapshotDate)
	assert.Equal(t, "2026-03-12", all[2].SnapshotDate)

	two, err := svc.Snapshots(env.ctx, loc.ID.String(), 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	_, err = svc.Snapshots(env.ctx, "bad", 2)
	assert.ErrorIs(t, err, ErrInvalidLocationID)
}
