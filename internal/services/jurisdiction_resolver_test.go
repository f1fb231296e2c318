package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/evidly-backend/internal/data/repos/testutil"
	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/apierr"
	"github.com/yungbote/evidly-backend/internal/scoring"
)

func newResolver(env *scoringEnv) JurisdictionResolver {
	return NewJurisdictionResolver(env.log, env.set.LocationJurisdiction, env.set.JurisdictionOverride, time.Minute, env.metrics)
}

func TestResolveBuildsProfiles(t *testing.T) {
	env := newScoringEnv(t)
	loc := testutil.SeedLocation(t, env.ctx, env.db, "Tower District")
	county := testutil.SeedJurisdiction(t, env.ctx, env.db, "Fresno County EH", "major_violation_count", "letter_grade",
		`{"letter_thresholds":{"a":85,"b":75,"c":65},"fail_below":65}`)
	fire := testutil.SeedJurisdiction(t, env.ctx, env.db, "Fresno Fire", "weighted_deduction", "pass_reinspect", "")
	testutil.AttachJurisdiction(t, env.ctx, env.db, loc.ID, county.ID, "food_safety", true, testNow.AddDate(0, 0, -2))
	testutil.AttachJurisdiction(t, env.ctx, env.db, loc.ID, fire.ID, "fire_safety", false, testNow.AddDate(0, 0, -1))

	sev := "critical"
	pts := 9
	require.NoError(t, env.set.JurisdictionOverride.Upsert(dbcFor(env), []*types.JurisdictionViolationOverride{
		{ID: uuid.New(), JurisdictionID: county.ID, ViolationCode: "C1", Severity: &sev, PointDeduction: &pts},
	}))

	got, err := newResolver(env).Resolve(env.ctx, loc.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	food := got[0]
	assert.Equal(t, county.ID.String(), food.ID)
	assert.Equal(t, scoring.PillarFoodSafety, food.Layer)
	assert.True(t, food.MostRestrictive)
	assert.Equal(t, scoring.ScoringMajorViolationCount, food.Scoring.Type())
	assert.Equal(t, scoring.GradingLetterGrade, food.Grading.Type())
	require.NotNil(t, food.GradingConfig.LetterThresholds)
	assert.Equal(t, 85.0, food.GradingConfig.LetterThresholds.A)
	require.NotNil(t, food.GradingConfig.FailBelow)
	assert.Equal(t, 65.0, *food.GradingConfig.FailBelow)
	assert.Equal(t, scoring.DefaultThresholds, food.Thresholds)
	assert.Equal(t, scoring.DefaultWeights(), food.Weights)
	require.Contains(t, food.Overrides, "C1")
	assert.Equal(t, scoring.SeverityCritical, food.Overrides["C1"].Severity)
	require.NotNil(t, food.Overrides["C1"].Points)
	assert.Equal(t, 9, *food.Overrides["C1"].Points)

	assert.Equal(t, scoring.PillarFireSafety, got[1].Layer)
	assert.Empty(t, got[1].Overrides)
}

func TestResolveNormalizesProfileInputs(t *testing.T) {
	env := newScoringEnv(t)
	loc := testutil.SeedLocation(t, env.ctx, env.db, "Fig Garden")
	j := testutil.SeedJurisdiction(t, env.ctx, env.db, "Odd County", "county_special_v2", "placard_v9", `{"fail_below":"high"}`)
	require.NoError(t, env.db.Model(j).Updates(map[string]any{
		"food_safety_weight": 30,
		"fire_safety_weight": 20,
		"ops_weight":         70,
		"docs_weight":        30,
		"pass_threshold":     0,
	}).Error)
	testutil.AttachJurisdiction(t, env.ctx, env.db, loc.ID, j.ID, "food_safety", true, testNow)

	got, err := newResolver(env).Resolve(env.ctx, loc.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	fs, fg := p.IsFallback()
	assert.True(t, fs)
	assert.True(t, fg)
	assert.Equal(t, scoring.GradingConfig{}, p.GradingConfig)
	assert.Equal(t, scoring.DefaultThresholds.Pass, p.Thresholds.Pass)
	assert.InDelta(t, 0.6, p.Weights.FoodSafety, 1e-9)
	assert.InDelta(t, 0.4, p.Weights.FireSafety, 1e-9)
	assert.InDelta(t, 0.7, p.Weights.Ops, 1e-9)
	assert.InDelta(t, 0.3, p.Weights.Docs, 1e-9)

	n, err := promtest.GatherAndCount(env.reg, "compliance_strategy_fallbacks_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestResolveWithoutUsableJurisdictions(t *testing.T) {
	env := newScoringEnv(t)
	bare := testutil.SeedLocation(t, env.ctx, env.db, "Bare")
	odd := testutil.SeedLocation(t, env.ctx, env.db, "Odd layer")
	j := testutil.SeedJurisdiction(t, env.ctx, env.db, "Water District", "weighted_deduction", "letter_grade", "")
	testutil.AttachJurisdiction(t, env.ctx, env.db, odd.ID, j.ID, "water_quality", true, testNow)

	for _, id := range []uuid.UUID{bare.ID, odd.ID} {
		_, err := newResolver(env).Resolve(env.ctx, id)
		require.ErrorIs(t, err, ErrJurisdictionNotConfigured)
		ae := apierr.From(err, CodeScoringFailed)
		assert.Equal(t, http.StatusNotFound, ae.Status)
		assert.Equal(t, CodeJurisdictionNotConfigured, ae.Code)
	}
}

func TestResolveCachesOverrides(t *testing.T) {
	env := newScoringEnv(t)
	loc := testutil.SeedLocation(t, env.ctx, env.db, "Clovis")
	j := testutil.SeedJurisdiction(t, env.ctx, env.db, "Clovis EH", "weighted_deduction", "letter_grade", "")
	testutil.AttachJurisdiction(t, env.ctx, env.db, loc.ID, j.ID, "food_safety", true, testNow)
	r := newResolver(env)

	first, err := r.Resolve(env.ctx, loc.ID)
	require.NoError(t, err)
	assert.Empty(t, first[0].Overrides)

	sev := "minor"
	require.NoError(t, env.set.JurisdictionOverride.Upsert(dbcFor(env), []*types.JurisdictionViolationOverride{
		{ID: uuid.New(), JurisdictionID: j.ID, ViolationCode: "T1", Severity: &sev},
	}))

	cached, err := r.Resolve(env.ctx, loc.ID)
	require.NoError(t, err)
	assert.Empty(t, cached[0].Overrides)

	fresh, err := newResolver(env).Resolve(env.ctx, loc.ID)
	require.NoError(t, err)
	require.Contains(t, fresh[0].Overrides, "T1")
	assert.Equal(t, scoring.SeverityMinor, fresh[0].Overrides["T1"].Severity)
	assert.Nil(t, fresh[0].Overrides["T1"].Points)
}
