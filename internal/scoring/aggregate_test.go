package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pillarResult(id string, pillar Pillar, normalized, ops, docs float64) JurisdictionScore {
	return JurisdictionScore{
		ScoreResult:   ScoreResult{JurisdictionID: id, Pillar: pillar, NormalizedScore: normalized},
		Operations:    &ScoreResult{JurisdictionID: id, Pillar: pillar, NormalizedScore: ops},
		Documentation: &ScoreResult{JurisdictionID: id, Pillar: pillar, NormalizedScore: docs},
	}
}

func TestWeightsFromPercent(t *testing.T) {
	cases := []struct {
		name                  string
		food, fire, ops, docs float64
		want                  Weights
		ok                    bool
	}{
		{"defaults", 60, 40, 50, 50, Weights{FoodSafety: 0.6, FireSafety: 0.4, Ops: 0.5, Docs: 0.5}, true},
		{"rescaled pair", 30, 20, 70, 30, Weights{FoodSafety: 0.6, FireSafety: 0.4, Ops: 0.7, Docs: 0.3}, false},
		{"zero pair", 0, 0, 50, 50, Weights{FoodSafety: 0.6, FireSafety: 0.4, Ops: 0.5, Docs: 0.5}, false},
		{"negative member", -10, 100, 50, 50, Weights{FoodSafety: 0, FireSafety: 1, Ops: 0.5, Docs: 0.5}, false},
		{"all food", 100, 0, 100, 0, Weights{FoodSafety: 1, FireSafety: 0, Ops: 1, Docs: 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := WeightsFromPercent(tc.food, tc.fire, tc.ops, tc.docs)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want.FoodSafety, got.FoodSafety, 1e-9)
			assert.InDelta(t, tc.want.FireSafety, got.FireSafety, 1e-9)
			assert.InDelta(t, tc.want.Ops, got.Ops, 1e-9)
			assert.InDelta(t, tc.want.Docs, got.Docs, 1e-9)
		})
	}
}

func TestMostRestrictive(t *testing.T) {
	_, ok := MostRestrictive(nil)
	assert.False(t, ok)

	first := Jurisdiction{ID: "a"}
	flagged := Jurisdiction{ID: "b", MostRestrictive: true}

	got, ok := MostRestrictive([]Jurisdiction{first, flagged})
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	got, ok = MostRestrictive([]Jurisdiction{first, {ID: "c"}})
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)

	assert.Equal(t, DefaultWeights(), PillarWeights(nil))
	custom := Weights{FoodSafety: 0.7, FireSafety: 0.3, Ops: 0.4, Docs: 0.6}
	assert.Equal(t, custom, PillarWeights([]Jurisdiction{first, {ID: "d", MostRestrictive: true, Weights: custom}}))
}

func TestAggregateTakesMinimumPerPillar(t *testing.T) {
	scores := []JurisdictionScore{
		pillarResult("county", PillarFoodSafety, 95, 96, 94),
		pillarResult("city", PillarFoodSafety, 60, 70, 50),
	}
	got := Aggregate("loc-1", DefaultWeights(), scores, testNow)

	assert.Equal(t, 60.0, got.FoodSafety.Score)
	assert.Equal(t, 70.0, got.FoodSafety.Ops)
	assert.Equal(t, 50.0, got.FoodSafety.Docs)
	assert.Equal(t, 100.0, got.FireSafety.Score)
	assert.InDelta(t, 0.6*60+0.4*100, got.OverallScore, 1e-9)
	assert.Len(t, got.Jurisdictions, 2)
	assert.Equal(t, "loc-1", got.LocationID)
}

func TestAggregateEmptyPillarsDefaultToHundred(t *testing.T) {
	got := Aggregate("loc-1", DefaultWeights(), nil, testNow)
	assert.Equal(t, 100.0, got.FoodSafety.Score)
	assert.Equal(t, 100.0, got.FireSafety.Score)
	assert.Equal(t, 100.0, got.OverallScore)
	assert.NotNil(t, got.Jurisdictions)
}

func TestScenarioBothPillarsWeighted(t *testing.T) {
	w, ok := WeightsFromPercent(60, 40, 50, 50)
	require.True(t, ok)

	scores := []JurisdictionScore{
		pillarResult("food", PillarFoodSafety, 80, 60, 100),
		pillarResult("fire", PillarFireSafety, 100, 100, 100),
	}
	got := Aggregate("loc-1", w, scores, testNow)
	assert.Equal(t, 88.0, got.OverallScore)
	assert.Equal(t, 0.6, got.FoodSafety.Weight)
	assert.Equal(t, 0.4, got.FireSafety.Weight)
	assert.Equal(t, w, got.WeightsUsed)
}

func TestScenarioBothPillarsEndToEnd(t *testing.T) {
	food := foodJurisdiction("weighted_deduction", "letter_grade")
	fire := Jurisdiction{
		ID:      "j-fire",
		Name:    "Test Fire District",
		Layer:   PillarFireSafety,
		Scoring: WeightedDeduction{},
		Grading: PassReinspect{},
		Weights: DefaultWeights(),
	}
	// Only the temperature items fail; an active HACCP plan keeps H1 compliant.
	s := &Signals{
		AsOf:       testNow,
		Checklists: completions(5, 0, true),
		HACCPPlans: []HACCPPlan{{Active: true}},
	}
	catalog := testCatalog()
	scores := []JurisdictionScore{
		ScoreJurisdiction(food, catalog, s, testNow),
		ScoreJurisdiction(fire, catalog, s, testNow),
	}
	got := Aggregate("loc-1", PillarWeights([]Jurisdiction{food, fire}), scores, testNow)

	assert.Equal(t, 93.0, got.FoodSafety.Ops)
	assert.Equal(t, 100.0, got.FoodSafety.Docs)
	assert.Equal(t, 96.5, got.FoodSafety.Score)
	assert.Equal(t, 100.0, got.FireSafety.Score)
	assert.InDelta(t, 0.6*96.5+0.4*100, got.OverallScore, 0.005)
}
