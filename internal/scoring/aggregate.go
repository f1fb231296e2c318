package scoring

import "time"

// Weights are fractions: FoodSafety+FireSafety = 1 and Ops+Docs = 1.
type Weights struct {
	FoodSafety float64 `json:"foodSafety"`
	FireSafety float64 `json:"fireSafety"`
	Ops        float64 `json:"ops"`
	Docs       float64 `json:"docs"`
}

const (
	DefaultFoodSafetyWeight = 60
	DefaultFireSafetyWeight = 40
	DefaultOpsWeight        = 50
	DefaultDocsWeight       = 50
)

func DefaultWeights() Weights {
	w, _ := WeightsFromPercent(DefaultFoodSafetyWeight, DefaultFireSafetyWeight, DefaultOpsWeight, DefaultDocsWeight)
	return w
}

// WeightsFromPercent converts the stored percentage pairs to fractions. A pair
// with a negative member or a sum other than 100 is rescaled to its own sum,
// or replaced by the default pair when that sum is not positive; ok is false
// whenever either pair needed fixing.
func WeightsFromPercent(food, fire, ops, docs float64) (Weights, bool) {
	f, fi, okPillar := splitPair(food, fire, DefaultFoodSafetyWeight, DefaultFireSafetyWeight)
	o, d, okSub := splitPair(ops, docs, DefaultOpsWeight, DefaultDocsWeight)
	return Weights{FoodSafety: f, FireSafety: fi, Ops: o, Docs: d}, okPillar && okSub
}

func splitPair(a, b, defA, defB float64) (float64, float64, bool) {
	ok := a >= 0 && b >= 0 && a+b == 100
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	sum := a + b
	if sum <= 0 {
		a, b, sum = defA, defB, defA+defB
	}
	return a / sum, b / sum, ok
}

func (w Weights) subComponentsOrDefault() Weights {
	if w.Ops+w.Docs <= 0 {
		d := DefaultWeights()
		w.Ops, w.Docs = d.Ops, d.Docs
	}
	return w
}

func (w Weights) pillarsOrDefault() Weights {
	if w.FoodSafety+w.FireSafety <= 0 {
		d := DefaultWeights()
		w.FoodSafety, w.FireSafety = d.FoodSafety, d.FireSafety
	}
	return w
}

// MostRestrictive returns the association flagged most restrictive. When
// none is flagged the first association stands in. ok is false only for an
// empty list.
func MostRestrictive(js []Jurisdiction) (Jurisdiction, bool) {
	if len(js) == 0 {
		return Jurisdiction{}, false
	}
	for _, j := range js {
		if j.MostRestrictive {
			return j, true
		}
	}
	return js[0], true
}

// PillarWeights resolves the weights used for aggregation.
func PillarWeights(js []Jurisdiction) Weights {
	if j, ok := MostRestrictive(js); ok {
		return j.Weights.pillarsOrDefault().subComponentsOrDefault()
	}
	return DefaultWeights()
}

type PillarScore struct {
	Score  float64 `json:"score"`
	Ops    float64 `json:"ops"`
	Docs   float64 `json:"docs"`
	Weight float64 `json:"weight"`
}

type OverallScore struct {
	LocationID    string              `json:"locationId"`
	OverallScore  float64             `json:"overallScore"`
	FoodSafety    PillarScore         `json:"foodSafety"`
	FireSafety    PillarScore         `json:"fireSafety"`
	Jurisdictions []JurisdictionScore `json:"jurisdictions"`
	WeightsUsed   Weights             `json:"weightsUsed"`

	InputHash     string    `json:"inputHash,omitempty"`
	EngineVersion string    `json:"engineVersion,omitempty"`
	CalculatedAt  time.Time `json:"calculatedAt"`
}

// NoApplicableRegulationScore is a pillar's score when no jurisdiction covers it.
const NoApplicableRegulationScore = 100.0

// pillarScore takes the minimum across jurisdictions in the pillar: the
// strictest applicable authority sets the pillar score.
func pillarScore(pillar Pillar, scores []JurisdictionScore, weight float64) PillarScore {
	out := PillarScore{
		Score:  NoApplicableRegulationScore,
		Ops:    NoApplicableRegulationScore,
		Docs:   NoApplicableRegulationScore,
		Weight: weight,
	}
	for _, js := range scores {
		if js.Pillar != pillar {
			continue
		}
		out.Score = min(out.Score, js.NormalizedScore)
		if js.Operations != nil {
			out.Ops = min(out.Ops, js.Operations.NormalizedScore)
		}
		if js.Documentation != nil {
			out.Docs = min(out.Docs, js.Documentation.NormalizedScore)
		}
	}
	return out
}

// Aggregate combines per-jurisdiction results into the location score.
func Aggregate(locationID string, weights Weights, scores []JurisdictionScore, now time.Time) OverallScore {
	weights = weights.pillarsOrDefault().subComponentsOrDefault()
	food := pillarScore(PillarFoodSafety, scores, weights.FoodSafety)
	fire := pillarScore(PillarFireSafety, scores, weights.FireSafety)
	overall := Clamp(round2(food.Score*weights.FoodSafety + fire.Score*weights.FireSafety))
	if scores == nil {
		scores = []JurisdictionScore{}
	}
	return OverallScore{
		LocationID:    locationID,
		OverallScore:  overall,
		FoodSafety:    food,
		FireSafety:    fire,
		Jurisdictions: scores,
		WeightsUsed:   weights,
		CalculatedAt:  now,
	}
}
