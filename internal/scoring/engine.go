package scoring

import "time"

// Jurisdiction is a resolved regulatory authority as the engine needs it:
// strategies already picked, weights already validated.
type Jurisdiction struct {
	ID              string
	Name            string
	Layer           Pillar
	MostRestrictive bool

	Scoring       ScoringAlgorithm
	Grading       GradingPolicy
	GradingConfig GradingConfig
	Thresholds    Thresholds
	Weights       Weights
	Overrides     Overrides
}

// ScoreResult is one jurisdiction x sub-component calculation.
type ScoreResult struct {
	JurisdictionID   string       `json:"jurisdictionId"`
	JurisdictionName string       `json:"jurisdictionName"`
	ScoringType      ScoringType  `json:"scoringType"`
	GradingType      GradingType  `json:"gradingType"`
	Pillar           Pillar       `json:"pillar"`
	SubComponent     SubComponent `json:"subComponent"`

	RawScore        float64     `json:"rawScore"`
	NormalizedScore float64     `json:"normalizedScore"`
	TotalPoints     int         `json:"totalPoints"`
	Grade           string      `json:"grade"`
	GradeDisplay    string      `json:"gradeDisplay"`
	PassFail        Outcome     `json:"passFail"`
	Violations      []Violation `json:"violations"`

	MajorViolations   int  `json:"majorViolations"`
	MinorViolations   int  `json:"minorViolations"`
	UncorrectedMajors int  `json:"uncorrectedMajors"`
	ImminentHazard    bool `json:"imminentHazard"`

	Weights      Weights   `json:"weights"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

// JurisdictionScore is the combined result for one jurisdiction plus its
// operations and documentation halves.
type JurisdictionScore struct {
	ScoreResult
	Operations    *ScoreResult `json:"operations,omitempty"`
	Documentation *ScoreResult `json:"documentation,omitempty"`
}

// Results flattens the combined and sub-component calculations.
func (js JurisdictionScore) Results() []ScoreResult {
	out := []ScoreResult{js.ScoreResult}
	if js.Operations != nil {
		out = append(out, *js.Operations)
	}
	if js.Documentation != nil {
		out = append(out, *js.Documentation)
	}
	return out
}

func filterSubComponent(vs []Violation, sub SubComponent) []Violation {
	out := make([]Violation, 0, len(vs))
	for _, v := range vs {
		if SubComponentFor(v.Module) == sub {
			out = append(out, v)
		}
	}
	return out
}

func scoreViolations(j Jurisdiction, sub SubComponent, vs []Violation, hazard bool, now time.Time) ScoreResult {
	alg := j.Scoring
	if alg == nil {
		alg = UnknownScoring{}
	}
	policy := j.Grading
	if policy == nil {
		policy = UnknownGrading{}
	}
	score := alg.Calculate(vs)
	tally := TallyViolations(vs)
	grade := DetermineGrade(policy, GradeInput{
		RawScore:     score.Raw,
		TotalPoints:  score.TotalPoints,
		Tally:        tally,
		HazardSignal: hazard,
		Config:       j.GradingConfig,
		Thresholds:   j.Thresholds,
	})
	return ScoreResult{
		JurisdictionID:    j.ID,
		JurisdictionName:  j.Name,
		ScoringType:       alg.Type(),
		GradingType:       policy.Type(),
		Pillar:            j.Layer,
		SubComponent:      sub,
		RawScore:          Clamp(score.Raw),
		NormalizedScore:   Clamp(score.Raw),
		TotalPoints:       score.TotalPoints,
		Grade:             grade.Grade,
		GradeDisplay:      grade.Display,
		PassFail:          grade.Outcome,
		Violations:        vs,
		MajorViolations:   tally.Major,
		MinorViolations:   tally.Minor,
		UncorrectedMajors: tally.UncorrectedMajors,
		ImminentHazard:    grade.ImminentHazard,
		Weights:           j.Weights,
		CalculatedAt:      now,
	}
}

// ScoreJurisdiction runs evaluate -> score -> grade for one jurisdiction over
// the catalog items of its layer, once per sub-component and once combined.
func ScoreJurisdiction(j Jurisdiction, catalog []CatalogItem, s *Signals, now time.Time) JurisdictionScore {
	if s == nil {
		s = &Signals{AsOf: now}
	}
	hazard := s.HazardFlagged()
	violations := Evaluate(ItemsForPillar(catalog, j.Layer), j.Overrides, s)

	ops := scoreViolations(j, SubComponentOperations, filterSubComponent(violations, SubComponentOperations), hazard, now)
	docs := scoreViolations(j, SubComponentDocumentation, filterSubComponent(violations, SubComponentDocumentation), hazard, now)

	combined := scoreViolations(j, SubComponentCombined, violations, hazard, now)
	w := j.Weights.subComponentsOrDefault()
	combined.NormalizedScore = Clamp(round2(ops.NormalizedScore*w.Ops + docs.NormalizedScore*w.Docs))

	return JurisdictionScore{
		ScoreResult:   combined,
		Operations:    &ops,
		Documentation: &docs,
	}
}

// IsFallback reports whether either strategy came from an unrecognised
// identifier.
func (j Jurisdiction) IsFallback() (scoring bool, grading bool) {
	_, scoring = j.Scoring.(UnknownScoring)
	_, grading = j.Grading.(UnknownGrading)
	return scoring, grading
}
