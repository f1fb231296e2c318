package scoring

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestResolveGradingCoversEveryType(t *testing.T) {
	for _, gt := range GradingTypes {
		p := ResolveGrading(string(gt))
		_, unknown := p.(UnknownGrading)
		assert.False(t, unknown, gt)
		assert.Equal(t, gt, p.Type())
	}
}

func TestGradingPolicies(t *testing.T) {
	cases := []struct {
		name        string
		policy      GradingPolicy
		in          GradeInput
		wantGrade   string
		wantDisplay string
		wantOutcome Outcome
	}{
		{"letter A", LetterGrade{}, GradeInput{RawScore: 92}, "A", "A (92)", OutcomePass},
		{"letter C passes at default fail line", LetterGrade{}, GradeInput{RawScore: 70}, "C", "C (70)", OutcomePass},
		{"letter F", LetterGrade{}, GradeInput{RawScore: 65}, "F", "F (65)", OutcomeFail},
		{"letter custom fail line", LetterGrade{}, GradeInput{RawScore: 75, Config: GradingConfig{FailBelow: fptr(80)}}, "C", "C (75)", OutcomeFail},
		{"letter custom breakpoints", LetterGrade{}, GradeInput{RawScore: 86, Config: GradingConfig{LetterThresholds: &LetterThresholds{A: 85, B: 75, C: 65}}}, "A", "A (86)", OutcomePass},
		{"letter partial breakpoints keep defaults", LetterGrade{}, GradeInput{RawScore: 40, Config: GradingConfig{LetterThresholds: &LetterThresholds{A: 93}}}, "F", "F (40)", OutcomeFail},
		{"letter partial breakpoints B", LetterGrade{}, GradeInput{RawScore: 91, Config: GradingConfig{LetterThresholds: &LetterThresholds{A: 93}}}, "B", "B (91)", OutcomePass},
		{"strict default needs A", LetterGradeStrict{}, GradeInput{RawScore: 85}, "B", "B (85)", OutcomeFail},
		{"strict A", LetterGradeStrict{}, GradeInput{RawScore: 90}, "A", "A (90)", OutcomePass},
		{"strict minimum B", LetterGradeStrict{}, GradeInput{RawScore: 85, Config: GradingConfig{MinimumPassingGrade: "b"}}, "B", "B (85)", OutcomePass},
		{"strict ignores fail line", LetterGradeStrict{}, GradeInput{RawScore: 75, Config: GradingConfig{FailBelow: fptr(50)}}, "C", "C (75)", OutcomeFail},
		{"placard green", ColorPlacard{}, GradeInput{Tally: Tally{Major: 1}}, "Green", "Green (Pass)", OutcomePass},
		{"placard yellow", ColorPlacard{}, GradeInput{Tally: Tally{Major: 3}}, "Yellow", "Yellow (Conditional Pass)", OutcomeWarning},
		{"placard red", ColorPlacard{}, GradeInput{Tally: Tally{Major: 4}}, "Red", "Red (Fail)", OutcomeFail},
		{"placard custom caps", ColorPlacard{}, GradeInput{Tally: Tally{Major: 1}, Config: GradingConfig{GreenMaxMajors: iptr(0), YellowMaxMajors: iptr(1)}}, "Yellow", "Yellow (Conditional Pass)", OutcomeWarning},
		{"score_100 pass", Score100{}, GradeInput{RawScore: 70}, "70", "70/100", OutcomePass},
		{"score_100 fail", Score100{}, GradeInput{RawScore: 69.5}, "69.5", "69.5/100", OutcomeFail},
		{"score_100 jurisdiction line", Score100{}, GradeInput{RawScore: 75, Thresholds: Thresholds{Pass: 80}}, "75", "75/100", OutcomeFail},
		{"negative pass", ScoreNegative{}, GradeInput{RawScore: 92}, "-8", "-8 points", OutcomePass},
		{"negative perfect", ScoreNegative{}, GradeInput{RawScore: 100}, "0", "0 points", OutcomePass},
		{"negative warning", ScoreNegative{}, GradeInput{RawScore: 85}, "-15", "-15 points", OutcomeWarning},
		{"negative warning edge", ScoreNegative{}, GradeInput{RawScore: 90}, "-10", "-10 points", OutcomeWarning},
		{"negative fail", ScoreNegative{}, GradeInput{RawScore: 75}, "-25", "-25 points", OutcomeFail},
		{"reinspect clean", PassReinspect{}, GradeInput{RawScore: 100}, "Pass", "Pass", OutcomePass},
		{"reinspect corrected", PassReinspect{}, GradeInput{Tally: Tally{Major: 2}}, "Pass", "Pass — Corrected On-Site", OutcomePass},
		{"reinspect required", PassReinspect{}, GradeInput{Tally: Tally{Major: 2, UncorrectedMajors: 2}}, "Reinspection Required", "Reinspection Required — 2 Major Violation(s)", OutcomeFail},
		{"three tier good", ThreeTierRating{}, GradeInput{TotalPoints: 6}, "Good", "Good (6 points)", OutcomePass},
		{"three tier satisfactory", ThreeTierRating{}, GradeInput{TotalPoints: 7}, "Satisfactory", "Satisfactory (7 points)", OutcomeWarning},
		{"three tier unsatisfactory", ThreeTierRating{}, GradeInput{TotalPoints: 14, RawScore: 99}, "Unsatisfactory", "Unsatisfactory (14 points)", OutcomeFail},
		{"three tier custom bands", ThreeTierRating{}, GradeInput{TotalPoints: 3, Config: GradingConfig{GoodMaxPoints: iptr(2), SatisfactoryMax: iptr(5)}}, "Satisfactory", "Satisfactory (3 points)", OutcomeWarning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineGrade(tc.policy, tc.in)
			assert.Equal(t, tc.wantGrade, got.Grade)
			assert.Equal(t, tc.wantDisplay, got.Display)
			assert.Equal(t, tc.wantOutcome, got.Outcome)
			assert.False(t, got.ImminentHazard)
		})
	}
}

func TestReinspectOutcomeDependsOnlyOnUncorrectedMajors(t *testing.T) {
	policies := []GradingPolicy{PassReinspect{}, ReportOnlyGrading{}, ResolveGrading("not_a_policy")}
	for _, p := range policies {
		for _, uncorrected := range []int{0, 1, 2} {
			var outcomes []Outcome
			for _, raw := range []float64{0, 35.5, 69, 70, 100} {
				g := DetermineGrade(p, GradeInput{
					RawScore:    raw,
					TotalPoints: int(100 - raw),
					Tally:       Tally{Major: 2, UncorrectedMajors: uncorrected},
				})
				outcomes = append(outcomes, g.Outcome)
			}
			for _, o := range outcomes {
				assert.Equal(t, outcomes[0], o, "%s uncorrected=%d", p.Type(), uncorrected)
			}
			want := OutcomePass
			if uncorrected > 0 {
				want = OutcomeFail
			}
			assert.Equal(t, want, outcomes[0])
		}
	}
}

func TestUnknownGradingFallsBackToPassReinspect(t *testing.T) {
	p := ResolveGrading("county_placard_v3")
	u, ok := p.(UnknownGrading)
	require.True(t, ok)
	assert.Equal(t, "county_placard_v3", u.Requested)

	in := GradeInput{RawScore: 40, Tally: Tally{Major: 1, UncorrectedMajors: 1}}
	assert.Equal(t, PassReinspect{}.Determine(in), p.Determine(in))
	assert.Equal(t, PassReinspect{}.Determine(in), DetermineGrade(nil, in))
}

func TestImminentHazardOverridesEveryPolicy(t *testing.T) {
	triggers := []struct {
		name string
		in   GradeInput
	}{
		{"three uncorrected criticals", GradeInput{RawScore: 100, Tally: Tally{Critical: 3, Major: 3, UncorrectedCriticals: 3, UncorrectedMajors: 3}}},
		{"explicit signal", GradeInput{RawScore: 100, HazardSignal: true}},
	}
	policies := append([]GradingPolicy{UnknownGrading{Requested: "x"}}, allPolicies()...)
	for _, tr := range triggers {
		for _, p := range policies {
			t.Run(fmt.Sprintf("%s/%s", tr.name, p.Type()), func(t *testing.T) {
				g := DetermineGrade(p, tr.in)
				assert.Equal(t, ClosedGrade, g.Grade)
				assert.Equal(t, ClosedGradeDisplay, g.Display)
				assert.Equal(t, OutcomeClosed, g.Outcome)
				assert.True(t, g.ImminentHazard)
			})
		}
	}
}

func TestTwoUncorrectedCriticalsDoNotClose(t *testing.T) {
	g := DetermineGrade(LetterGrade{}, GradeInput{RawScore: 84, Tally: Tally{Critical: 3, Major: 3, UncorrectedCriticals: 2, UncorrectedMajors: 2}})
	assert.Equal(t, "B", g.Grade)
	assert.False(t, g.ImminentHazard)
}

func allPolicies() []GradingPolicy {
	out := make([]GradingPolicy, 0, len(GradingTypes))
	for _, gt := range GradingTypes {
		out = append(out, ResolveGrading(string(gt)))
	}
	return out
}

func TestLetterGradeSparseConfigJSON(t *testing.T) {
	var cfg GradingConfig
	require.NoError(t, json.Unmarshal([]byte(`{"letter_thresholds":{"a":93}}`), &cfg))

	cases := map[float64]string{95: "A", 92: "B", 85: "B", 75: "C", 40: "F"}
	for score, want := range cases {
		got := DetermineGrade(LetterGrade{}, GradeInput{RawScore: score, Config: cfg})
		assert.Equal(t, want, got.Grade, "score %v", score)
	}
}
