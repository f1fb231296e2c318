package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

type GradingType string

const (
	GradingLetterGrade       GradingType = "letter_grade"
	GradingLetterGradeStrict GradingType = "letter_grade_strict"
	GradingColorPlacard      GradingType = "color_placard"
	GradingScore100          GradingType = "score_100"
	GradingScoreNegative     GradingType = "score_negative"
	GradingPassReinspect     GradingType = "pass_reinspect"
	GradingThreeTierRating   GradingType = "three_tier_rating"
	GradingReportOnly        GradingType = "report_only"
)

var GradingTypes = []GradingType{
	GradingLetterGrade,
	GradingLetterGradeStrict,
	GradingColorPlacard,
	GradingScore100,
	GradingScoreNegative,
	GradingPassReinspect,
	GradingThreeTierRating,
	GradingReportOnly,
}

// LetterThresholds are inclusive lower bounds for A, B and C.
type LetterThresholds struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

var DefaultLetterThresholds = LetterThresholds{A: 90, B: 80, C: 70}

// withDefaults fills unset (zero or negative) breakpoints from
// DefaultLetterThresholds, so a config naming only "a" keeps B and C.
func (t LetterThresholds) withDefaults() LetterThresholds {
	if t.A <= 0 {
		t.A = DefaultLetterThresholds.A
	}
	if t.B <= 0 {
		t.B = DefaultLetterThresholds.B
	}
	if t.C <= 0 {
		t.C = DefaultLetterThresholds.C
	}
	return t
}

// GradingConfig holds the policy-specific parameters stored on a
// jurisdiction. Nil fields fall back to the policy default.
type GradingConfig struct {
	LetterThresholds    *LetterThresholds `json:"letter_thresholds,omitempty"`
	FailBelow           *float64          `json:"fail_below,omitempty"`
	MinimumPassingGrade string            `json:"minimum_passing_grade,omitempty"`
	GreenMaxMajors      *int              `json:"green_max_majors,omitempty"`
	YellowMaxMajors     *int              `json:"yellow_max_majors,omitempty"`
	CriticalOffset      *float64          `json:"critical_offset,omitempty"`
	WarningOffset       *float64          `json:"warning_offset,omitempty"`
	GoodMaxPoints       *int              `json:"good_max_points,omitempty"`
	SatisfactoryMax     *int              `json:"satisfactory_max_points,omitempty"`
}

// Thresholds are the jurisdiction's pass/warning/critical score lines.
type Thresholds struct {
	Pass     float64 `json:"pass"`
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

var DefaultThresholds = Thresholds{Pass: 70, Warning: 60, Critical: 50}

const (
	DefaultFailBelow          = 70.0
	DefaultStrictMinimumGrade = "A"
	DefaultGreenMaxMajors     = 1
	DefaultYellowMaxMajors    = 3
	DefaultCriticalOffset     = -25.0
	DefaultWarningOffset      = -10.0
	DefaultGoodMaxPoints      = 6
	DefaultSatisfactoryMaxPts = 13
)

type GradeInput struct {
	RawScore     float64
	TotalPoints  int
	Tally        Tally
	HazardSignal bool
	Config       GradingConfig
	Thresholds   Thresholds
}

type Grade struct {
	Grade          string
	Display        string
	Outcome        Outcome
	ImminentHazard bool
}

// GradingPolicy is the closed set of grading strategies.
type GradingPolicy interface {
	Type() GradingType
	Determine(in GradeInput) Grade
	gradingPolicy()
}

// DetermineGrade applies the imminent-hazard override and, only when it does
// not fire, the jurisdiction's policy.
func DetermineGrade(p GradingPolicy, in GradeInput) Grade {
	if ImminentHazard(in.Tally, in.HazardSignal) {
		return closedGrade()
	}
	if p == nil {
		p = UnknownGrading{}
	}
	return p.Determine(in)
}

func letterFor(score float64, t LetterThresholds) string {
	switch {
	case score >= t.A:
		return "A"
	case score >= t.B:
		return "B"
	case score >= t.C:
		return "C"
	default:
		return "F"
	}
}

func letterRank(letter string) int {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A":
		return 4
	case "B":
		return 3
	case "C":
		return 2
	case "D":
		return 1
	default:
		return 0
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func passFail(ok bool) Outcome {
	if ok {
		return OutcomePass
	}
	return OutcomeFail
}

type LetterGrade struct{}

func (LetterGrade) Type() GradingType { return GradingLetterGrade }
func (LetterGrade) Determine(in GradeInput) Grade {
	thresholds := DefaultLetterThresholds
	if in.Config.LetterThresholds != nil {
		thresholds = in.Config.LetterThresholds.withDefaults()
	}
	failBelow := DefaultFailBelow
	if in.Config.FailBelow != nil {
		failBelow = *in.Config.FailBelow
	}
	letter := letterFor(in.RawScore, thresholds)
	return Grade{
		Grade:   letter,
		Display: fmt.Sprintf("%s (%s)", letter, formatScore(in.RawScore)),
		Outcome: passFail(in.RawScore >= failBelow),
	}
}
func (LetterGrade) gradingPolicy() {}

// LetterGradeStrict uses fixed breakpoints and passes only at or above the
// configured minimum letter.
type LetterGradeStrict struct{}

func (LetterGradeStrict) Type() GradingType { return GradingLetterGradeStrict }
func (LetterGradeStrict) Determine(in GradeInput) Grade {
	minimum := strings.ToUpper(strings.TrimSpace(in.Config.MinimumPassingGrade))
	if letterRank(minimum) == 0 {
		minimum = DefaultStrictMinimumGrade
	}
	letter := letterFor(in.RawScore, DefaultLetterThresholds)
	return Grade{
		Grade:   letter,
		Display: fmt.Sprintf("%s (%s)", letter, formatScore(in.RawScore)),
		Outcome: passFail(letterRank(letter) >= letterRank(minimum)),
	}
}
func (LetterGradeStrict) gradingPolicy() {}

type ColorPlacard struct{}

func (ColorPlacard) Type() GradingType { return GradingColorPlacard }
func (ColorPlacard) Determine(in GradeInput) Grade {
	green, yellow := DefaultGreenMaxMajors, DefaultYellowMaxMajors
	if in.Config.GreenMaxMajors != nil {
		green = *in.Config.GreenMaxMajors
	}
	if in.Config.YellowMaxMajors != nil {
		yellow = *in.Config.YellowMaxMajors
	}
	switch majors := in.Tally.Major; {
	case majors <= green:
		return Grade{Grade: "Green", Display: "Green (Pass)", Outcome: OutcomePass}
	case majors <= yellow:
		return Grade{Grade: "Yellow", Display: "Yellow (Conditional Pass)", Outcome: OutcomeWarning}
	default:
		return Grade{Grade: "Red", Display: "Red (Fail)", Outcome: OutcomeFail}
	}
}
func (ColorPlacard) gradingPolicy() {}

type Score100 struct{}

func (Score100) Type() GradingType { return GradingScore100 }
func (Score100) Determine(in GradeInput) Grade {
	pass := in.Thresholds.Pass
	if pass <= 0 {
		pass = DefaultThresholds.Pass
	}
	s := formatScore(in.RawScore)
	return Grade{
		Grade:   s,
		Display: s + "/100",
		Outcome: passFail(in.RawScore >= pass),
	}
}
func (Score100) gradingPolicy() {}

// ScoreNegative presents the score as a deduction from 100.
type ScoreNegative struct{}

func (ScoreNegative) Type() GradingType { return GradingScoreNegative }
func (ScoreNegative) Determine(in GradeInput) Grade {
	critical, warning := DefaultCriticalOffset, DefaultWarningOffset
	if in.Config.CriticalOffset != nil {
		critical = *in.Config.CriticalOffset
	}
	if in.Config.WarningOffset != nil {
		warning = *in.Config.WarningOffset
	}
	offset := in.RawScore - 100
	outcome := OutcomePass
	switch {
	case offset <= critical:
		outcome = OutcomeFail
	case offset <= warning:
		outcome = OutcomeWarning
	}
	s := formatScore(offset)
	return Grade{Grade: s, Display: s + " points", Outcome: outcome}
}
func (ScoreNegative) gradingPolicy() {}

// PassReinspect depends only on uncorrected majors; the numeric score never
// changes the outcome.
type PassReinspect struct{}

func (PassReinspect) Type() GradingType { return GradingPassReinspect }
func (PassReinspect) Determine(in GradeInput) Grade {
	if n := in.Tally.UncorrectedMajors; n > 0 {
		return Grade{
			Grade:   "Reinspection Required",
			Display: fmt.Sprintf("Reinspection Required — %d Major Violation(s)", n),
			Outcome: OutcomeFail,
		}
	}
	display := "Pass"
	if in.Tally.Major > 0 {
		display = "Pass — Corrected On-Site"
	}
	return Grade{Grade: "Pass", Display: display, Outcome: OutcomePass}
}
func (PassReinspect) gradingPolicy() {}

// ThreeTierRating buckets accumulated points, not the normalized score.
type ThreeTierRating struct{}

func (ThreeTierRating) Type() GradingType { return GradingThreeTierRating }
func (ThreeTierRating) Determine(in GradeInput) Grade {
	good, satisfactory := DefaultGoodMaxPoints, DefaultSatisfactoryMaxPts
	if in.Config.GoodMaxPoints != nil {
		good = *in.Config.GoodMaxPoints
	}
	if in.Config.SatisfactoryMax != nil {
		satisfactory = *in.Config.SatisfactoryMax
	}
	pts := in.TotalPoints
	switch {
	case pts <= good:
		return Grade{Grade: "Good", Display: fmt.Sprintf("Good (%d points)", pts), Outcome: OutcomePass}
	case pts <= satisfactory:
		return Grade{Grade: "Satisfactory", Display: fmt.Sprintf("Satisfactory (%d points)", pts), Outcome: OutcomeWarning}
	default:
		return Grade{Grade: "Unsatisfactory", Display: fmt.Sprintf("Unsatisfactory (%d points)", pts), Outcome: OutcomeFail}
	}
}
func (ThreeTierRating) gradingPolicy() {}

// ReportOnlyGrading is the legacy name for PassReinspect.
type ReportOnlyGrading struct{}

func (ReportOnlyGrading) Type() GradingType             { return GradingReportOnly }
func (ReportOnlyGrading) Determine(in GradeInput) Grade { return PassReinspect{}.Determine(in) }
func (ReportOnlyGrading) gradingPolicy()                {}

// UnknownGrading is what an unrecognised grading_type resolves to. It
// behaves as PassReinspect.
type UnknownGrading struct {
	Requested string
}

func (u UnknownGrading) Type() GradingType           { return GradingType(u.Requested) }
func (UnknownGrading) Determine(in GradeInput) Grade { return PassReinspect{}.Determine(in) }
func (UnknownGrading) gradingPolicy()                {}

func ResolveGrading(raw string) GradingPolicy {
	switch GradingType(strings.ToLower(strings.TrimSpace(raw))) {
	case GradingLetterGrade:
		return LetterGrade{}
	case GradingLetterGradeStrict:
		return LetterGradeStrict{}
	case GradingColorPlacard:
		return ColorPlacard{}
	case GradingScore100:
		return Score100{}
	case GradingScoreNegative:
		return ScoreNegative{}
	case GradingPassReinspect:
		return PassReinspect{}
	case GradingThreeTierRating:
		return ThreeTierRating{}
	case GradingReportOnly:
		return ReportOnlyGrading{}
	default:
		return UnknownGrading{Requested: raw}
	}
}
