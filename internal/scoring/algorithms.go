package scoring

import "strings"

type ScoringType string

const (
	ScoringWeightedDeduction          ScoringType = "weighted_deduction"
	ScoringHeavyWeighted              ScoringType = "heavy_weighted"
	ScoringMajorViolationCount        ScoringType = "major_violation_count"
	ScoringNegativeScale              ScoringType = "negative_scale"
	ScoringMajorMinorReinspect        ScoringType = "major_minor_reinspect"
	ScoringViolationPointAccumulation ScoringType = "violation_point_accumulation"
	ScoringReportOnly                 ScoringType = "report_only"
)

// ScoringTypes lists every recognised scoring identifier.
var ScoringTypes = []ScoringType{
	ScoringWeightedDeduction,
	ScoringHeavyWeighted,
	ScoringMajorViolationCount,
	ScoringNegativeScale,
	ScoringMajorMinorReinspect,
	ScoringViolationPointAccumulation,
	ScoringReportOnly,
}

// Score is the output of a scoring algorithm for one violation list.
type Score struct {
	Raw         float64
	TotalPoints int
}

// ScoringAlgorithm is the closed set of scoring strategies. The unexported
// marker keeps implementations inside this package.
type ScoringAlgorithm interface {
	Type() ScoringType
	Calculate(vs []Violation) Score
	scoringAlgorithm()
}

func deductedPoints(vs []Violation) int {
	total := 0
	for _, v := range vs {
		if v.IsViolation() {
			total += v.PointsDeducted
		}
	}
	return total
}

func deductionScore(vs []Violation) Score {
	total := deductedPoints(vs)
	return Score{Raw: Clamp(100 - float64(total)), TotalPoints: total}
}

type WeightedDeduction struct{}

func (WeightedDeduction) Type() ScoringType              { return ScoringWeightedDeduction }
func (WeightedDeduction) Calculate(vs []Violation) Score { return deductionScore(vs) }
func (WeightedDeduction) scoringAlgorithm()              {}

const (
	HeavyWeightedMajorCost = 8
	HeavyWeightedMinorCost = 2
)

// HeavyWeighted ignores catalog point values and charges a fixed cost by
// severity. TotalPoints reports the recomputed deductions.
type HeavyWeighted struct{}

func (HeavyWeighted) Type() ScoringType { return ScoringHeavyWeighted }
func (HeavyWeighted) Calculate(vs []Violation) Score {
	total := 0
	for _, v := range vs {
		if !v.IsViolation() {
			continue
		}
		if v.Severity.IsMajor() {
			total += HeavyWeightedMajorCost
		} else {
			total += HeavyWeightedMinorCost
		}
	}
	return Score{Raw: Clamp(100 - float64(total)), TotalPoints: total}
}
func (HeavyWeighted) scoringAlgorithm() {}

// MajorViolationCount tiers purely on the number of major-or-critical
// findings. Minor findings and point totals do not move the score.
type MajorViolationCount struct{}

func (MajorViolationCount) Type() ScoringType { return ScoringMajorViolationCount }
func (MajorViolationCount) Calculate(vs []Violation) Score {
	majors := 0
	for _, v := range vs {
		if v.IsViolation() && v.Severity.IsMajor() {
			majors++
		}
	}
	raw := 60.0
	switch {
	case majors <= 1:
		raw = 95
	case majors <= 3:
		raw = 80
	}
	return Score{Raw: raw, TotalPoints: deductedPoints(vs)}
}
func (MajorViolationCount) scoringAlgorithm() {}

// NegativeScale shares the deduction formula; its grading policy shows the
// result as an offset from 100.
type NegativeScale struct{}

func (NegativeScale) Type() ScoringType              { return ScoringNegativeScale }
func (NegativeScale) Calculate(vs []Violation) Score { return deductionScore(vs) }
func (NegativeScale) scoringAlgorithm()              {}

// MajorMinorReinspect shares the deduction formula; the pass or reinspect
// decision lives in the grading policy.
type MajorMinorReinspect struct{}

func (MajorMinorReinspect) Type() ScoringType              { return ScoringMajorMinorReinspect }
func (MajorMinorReinspect) Calculate(vs []Violation) Score { return deductionScore(vs) }
func (MajorMinorReinspect) scoringAlgorithm()              {}

// ViolationPointAccumulation adds points without a severity multiplier. Its
// grading policy buckets on TotalPoints rather than Raw.
type ViolationPointAccumulation struct{}

func (ViolationPointAccumulation) Type() ScoringType              { return ScoringViolationPointAccumulation }
func (ViolationPointAccumulation) Calculate(vs []Violation) Score { return deductionScore(vs) }
func (ViolationPointAccumulation) scoringAlgorithm()              {}

// ReportOnlyScoring is the legacy name for MajorMinorReinspect, kept so older
// jurisdiction rows keep resolving.
type ReportOnlyScoring struct{}

func (ReportOnlyScoring) Type() ScoringType { return ScoringReportOnly }
func (ReportOnlyScoring) Calculate(vs []Violation) Score {
	return MajorMinorReinspect{}.Calculate(vs)
}
func (ReportOnlyScoring) scoringAlgorithm() {}

// UnknownScoring is what an unrecognised scoring_type resolves to. It
// behaves as WeightedDeduction and remembers the identifier it was given.
type UnknownScoring struct {
	Requested string
}

func (u UnknownScoring) Type() ScoringType { return ScoringType(u.Requested) }
func (UnknownScoring) Calculate(vs []Violation) Score {
	return WeightedDeduction{}.Calculate(vs)
}
func (UnknownScoring) scoringAlgorithm() {}

// ResolveScoring maps a jurisdiction's scoring_type to its strategy.
func ResolveScoring(raw string) ScoringAlgorithm {
	switch ScoringType(strings.ToLower(strings.TrimSpace(raw))) {
	case ScoringWeightedDeduction:
		return WeightedDeduction{}
	case ScoringHeavyWeighted:
		return HeavyWeighted{}
	case ScoringMajorViolationCount:
		return MajorViolationCount{}
	case ScoringNegativeScale:
		return NegativeScale{}
	case ScoringMajorMinorReinspect:
		return MajorMinorReinspect{}
	case ScoringViolationPointAccumulation:
		return ViolationPointAccumulation{}
	case ScoringReportOnly:
		return ReportOnlyScoring{}
	default:
		return UnknownScoring{Requested: raw}
	}
}

// Clamp bounds a score to [0, 100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
