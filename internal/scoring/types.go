// Package scoring is the multi-jurisdiction compliance scoring and grading
// engine. It is pure: callers hand it catalog items, resolved jurisdiction
// profiles and a collected signal set, and it returns violations, scores,
// grades and the aggregated location score. Nothing in here touches storage.
package scoring

import "strings"

type Pillar string

const (
	PillarFoodSafety Pillar = "food_safety"
	PillarFireSafety Pillar = "fire_safety"
)

func ParsePillar(raw string) (Pillar, bool) {
	switch Pillar(strings.ToLower(strings.TrimSpace(raw))) {
	case PillarFoodSafety:
		return PillarFoodSafety, true
	case PillarFireSafety:
		return PillarFireSafety, true
	}
	return "", false
}

type Module string

const (
	ModuleTemperatures Module = "temperatures"
	ModuleChecklists   Module = "checklists"
	ModuleDocuments    Module = "documents"
	ModuleEquipment    Module = "equipment"
	ModuleHACCP        Module = "haccp"
	ModuleTraining     Module = "training"
	ModulePhotos       Module = "photos"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// ParseSeverity treats anything unrecognised as minor.
func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityMajor:
		return SeverityMajor
	default:
		return SeverityMinor
	}
}

// IsMajor is true for major and critical findings.
func (s Severity) IsMajor() bool {
	return s == SeverityCritical || s == SeverityMajor
}

type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non_compliant"
	StatusNotAssessed  Status = "not_assessed"
)

type SubComponent string

const (
	SubComponentCombined      SubComponent = "combined"
	SubComponentOperations    SubComponent = "operations"
	SubComponentDocumentation SubComponent = "documentation"
)

// SubComponentFor splits modules into the operations and documentation halves
// of a pillar.
func SubComponentFor(m Module) SubComponent {
	switch m {
	case ModuleDocuments, ModuleTraining:
		return SubComponentDocumentation
	default:
		return SubComponentOperations
	}
}

type Outcome string

const (
	OutcomePass    Outcome = "pass"
	OutcomeWarning Outcome = "warning"
	OutcomeFail    Outcome = "fail"
	OutcomeClosed  Outcome = "closed"
)

// CatalogItem is one canonical regulatory code item.
type CatalogItem struct {
	Code          string   `json:"code" yaml:"code"`
	Title         string   `json:"title" yaml:"title"`
	Pillar        Pillar   `json:"pillar" yaml:"pillar"`
	Module        Module   `json:"module" yaml:"module"`
	Severity      Severity `json:"severity" yaml:"severity"`
	Points        int      `json:"points" yaml:"points"`
	CDCRiskFactor bool     `json:"cdcRiskFactor" yaml:"cdc_risk_factor"`
}

// Override replaces a catalog item's severity and/or point deduction for one
// jurisdiction. Empty Severity and nil Points leave the default in place.
type Override struct {
	Severity Severity
	Points   *int
}

// Overrides is keyed by catalog code.
type Overrides map[string]Override

func (o Overrides) Apply(item CatalogItem) CatalogItem {
	ov, ok := o[item.Code]
	if !ok {
		return item
	}
	if ov.Severity != "" {
		item.Severity = ov.Severity
	}
	if ov.Points != nil && *ov.Points >= 0 {
		item.Points = *ov.Points
	}
	return item
}

// Violation is a catalog item evaluated against one location's signals.
type Violation struct {
	Code            string   `json:"code"`
	Title           string   `json:"title"`
	Severity        Severity `json:"severity"`
	PointsDeducted  int      `json:"pointsDeducted"`
	Module          Module   `json:"module"`
	CDCRiskFactor   bool     `json:"cdcRiskFactor"`
	Status          Status   `json:"status"`
	CorrectedOnSite bool     `json:"correctedOnSite"`
}

func (v Violation) IsViolation() bool { return v.Status == StatusNonCompliant }
