package scoring

import (
	"math"
	"time"
)

type TemperatureReading struct {
	RecordedAt time.Time
	InRange    bool
}

type ChecklistCompletion struct {
	CompletedAt time.Time
	ItemsFailed int
}

type DocumentRecord struct {
	Title        string
	ExpiresAt    *time.Time
	VendorLinked bool
}

type EquipmentRecord struct {
	Name          string
	NextServiceAt *time.Time
}

type HACCPPlan struct {
	Name   string
	Active bool
}

type TrainingRecord struct {
	Certification string
	ExpiresAt     *time.Time
}

type HazardReport struct {
	HazardType string
	ReportedAt time.Time
}

// Signals is the bounded-window view of one location's operational data. It
// is rebuilt for every scoring request and never persisted as-is.
type Signals struct {
	AsOf        time.Time
	WindowStart time.Time

	Temperatures []TemperatureReading
	Checklists   []ChecklistCompletion
	Documents    []DocumentRecord
	Equipment    []EquipmentRecord
	HACCPPlans   []HACCPPlan
	Training     []TrainingRecord
	Hazards      []HazardReport
}

// HazardFlagged reports an explicit imminent-hazard signal.
func (s *Signals) HazardFlagged() bool {
	return s != nil && len(s.Hazards) > 0
}

func expired(at *time.Time, asOf time.Time) bool {
	return at != nil && at.Before(asOf)
}

// SignalSummary is the count-level digest of a signal set. It feeds the
// reproducibility hash and the derived percentages on the daily snapshot, so
// it must not carry timestamps.
type SignalSummary struct {
	TemperatureReadings    int      `json:"temperatureReadings"`
	TemperatureOutOfRange  int      `json:"temperatureOutOfRange"`
	TempInRangePct         float64  `json:"tempInRangePct"`
	ChecklistCompletions   int      `json:"checklistCompletions"`
	ChecklistsFailed       int      `json:"checklistsFailed"`
	ChecklistCompletionPct float64  `json:"checklistCompletionPct"`
	Documents              int      `json:"documents"`
	DocumentsExpired       int      `json:"documentsExpired"`
	DocumentsCurrentPct    float64  `json:"documentsCurrentPct"`
	VendorDocuments        int      `json:"vendorDocuments"`
	VendorDocumentsExpired int      `json:"vendorDocumentsExpired"`
	VendorScore            *float64 `json:"vendorScore"`
	EquipmentRecords       int      `json:"equipmentRecords"`
	EquipmentOverdue       int      `json:"equipmentOverdue"`
	HACCPPlans             int      `json:"haccpPlans"`
	HACCPActivePlans       int      `json:"haccpActivePlans"`
	TrainingRecords        int      `json:"trainingRecords"`
	TrainingExpired        int      `json:"trainingExpired"`
	OpenHazards            int      `json:"openHazards"`
}

func (s *Signals) Summary() SignalSummary {
	var out SignalSummary
	if s == nil {
		return out
	}
	out.TemperatureReadings = len(s.Temperatures)
	for _, r := range s.Temperatures {
		if !r.InRange {
			out.TemperatureOutOfRange++
		}
	}
	out.TempInRangePct = percent(out.TemperatureReadings-out.TemperatureOutOfRange, out.TemperatureReadings)

	out.ChecklistCompletions = len(s.Checklists)
	for _, c := range s.Checklists {
		if c.ItemsFailed > 0 {
			out.ChecklistsFailed++
		}
	}
	out.ChecklistCompletionPct = percent(out.ChecklistCompletions-out.ChecklistsFailed, out.ChecklistCompletions)

	out.Documents = len(s.Documents)
	for _, d := range s.Documents {
		isExpired := expired(d.ExpiresAt, s.AsOf)
		if isExpired {
			out.DocumentsExpired++
		}
		if d.VendorLinked {
			out.VendorDocuments++
			if isExpired {
				out.VendorDocumentsExpired++
			}
		}
	}
	out.DocumentsCurrentPct = percent(out.Documents-out.DocumentsExpired, out.Documents)
	if out.VendorDocuments > 0 {
		v := percent(out.VendorDocuments-out.VendorDocumentsExpired, out.VendorDocuments)
		out.VendorScore = &v
	}

	out.EquipmentRecords = len(s.Equipment)
	for _, e := range s.Equipment {
		if expired(e.NextServiceAt, s.AsOf) {
			out.EquipmentOverdue++
		}
	}
	out.HACCPPlans = len(s.HACCPPlans)
	for _, p := range s.HACCPPlans {
		if p.Active {
			out.HACCPActivePlans++
		}
	}
	out.TrainingRecords = len(s.Training)
	for _, t := range s.Training {
		if expired(t.ExpiresAt, s.AsOf) {
			out.TrainingExpired++
		}
	}
	out.OpenHazards = len(s.Hazards)
	return out
}

// percent returns 0 for an empty denominator: no evidence is not 100%.
func percent(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return round2(float64(n) * 100 / float64(d))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
