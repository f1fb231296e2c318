package scoring

const (
	// More than this share of out-of-range readings fails the temperature module.
	TemperatureOutOfRangeTolerance = 0.10
	// More than this share of completions with a failed item fails the checklist module.
	ChecklistFailureTolerance = 0.20
)

// ModuleEvaluator decides compliance for every catalog item tagged with one
// operational module.
type ModuleEvaluator interface {
	Module() Module
	Evaluate(s *Signals) Status
	// CorrectedOnSite reports whether a non-compliant finding was resolved
	// before the evaluation window closed.
	CorrectedOnSite(s *Signals) bool
}

type temperatureEvaluator struct{}

func (temperatureEvaluator) Module() Module { return ModuleTemperatures }

func (temperatureEvaluator) Evaluate(s *Signals) Status {
	if len(s.Temperatures) == 0 {
		return StatusNonCompliant
	}
	out := 0
	for _, r := range s.Temperatures {
		if !r.InRange {
			out++
		}
	}
	if float64(out)/float64(len(s.Temperatures)) > TemperatureOutOfRangeTolerance {
		return StatusNonCompliant
	}
	return StatusCompliant
}

func (temperatureEvaluator) CorrectedOnSite(s *Signals) bool {
	if len(s.Temperatures) == 0 {
		return false
	}
	latest := s.Temperatures[0]
	for _, r := range s.Temperatures[1:] {
		if r.RecordedAt.After(latest.RecordedAt) {
			latest = r
		}
	}
	return latest.InRange
}

type checklistEvaluator struct{}

func (checklistEvaluator) Module() Module { return ModuleChecklists }

func (checklistEvaluator) Evaluate(s *Signals) Status {
	if len(s.Checklists) == 0 {
		return StatusNonCompliant
	}
	failed := 0
	for _, c := range s.Checklists {
		if c.ItemsFailed > 0 {
			failed++
		}
	}
	if float64(failed)/float64(len(s.Checklists)) > ChecklistFailureTolerance {
		return StatusNonCompliant
	}
	return StatusCompliant
}

func (checklistEvaluator) CorrectedOnSite(s *Signals) bool {
	if len(s.Checklists) == 0 {
		return false
	}
	latest := s.Checklists[0]
	for _, c := range s.Checklists[1:] {
		if c.CompletedAt.After(latest.CompletedAt) {
			latest = c
		}
	}
	return latest.ItemsFailed == 0
}

type documentEvaluator struct{}

func (documentEvaluator) Module() Module { return ModuleDocuments }

func (documentEvaluator) Evaluate(s *Signals) Status {
	for _, d := range s.Documents {
		if expired(d.ExpiresAt, s.AsOf) {
			return StatusNonCompliant
		}
	}
	return StatusCompliant
}

func (documentEvaluator) CorrectedOnSite(*Signals) bool { return false }

type equipmentEvaluator struct{}

func (equipmentEvaluator) Module() Module { return ModuleEquipment }

func (equipmentEvaluator) Evaluate(s *Signals) Status {
	for _, e := range s.Equipment {
		if expired(e.NextServiceAt, s.AsOf) {
			return StatusNonCompliant
		}
	}
	return StatusCompliant
}

func (equipmentEvaluator) CorrectedOnSite(*Signals) bool { return false }

type haccpEvaluator struct{}

func (haccpEvaluator) Module() Module { return ModuleHACCP }

func (haccpEvaluator) Evaluate(s *Signals) Status {
	if len(s.HACCPPlans) == 0 {
		return StatusNotAssessed
	}
	for _, p := range s.HACCPPlans {
		if p.Active {
			return StatusCompliant
		}
	}
	return StatusNonCompliant
}

func (haccpEvaluator) CorrectedOnSite(*Signals) bool { return false }

type trainingEvaluator struct{}

func (trainingEvaluator) Module() Module { return ModuleTraining }

func (trainingEvaluator) Evaluate(s *Signals) Status {
	for _, t := range s.Training {
		if expired(t.ExpiresAt, s.AsOf) {
			return StatusNonCompliant
		}
	}
	return StatusCompliant
}

func (trainingEvaluator) CorrectedOnSite(*Signals) bool { return false }

// notAssessedEvaluator covers modules with no signal rule yet (photos).
type notAssessedEvaluator struct{ module Module }

func (e notAssessedEvaluator) Module() Module              { return e.module }
func (notAssessedEvaluator) Evaluate(*Signals) Status      { return StatusNotAssessed }
func (notAssessedEvaluator) CorrectedOnSite(*Signals) bool { return false }

var moduleEvaluators = map[Module]ModuleEvaluator{
	ModuleTemperatures: temperatureEvaluator{},
	ModuleChecklists:   checklistEvaluator{},
	ModuleDocuments:    documentEvaluator{},
	ModuleEquipment:    equipmentEvaluator{},
	ModuleHACCP:        haccpEvaluator{},
	ModuleTraining:     trainingEvaluator{},
}

func EvaluatorFor(m Module) ModuleEvaluator {
	if e, ok := moduleEvaluators[m]; ok {
		return e
	}
	return notAssessedEvaluator{module: m}
}

// ItemsForPillar returns the catalog items tagged with the given pillar, in
// catalog order.
func ItemsForPillar(catalog []CatalogItem, pillar Pillar) []CatalogItem {
	out := make([]CatalogItem, 0, len(catalog))
	for _, it := range catalog {
		if it.Pillar == pillar {
			out = append(out, it)
		}
	}
	return out
}

type moduleVerdict struct {
	status    Status
	corrected bool
}

// Evaluate maps each item (after jurisdiction overrides) to a violation
// detail. Each module is evaluated once per call.
func Evaluate(items []CatalogItem, overrides Overrides, s *Signals) []Violation {
	if s == nil {
		s = &Signals{}
	}
	verdicts := make(map[Module]moduleVerdict, 8)
	out := make([]Violation, 0, len(items))
	for _, raw := range items {
		item := overrides.Apply(raw)
		v, ok := verdicts[item.Module]
		if !ok {
			ev := EvaluatorFor(item.Module)
			v.status = ev.Evaluate(s)
			if v.status == StatusNonCompliant {
				v.corrected = ev.CorrectedOnSite(s)
			}
			verdicts[item.Module] = v
		}
		points := 0
		if v.status == StatusNonCompliant {
			points = item.Points
		}
		out = append(out, Violation{
			Code:            item.Code,
			Title:           item.Title,
			Severity:        item.Severity,
			PointsDeducted:  points,
			Module:          item.Module,
			CDCRiskFactor:   item.CDCRiskFactor,
			Status:          v.status,
			CorrectedOnSite: v.corrected,
		})
	}
	return out
}

// Tally counts non-compliant findings for grading.
type Tally struct {
	Major                int `json:"majorViolations"`
	Minor                int `json:"minorViolations"`
	Critical             int `json:"criticalViolations"`
	UncorrectedMajors    int `json:"uncorrectedMajors"`
	UncorrectedCriticals int `json:"uncorrectedCriticals"`
	CorrectedOnSite      int `json:"correctedOnSite"`
}

func TallyViolations(vs []Violation) Tally {
	var t Tally
	for _, v := range vs {
		if !v.IsViolation() {
			continue
		}
		if v.CorrectedOnSite {
			t.CorrectedOnSite++
		}
		if !v.Severity.IsMajor() {
			t.Minor++
			continue
		}
		t.Major++
		if !v.CorrectedOnSite {
			t.UncorrectedMajors++
		}
		if v.Severity == SeverityCritical {
			t.Critical++
			if !v.CorrectedOnSite {
				t.UncorrectedCriticals++
			}
		}
	}
	return t
}
