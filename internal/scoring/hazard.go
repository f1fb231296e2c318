package scoring

const (
	// ImminentHazardCriticalCount uncorrected criticals close the location.
	ImminentHazardCriticalCount = 3

	ClosedGrade        = "CLOSED"
	ClosedGradeDisplay = "Closed — Imminent Health Hazard"
)

// ImminentHazard is the one rule that outranks every grading policy.
func ImminentHazard(t Tally, hazardSignal bool) bool {
	return hazardSignal || t.UncorrectedCriticals >= ImminentHazardCriticalCount
}

func closedGrade() Grade {
	return Grade{
		Grade:          ClosedGrade,
		Display:        ClosedGradeDisplay,
		Outcome:        OutcomeClosed,
		ImminentHazard: true,
	}
}
