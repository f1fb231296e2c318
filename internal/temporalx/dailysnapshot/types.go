package dailysnapshot

const (
	WorkflowName   = "daily_score_snapshot"
	ActivitySweep  = "daily_score_snapshot_sweep"
	ScheduleID     = "daily-score-snapshot"
	WorkflowIDBase = "daily-score-snapshot"
)

// Result mirrors services.SweepResult across the workflow boundary.
type Result struct {
	Scored        int `json:"scored"`
	Skipped       int `json:"skipped"`
	Failed        int `json:"failed"`
	LocationCount int `json:"location_count"`
}
