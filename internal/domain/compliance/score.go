package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SnapshotDateLayout is the calendar-day key of ScoreSnapshot.
const SnapshotDateLayout = "2006-01-02"

// ScoreSnapshot is the daily reproducibility record for one location. It is
// upserted on (location_id, snapshot_date).
type ScoreSnapshot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID   uuid.UUID `gorm:"type:uuid;not null;column:location_id;uniqueIndex:idx_score_snapshot_location_date,priority:1" json:"location_id"`
	SnapshotDate string    `gorm:"not null;column:snapshot_date;size:10;uniqueIndex:idx_score_snapshot_location_date,priority:2" json:"snapshot_date"`

	OverallScore    float64  `gorm:"not null;column:overall_score" json:"overall_score"`
	FoodSafetyScore float64  `gorm:"not null;column:food_safety_score" json:"food_safety_score"`
	FireSafetyScore float64  `gorm:"not null;column:fire_safety_score" json:"fire_safety_score"`
	VendorScore     *float64 `gorm:"column:vendor_score" json:"vendor_score,omitempty"`

	TempInRangePct         float64 `gorm:"not null;default:0;column:temp_in_range_pct" json:"temp_in_range_pct"`
	ChecklistCompletionPct float64 `gorm:"not null;default:0;column:checklist_completion_pct" json:"checklist_completion_pct"`
	DocumentsCurrentPct    float64 `gorm:"not null;default:0;column:documents_current_pct" json:"documents_current_pct"`

	EngineVersion string         `gorm:"not null;column:engine_version" json:"engine_version"`
	InputHash     string         `gorm:"not null;column:input_hash;size:64" json:"input_hash"`
	Weights       datatypes.JSON `gorm:"column:weights;type:jsonb" json:"weights"`
	Payload       datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`

	CalculatedAt time.Time `gorm:"not null;column:calculated_at" json:"calculated_at"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ScoreSnapshot) TableName() string { return "score_snapshot" }

// ScoreCalculation is one append-only audit row per jurisdiction and
// sub-component.
type ScoreCalculation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID     uuid.UUID  `gorm:"type:uuid;not null;column:location_id;index:idx_score_calculation_location_time,priority:1" json:"location_id"`
	SnapshotID     *uuid.UUID `gorm:"type:uuid;column:snapshot_id;index" json:"snapshot_id,omitempty"`
	JurisdictionID uuid.UUID  `gorm:"type:uuid;not null;column:jurisdiction_id;index" json:"jurisdiction_id"`
	Pillar         string     `gorm:"not null;column:pillar" json:"pillar"`
	SubComponent   string     `gorm:"not null;column:sub_component" json:"sub_component"`
	ScoringType    string     `gorm:"not null;column:scoring_type" json:"scoring_type"`
	GradingType    string     `gorm:"not null;column:grading_type" json:"grading_type"`

	RawScore          float64 `gorm:"not null;column:raw_score" json:"raw_score"`
	NormalizedScore   float64 `gorm:"not null;column:normalized_score" json:"normalized_score"`
	TotalPoints       int     `gorm:"not null;column:total_points" json:"total_points"`
	Grade             string  `gorm:"column:grade" json:"grade"`
	GradeDisplay      string  `gorm:"column:grade_display" json:"grade_display"`
	PassFail          string  `gorm:"column:pass_fail" json:"pass_fail"`
	MajorViolations   int     `gorm:"not null;default:0;column:major_violations" json:"major_violations"`
	MinorViolations   int     `gorm:"not null;default:0;column:minor_violations" json:"minor_violations"`
	UncorrectedMajors int     `gorm:"not null;default:0;column:uncorrected_majors" json:"uncorrected_majors"`
	ImminentHazard    bool    `gorm:"not null;default:false;column:imminent_hazard" json:"imminent_hazard"`

	Violations    datatypes.JSON `gorm:"column:violations;type:jsonb" json:"violations"`
	Weights       datatypes.JSON `gorm:"column:weights;type:jsonb" json:"weights"`
	InputHash     string         `gorm:"not null;column:input_hash;size:64" json:"input_hash"`
	EngineVersion string         `gorm:"not null;column:engine_version" json:"engine_version"`

	CalculatedAt time.Time `gorm:"not null;column:calculated_at;index:idx_score_calculation_location_time,priority:2" json:"calculated_at"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ScoreCalculation) TableName() string { return "score_calculation" }
