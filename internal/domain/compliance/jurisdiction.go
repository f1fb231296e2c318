package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Jurisdiction is a regulatory authority and how it scores and grades.
type Jurisdiction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	State      string    `gorm:"column:state;index:idx_jurisdiction_geo" json:"state"`
	County     string    `gorm:"column:county;index:idx_jurisdiction_geo" json:"county"`
	City       string    `gorm:"column:city;index:idx_jurisdiction_geo" json:"city"`
	AgencyName string    `gorm:"column:agency_name" json:"agency_name"`
	AgencyType string    `gorm:"column:agency_type" json:"agency_type"`

	ScoringType   string         `gorm:"not null;column:scoring_type" json:"scoring_type"`
	GradingType   string         `gorm:"not null;column:grading_type" json:"grading_type"`
	GradingConfig datatypes.JSON `gorm:"column:grading_config;type:jsonb" json:"grading_config"`

	PassThreshold     float64 `gorm:"not null;column:pass_threshold" json:"pass_threshold"`
	WarningThreshold  float64 `gorm:"not null;column:warning_threshold" json:"warning_threshold"`
	CriticalThreshold float64 `gorm:"not null;column:critical_threshold" json:"critical_threshold"`

	// Percentages; each pair sums to 100.
	FoodSafetyWeight float64 `gorm:"not null;column:food_safety_weight" json:"food_safety_weight"`
	FireSafetyWeight float64 `gorm:"not null;column:fire_safety_weight" json:"fire_safety_weight"`
	OpsWeight        float64 `gorm:"not null;column:ops_weight" json:"ops_weight"`
	DocsWeight       float64 `gorm:"not null;column:docs_weight" json:"docs_weight"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Jurisdiction) TableName() string { return "jurisdiction" }

// LocationJurisdiction attaches a jurisdiction to a location for one layer.
type LocationJurisdiction struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID        uuid.UUID     `gorm:"type:uuid;not null;column:location_id;uniqueIndex:idx_location_jurisdiction_unique,priority:1" json:"location_id"`
	JurisdictionID    uuid.UUID     `gorm:"type:uuid;not null;column:jurisdiction_id;uniqueIndex:idx_location_jurisdiction_unique,priority:2" json:"jurisdiction_id"`
	JurisdictionLayer string        `gorm:"not null;column:jurisdiction_layer;uniqueIndex:idx_location_jurisdiction_unique,priority:3" json:"jurisdiction_layer"`
	IsMostRestrictive bool          `gorm:"not null;default:false;column:is_most_restrictive" json:"is_most_restrictive"`
	Jurisdiction      *Jurisdiction `gorm:"foreignKey:JurisdictionID;references:ID" json:"jurisdiction,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LocationJurisdiction) TableName() string { return "location_jurisdiction" }

// JurisdictionViolationOverride replaces catalog defaults for one code in one
// jurisdiction. Nil fields keep the default.
type JurisdictionViolationOverride struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JurisdictionID uuid.UUID `gorm:"type:uuid;not null;column:jurisdiction_id;uniqueIndex:idx_jurisdiction_override_code,priority:1" json:"jurisdiction_id"`
	ViolationCode  string    `gorm:"not null;column:violation_code;uniqueIndex:idx_jurisdiction_override_code,priority:2" json:"violation_code"`
	Severity       *string   `gorm:"column:severity" json:"severity,omitempty"`
	PointDeduction *int      `gorm:"column:point_deduction" json:"point_deduction,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (JurisdictionViolationOverride) TableName() string { return "jurisdiction_violation_override" }
