package compliance

import (
	"time"

	"github.com/google/uuid"
)

// Operational records read by the compliance collector. Ingestion owns
// writing them.

type TemperatureLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID    uuid.UUID `gorm:"type:uuid;not null;column:location_id;index:idx_temperature_log_location_time,priority:1" json:"location_id"`
	EquipmentName string    `gorm:"column:equipment_name" json:"equipment_name"`
	ReadingF      float64   `gorm:"column:reading_f" json:"reading_f"`
	MinF          *float64  `gorm:"column:min_f" json:"min_f,omitempty"`
	MaxF          *float64  `gorm:"column:max_f" json:"max_f,omitempty"`
	InRange       bool      `gorm:"not null;column:in_range" json:"in_range"`
	RecordedAt    time.Time `gorm:"not null;column:recorded_at;index:idx_temperature_log_location_time,priority:2" json:"recorded_at"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TemperatureLog) TableName() string { return "temperature_log" }

type ChecklistCompletion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID    uuid.UUID `gorm:"type:uuid;not null;column:location_id;index:idx_checklist_completion_location_time,priority:1" json:"location_id"`
	ChecklistName string    `gorm:"column:checklist_name" json:"checklist_name"`
	ItemsTotal    int       `gorm:"not null;default:0;column:items_total" json:"items_total"`
	ItemsFailed   int       `gorm:"not null;default:0;column:items_failed" json:"items_failed"`
	CompletedAt   time.Time `gorm:"not null;column:completed_at;index:idx_checklist_completion_location_time,priority:2" json:"completed_at"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ChecklistCompletion) TableName() string { return "checklist_completion" }

type Document struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID   uuid.UUID  `gorm:"type:uuid;not null;column:location_id;index" json:"location_id"`
	Title        string     `gorm:"not null;column:title" json:"title"`
	DocumentType string     `gorm:"column:document_type" json:"document_type"`
	VendorID     *uuid.UUID `gorm:"type:uuid;column:vendor_id;index" json:"vendor_id,omitempty"`
	ExpiresAt    *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	Archived     bool       `gorm:"not null;default:false;column:archived" json:"archived"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "document" }

type EquipmentRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID    uuid.UUID  `gorm:"type:uuid;not null;column:location_id;index" json:"location_id"`
	Name          string     `gorm:"not null;column:name" json:"name"`
	Category      string     `gorm:"column:category" json:"category"`
	LastServiceAt *time.Time `gorm:"column:last_service_at" json:"last_service_at,omitempty"`
	NextServiceAt *time.Time `gorm:"column:next_service_at" json:"next_service_at,omitempty"`
	Retired       bool       `gorm:"not null;default:false;column:retired" json:"retired"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (EquipmentRecord) TableName() string { return "equipment_record" }

const HACCPPlanStatusActive = "active"

type HACCPPlan struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID uuid.UUID  `gorm:"type:uuid;not null;column:location_id;index" json:"location_id"`
	Name       string     `gorm:"not null;column:name" json:"name"`
	Status     string     `gorm:"not null;column:status" json:"status"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (HACCPPlan) TableName() string { return "haccp_plan" }

type TrainingRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID    uuid.UUID  `gorm:"type:uuid;not null;column:location_id;index" json:"location_id"`
	EmployeeID    *uuid.UUID `gorm:"type:uuid;column:employee_id" json:"employee_id,omitempty"`
	Certification string     `gorm:"not null;column:certification" json:"certification"`
	IssuedAt      *time.Time `gorm:"column:issued_at" json:"issued_at,omitempty"`
	ExpiresAt     *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (TrainingRecord) TableName() string { return "training_record" }

// HazardReport is an explicit imminent-hazard flag (sewage backup, no hot
// water, ...). It stays open until ResolvedAt is set.
type HazardReport struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID  uuid.UUID  `gorm:"type:uuid;not null;column:location_id;index" json:"location_id"`
	HazardType  string     `gorm:"not null;column:hazard_type" json:"hazard_type"`
	Description string     `gorm:"column:description" json:"description"`
	ReportedAt  time.Time  `gorm:"not null;column:reported_at" json:"reported_at"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at;index" json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (HazardReport) TableName() string { return "hazard_report" }
