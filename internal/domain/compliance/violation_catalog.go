package compliance

import (
	"time"

	"github.com/google/uuid"
)

type ViolationCatalogItem struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code                  string    `gorm:"not null;uniqueIndex;column:code" json:"code"`
	Title                 string    `gorm:"not null;column:title" json:"title"`
	EvidlyPillar          string    `gorm:"not null;column:evidly_pillar;index" json:"evidly_pillar"`
	EvidlyModule          string    `gorm:"not null;column:evidly_module" json:"evidly_module"`
	SeverityDefault       string    `gorm:"not null;column:severity_default" json:"severity_default"`
	PointDeductionDefault int       `gorm:"not null;column:point_deduction_default" json:"point_deduction_default"`
	CDCRiskFactor         bool      `gorm:"not null;default:false;column:cdc_risk_factor" json:"cdc_risk_factor"`
	Active                bool      `gorm:"not null;column:active;index" json:"active"`
	SortOrder             int       `gorm:"not null;default:0;column:sort_order" json:"sort_order"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ViolationCatalogItem) TableName() string { return "violation_catalog" }
