package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index;column:organization_id" json:"organization_id"`
	Name           string    `gorm:"not null;column:name" json:"name"`
	AddressLine    string    `gorm:"column:address_line" json:"address_line"`
	City           string    `gorm:"column:city" json:"city"`
	County         string    `gorm:"column:county" json:"county"`
	State          string    `gorm:"column:state" json:"state"`
	PostalCode     string    `gorm:"column:postal_code" json:"postal_code"`
	Active         bool      `gorm:"not null;column:active;index" json:"active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Location) TableName() string { return "location" }
