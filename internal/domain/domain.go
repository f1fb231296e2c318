package domain

import (
	"github.com/yungbote/evidly-backend/internal/domain/compliance"
)

const (
	HACCPPlanStatusActive = compliance.HACCPPlanStatusActive
	SnapshotDateLayout    = compliance.SnapshotDateLayout
)

type Location = compliance.Location
type Jurisdiction = compliance.Jurisdiction
type LocationJurisdiction = compliance.LocationJurisdiction
type JurisdictionViolationOverride = compliance.JurisdictionViolationOverride
type ViolationCatalogItem = compliance.ViolationCatalogItem

type TemperatureLog = compliance.TemperatureLog
type ChecklistCompletion = compliance.ChecklistCompletion
type Document = compliance.Document
type EquipmentRecord = compliance.EquipmentRecord
type HACCPPlan = compliance.HACCPPlan
type TrainingRecord = compliance.TrainingRecord
type HazardReport = compliance.HazardReport

type ScoreSnapshot = compliance.ScoreSnapshot
type ScoreCalculation = compliance.ScoreCalculation
