package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/evidly-backend/internal/data/repos/compliance"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type LocationRepo = compliance.LocationRepo
type JurisdictionRepo = compliance.JurisdictionRepo
type LocationJurisdictionRepo = compliance.LocationJurisdictionRepo
type JurisdictionOverrideRepo = compliance.JurisdictionOverrideRepo
type ViolationCatalogRepo = compliance.ViolationCatalogRepo

type TemperatureLogRepo = compliance.TemperatureLogRepo
type ChecklistCompletionRepo = compliance.ChecklistCompletionRepo
type DocumentRepo = compliance.DocumentRepo
type EquipmentRecordRepo = compliance.EquipmentRecordRepo
type HACCPPlanRepo = compliance.HACCPPlanRepo
type TrainingRecordRepo = compliance.TrainingRecordRepo
type HazardReportRepo = compliance.HazardReportRepo

type ScoreSnapshotRepo = compliance.ScoreSnapshotRepo
type ScoreCalculationRepo = compliance.ScoreCalculationRepo

// Set is every repo the scoring service uses, built over one *gorm.DB.
type Set struct {
	Location             LocationRepo
	Jurisdiction         JurisdictionRepo
	LocationJurisdiction LocationJurisdictionRepo
	JurisdictionOverride JurisdictionOverrideRepo
	ViolationCatalog     ViolationCatalogRepo

	TemperatureLog      TemperatureLogRepo
	ChecklistCompletion ChecklistCompletionRepo
	Document            DocumentRepo
	EquipmentRecord     EquipmentRecordRepo
	HACCPPlan           HACCPPlanRepo
	TrainingRecord      TrainingRecordRepo
	HazardReport        HazardReportRepo

	ScoreSnapshot    ScoreSnapshotRepo
	ScoreCalculation ScoreCalculationRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Location:             compliance.NewLocationRepo(db, log),
		Jurisdiction:         compliance.NewJurisdictionRepo(db, log),
		LocationJurisdiction: compliance.NewLocationJurisdictionRepo(db, log),
		JurisdictionOverride: compliance.NewJurisdictionOverrideRepo(db, log),
		ViolationCatalog:     compliance.NewViolationCatalogRepo(db, log),

		TemperatureLog:      compliance.NewTemperatureLogRepo(db, log),
		ChecklistCompletion: compliance.NewChecklistCompletionRepo(db, log),
		Document:            compliance.NewDocumentRepo(db, log),
		EquipmentRecord:     compliance.NewEquipmentRecordRepo(db, log),
		HACCPPlan:           compliance.NewHACCPPlanRepo(db, log),
		TrainingRecord:      compliance.NewTrainingRecordRepo(db, log),
		HazardReport:        compliance.NewHazardReportRepo(db, log),

		ScoreSnapshot:    compliance.NewScoreSnapshotRepo(db, log),
		ScoreCalculation: compliance.NewScoreCalculationRepo(db, log),
	}
}
