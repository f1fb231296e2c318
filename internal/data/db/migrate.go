package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
)

// AutoMigrateAll creates or updates every table the scoring service owns or
// reads. It runs on Postgres and SQLite alike.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Locations + jurisdictions
		// =========================
		&types.Location{},
		&types.Jurisdiction{},
		&types.LocationJurisdiction{},
		&types.JurisdictionViolationOverride{},
		&types.ViolationCatalogItem{},

		// =========================
		// Operational signals
		// =========================
		&types.TemperatureLog{},
		&types.ChecklistCompletion{},
		&types.Document{},
		&types.EquipmentRecord{},
		&types.HACCPPlan{},
		&types.TrainingRecord{},
		&types.HazardReport{},

		// =========================
		// Scores + audit trail
		// =========================
		&types.ScoreSnapshot{},
		&types.ScoreCalculation{},
	)
}

// EnsureComplianceIndexes adds the Postgres-only partial and descending
// indexes that struct tags can't express.
func EnsureComplianceIndexes(db *gorm.DB) error {
	// Open hazards are the hot path for the imminent-hazard check.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_hazard_report_open
		ON hazard_report (location_id)
		WHERE resolved_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_hazard_report_open: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_document_location_current
		ON document (location_id, expires_at)
		WHERE archived = false;
	`).Error; err != nil {
		return fmt.Errorf("create idx_document_location_current: %w", err)
	}

	// Snapshot history reads newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_score_snapshot_location_date_desc
		ON score_snapshot (location_id, snapshot_date DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_score_snapshot_location_date_desc: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_location_jurisdiction_location
		ON location_jurisdiction (location_id, created_at, id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_location_jurisdiction_location: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureComplianceIndexes(s.db); err != nil {
		s.log.Error("Compliance index migration failed", "error", err)
		return err
	}
	return nil
}
