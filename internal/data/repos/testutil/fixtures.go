package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/evidly-backend/internal/domain"
)

func SeedLocation(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Location {
	tb.Helper()
	l := &types.Location{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Name:           name,
		City:           "Fresno",
		County:         "Fresno",
		State:          "CA",
		Active:         true,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed location: %v", err)
	}
	return l
}

// SeedJurisdiction creates a jurisdiction with the default weights and
// thresholds. gradingConfig may be empty.
func SeedJurisdiction(tb testing.TB, ctx context.Context, tx *gorm.DB, name, scoringType, gradingType, gradingConfig string) *types.Jurisdiction {
	tb.Helper()
	j := &types.Jurisdiction{
		ID:                uuid.New(),
		Name:              name,
		State:             "CA",
		AgencyName:        name,
		AgencyType:        "environmental_health",
		ScoringType:       scoringType,
		GradingType:       gradingType,
		PassThreshold:     70,
		WarningThreshold:  60,
		CriticalThreshold: 50,
		FoodSafetyWeight:  60,
		FireSafetyWeight:  40,
		OpsWeight:         50,
		DocsWeight:        50,
	}
	if gradingConfig != "" {
		j.GradingConfig = datatypes.JSON([]byte(gradingConfig))
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed jurisdiction: %v", err)
	}
	return j
}

func AttachJurisdiction(tb testing.TB, ctx context.Context, tx *gorm.DB, locationID, jurisdictionID uuid.UUID, layer string, mostRestrictive bool, createdAt time.Time) *types.LocationJurisdiction {
	tb.Helper()
	lj := &types.LocationJurisdiction{
		ID:                uuid.New(),
		LocationID:        locationID,
		JurisdictionID:    jurisdictionID,
		JurisdictionLayer: layer,
		IsMostRestrictive: mostRestrictive,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
	if err := tx.WithContext(ctx).Omit("Jurisdiction").Create(lj).Error; err != nil {
		tb.Fatalf("attach jurisdiction: %v", err)
	}
	return lj
}

func SeedCatalogItem(tb testing.TB, ctx context.Context, tx *gorm.DB, code, pillar, module, severity string, points int) *types.ViolationCatalogItem {
	tb.Helper()
	it := &types.ViolationCatalogItem{
		ID:                    uuid.New(),
		Code:                  code,
		Title:                 code,
		EvidlyPillar:          pillar,
		EvidlyModule:          module,
		SeverityDefault:       severity,
		PointDeductionDefault: points,
		Active:                true,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed catalog item: %v", err)
	}
	return it
}

func SeedTemperatureLog(tb testing.TB, ctx context.Context, tx *gorm.DB, locationID uuid.UUID, inRange bool, at time.Time) *types.TemperatureLog {
	tb.Helper()
	reading := 38.0
	if !inRange {
		reading = 47.0
	}
	maxF := 41.0
	row := &types.TemperatureLog{
		ID:            uuid.New(),
		LocationID:    locationID,
		EquipmentName: "walk-in cooler",
		ReadingF:      reading,
		MaxF:          &maxF,
		InRange:       inRange,
		RecordedAt:    at,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed temperature log: %v", err)
	}
	return row
}

func SeedChecklistCompletion(tb testing.TB, ctx context.Context, tx *gorm.DB, locationID uuid.UUID, failed int, at time.Time) *types.ChecklistCompletion {
	tb.Helper()
	row := &types.ChecklistCompletion{
		ID:            uuid.New(),
		LocationID:    locationID,
		ChecklistName: "opening",
		ItemsTotal:    10,
		ItemsFailed:   failed,
		CompletedAt:   at,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed checklist completion: %v", err)
	}
	return row
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, locationID uuid.UUID, title string, expiresAt *time.Time, vendorID *uuid.UUID) *types.Document {
	tb.Helper()
	row := &types.Document{
		ID:           uuid.New(),
		LocationID:   locationID,
		Title:        title,
		DocumentType: "permit",
		VendorID:     vendorID,
		ExpiresAt:    expiresAt,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return row
}

func SeedHACCPPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, locationID uuid.UUID, status string) *types.HACCPPlan {
	tb.Helper()
	row := &types.HACCPPlan{
		ID:         uuid.New(),
		LocationID: locationID,
		Name:       "HACCP",
		Status:     status,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed haccp plan: %v", err)
	}
	return row
}

func SeedHazardReport(tb testing.TB, ctx context.Context, tx *gorm.DB, locationID uuid.UUID, hazardType string, at time.Time) *types.HazardReport {
	tb.Helper()
	row := &types.HazardReport{
		ID:         uuid.New(),
		LocationID: locationID,
		HazardType: hazardType,
		ReportedAt: at,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed hazard report: %v", err)
	}
	return row
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
