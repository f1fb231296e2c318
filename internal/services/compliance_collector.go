package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/evidly-backend/internal/data/repos"
	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/dbctx"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/scoring"
)

const DefaultScoringWindowDays = 7

// ComplianceCollector gathers one location's signal window. A failed query
// leaves its category empty; the evaluators then treat the missing evidence
// as they would an absent record.
type ComplianceCollector interface {
	Collect(ctx context.Context, locationID uuid.UUID, asOf time.Time) *scoring.Signals
}

type complianceCollector struct {
	log        *logger.Logger
	repos      repos.Set
	windowDays int
	metrics    *observability.Metrics
}

func NewComplianceCollector(log *logger.Logger, set repos.Set, windowDays int, metrics *observability.Metrics) ComplianceCollector {
	if windowDays <= 0 {
		windowDays = DefaultScoringWindowDays
	}
	return &complianceCollector{
		log:        log.With("service", "ComplianceCollector"),
		repos:      set,
		windowDays: windowDays,
		metrics:    metrics,
	}
}

func (c *complianceCollector) Collect(ctx context.Context, locationID uuid.UUID, asOf time.Time) *scoring.Signals {
	s := &scoring.Signals{
		AsOf:        asOf,
		WindowStart: asOf.AddDate(0, 0, -c.windowDays),
	}
	dbc := dbctx.Context{Ctx: ctx}

	// Every category is independent and read-only. Failures are absorbed per
	// category, so the group never cancels its siblings.
	var g errgroup.Group
	g.Go(func() error {
		rows, err := c.repos.TemperatureLog.ListInWindow(dbc, locationID, s.WindowStart, asOf)
		if c.failed("temperatures", locationID, err) {
			return nil
		}
		for _, r := range rows {
			s.Temperatures = append(s.Temperatures, scoring.TemperatureReading{RecordedAt: r.RecordedAt, InRange: r.InRange})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := c.repos.ChecklistCompletion.ListInWindow(dbc, locationID, s.WindowStart, asOf)
		if c.failed("checklists", locationID, err) {
			return nil
		}
		for _, r := range rows {
			s.Checklists = append(s.Checklists, scoring.ChecklistCompletion{CompletedAt: r.CompletedAt, ItemsFailed: r.ItemsFailed})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := c.repos.Document.ListCurrent(dbc, locationID)
		if c.failed("documents", locationID, err) {
			return nil
		}
		for _, r := range rows {
			s.Documents = append(s.Documents, scoring.DocumentRecord{Title: r.Title, ExpiresAt: r.ExpiresAt, VendorLinked: r.VendorID != nil})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := c.repos.EquipmentRecord.ListInService(dbc, locationID)
		if c.failed("equipment", locationID, err) {
			return nil
		}
		for _, r := range rows {
			s.Equipment = append(s.Equipment, scoring.EquipmentRecord{Name: r.Name, NextServiceAt: r.NextServiceAt})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := c.repos.HACCPPlan.ListByLocation(dbc, locationID)
		if c.failed("haccp", locationID, err) {
			return nil
		}
		for _, r := range rows {
			s.HACCPPlans = append(s.HACCPPlans, scoring.HACCPPlan{
				Name:   r.Name,
				Active: strings.EqualFold(strings.TrimSpace(r.Status), types.HACCPPlanStatusActive),
			})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := c.repos.TrainingRecord.ListByLocation(dbc, locationID)
		if c.failed("training", locationID, err) {
			return nil
		}
		for _, r := range rows {
			s.Training = append(s.Training, scoring.TrainingRecord{Certification: r.Certification, ExpiresAt: r.ExpiresAt})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := c.repos.HazardReport.ListOpen(dbc, locationID, asOf)
		if c.failed("hazards", locationID, err) {
			return nil
		}
		for _, r := range rows {
			s.Hazards = append(s.Hazards, scoring.HazardReport{HazardType: r.HazardType, ReportedAt: r.ReportedAt})
		}
		return nil
	})
	_ = g.Wait()
	return s
}

func (c *complianceCollector) failed(category string, locationID uuid.UUID, err error) bool {
	if err == nil {
		return false
	}
	c.metrics.IncCollectorFailure(category)
	c.log.Error("signal query failed; treating category as empty",
		"location_id", locationID,
		"stage", "collect",
		"category", category,
		"error", err,
	)
	return true
}
