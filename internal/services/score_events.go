package services

import (
	"context"
	"time"
)

const ScoreEventUpdated = "score.updated"

// ScoreUpdatedEvent tells dashboards a location has a fresh score.
type ScoreUpdatedEvent struct {
	Event         string    `json:"event"`
	LocationID    string    `json:"locationId"`
	OverallScore  float64   `json:"overallScore"`
	FoodSafety    float64   `json:"foodSafety"`
	FireSafety    float64   `json:"fireSafety"`
	ImminentRisk  bool      `json:"imminentHazard"`
	InputHash     string    `json:"inputHash"`
	EngineVersion string    `json:"engineVersion"`
	CalculatedAt  time.Time `json:"calculatedAt"`
}

type ScoreEventPublisher interface {
	PublishScoreUpdated(ctx context.Context, ev ScoreUpdatedEvent) error
}
