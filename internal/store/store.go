// Package store provides scenario persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"quantpricer/internal/models"
)

// ScenarioStore defines the interface for scenario persistence.
type ScenarioStore interface {
	SaveScenario(ctx context.Context, scenario *models.Scenario) error
	GetScenarios(ctx context.Context, filter ScenarioFilter) ([]models.Scenario, error)
	GetScenarioByID(ctx context.Context, id int64) (*models.Scenario, error)
	Close() error
}

// ScenarioFilter represents filters for querying logged scenarios.
type ScenarioFilter struct {
	OptionType string
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
}
