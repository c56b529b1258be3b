package service

import (
	"context"
	"time"

	"TiltBoard/internal/domain/models"
)

// Forecaster produces signal-tilted forecast tables.
type Forecaster interface {
	Table(ctx context.Context, opts models.ForecastOptions) (*models.ForecastTable, error)
	Snapshot(ctx context.Context) ([]models.SignalReading, error)
}

// ProviderHealth reports the outcome of the most recent provider round.
// A zero time means no fetch has happened yet.
type ProviderHealth interface {
	ProviderStatus() (healthy bool, checkedAt time.Time)
}
