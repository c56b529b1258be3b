package repository

import (
	"context"

	"TiltBoard/internal/domain/models"
)

// PriceSource provides daily close history for a provider symbol.
type PriceSource interface {
	DailyCloses(ctx context.Context, symbol string) (*models.Series, error)
}

type Metrics interface {
	RecordFetch(symbol, outcome string)
	RecordError(kind string)
	RecordSignal(signal string, value, median float64)
	RecordForecast()
	RecordLatency(op string, seconds float64)
}
