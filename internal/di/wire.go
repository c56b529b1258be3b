//go:build wireinject
// +build wireinject

package di

import (
	"TiltBoard/pkg/config"
	"TiltBoard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Model tables and infrastructure
		ProvideModelTables,
		ProvideRedis,
		ProvideCacheService,
		ProvidePriceSource,

		// Use cases
		ProvideMarketData,
		ProvideForecaster,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
