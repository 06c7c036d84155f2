//go:build wireinject
// +build wireinject

package di

import (
	"TradePulse/pkg/config"
	"TradePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideBinanceClient,
		ProvideKafkaProducer,
		ProvideClickHouseClient,

		// Repositories
		ProvideStateStore,
		ProvideMarketData,
		ProvideLiquidationFeed,
		ProvideSignalPublisher,
		ProvideSignalHistory,

		// Use cases
		ProvideLimiter,
		ProvideEvaluator,
		ProvideBatchUseCase,

		// Transport and background services
		ProvideHandler,
		ProvideCollector,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
