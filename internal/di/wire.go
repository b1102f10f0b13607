//go:build wireinject
// +build wireinject

package di

import (
	"CapTrades/pkg/config"
	"CapTrades/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvidePreferenceStore,
		ProvideArchive,
		ProvidePublisher,
		ProvideFeed,

		// Core
		ProvideEngine,
		ProvidePipeline,
		ProvideAnalyzer,
		ProvideCollector,
		ProvideProcessor,
		ProvideKafkaTradesHandler,

		// HTTP surface
		ProvideHub,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
