package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CapTrades/internal/handler/api"
	"CapTrades/internal/usecase"
	"CapTrades/pkg/cache"
	pkgch "CapTrades/pkg/clickhouse"
	"CapTrades/pkg/config"
	xhttp "CapTrades/pkg/http"
	pkgkafka "CapTrades/pkg/kafka"
	applogger "CapTrades/pkg/logger"
)

// App encapsulates the application lifecycle: it owns startup order, the
// listener wiring between analyzer and downstream consumers, and graceful
// shutdown.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	analyzer   *usecase.Analyzer
	collector  *usecase.TradeCollector
	processor  *usecase.RecommendationProcessor
	hub        *api.Hub
	handler    *api.TradesEchoHandler
	consumer   *pkgkafka.Consumer
	kh         *usecase.KafkaTradesHandler
	producer   *pkgkafka.Producer
	chClient   *pkgch.Client
	cache      cache.Service
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	analyzer *usecase.Analyzer,
	collector *usecase.TradeCollector,
	processor *usecase.RecommendationProcessor,
	hub *api.Hub,
	handler *api.TradesEchoHandler,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTradesHandler,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	c cache.Service,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		analyzer:  analyzer,
		collector: collector,
		processor: processor,
		hub:       hub,
		handler:   handler,
		consumer:  consumer,
		kh:        kh,
		producer:  producer,
		chClient:  chClient,
		cache:     c,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Every recompute fans out to the WebSocket hub and the backend router.
	a.analyzer.AddListener(a.hub.Listener())
	a.analyzer.AddListener(a.processor.Listener())

	// Ship aggregated error logs through Kafka when a sink is configured.
	if a.producer != nil && a.cfg.Kafka.LogsTopic != "" {
		a.log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   time.Minute,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogsTopic,
			Publisher:      a.producer,
		})
		a.log.Info("log shipping enabled", applogger.String("topic", a.cfg.Kafka.LogsTopic))
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	a.collector.Start(ctx)

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start", applogger.Error(err))
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start", applogger.Error(err))
		return err
	}
	a.log.Info("application started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("backend", a.cfg.Backend.Type),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown stops services in reverse dependency order: sources first, then
// the HTTP surface, then the sinks.
func (a *App) shutdown() error {
	a.collector.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown", applogger.Error(err))
	}
	a.hub.Close()

	// Flush pending aggregated logs before the producer goes away.
	a.log.RemoveCollector()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
