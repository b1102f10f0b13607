package di

import (
	"context"
	"fmt"
	"time"

	"CapTrades/internal/domain/repository"
	"CapTrades/internal/engine"
	"CapTrades/internal/handler/api"
	mid "CapTrades/internal/middleware"
	internalrepo "CapTrades/internal/repository"
	"CapTrades/internal/service/captrades"
	"CapTrades/internal/service/ratelimit"
	"CapTrades/internal/usecase"
	"CapTrades/pkg/cache"
	pkgch "CapTrades/pkg/clickhouse"
	"CapTrades/pkg/config"
	pkgkafka "CapTrades/pkg/kafka"
	"CapTrades/pkg/logger"
	"CapTrades/pkg/metrics"
	"CapTrades/pkg/server"

	segkafka "github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine builds the scoring engine. Config keyword overrides shadow
// individual committees in the built-in table.
func ProvideEngine(cfg *config.Config) *engine.Engine {
	base := engine.DefaultContext()
	for committee, keywords := range cfg.Engine.CommitteeKeywords {
		base.CommitteeKeywords[committee] = keywords
	}
	return engine.New(base)
}

// ProvideCache selects Redis when enabled and falls back to the in-process
// cache otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvidePreferenceStore creates the cache-backed preference store.
func ProvidePreferenceStore(c cache.Service) repository.PreferenceStore {
	return internalrepo.NewCachePreferenceStore(c)
}

// ProvideClickHouseClient creates a ClickHouse client when the archive
// backend is selected, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Backend.Type != usecase.BackendClickHouse {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideArchive creates the ClickHouse archive, nil when not configured.
func ProvideArchive(chClient *pkgch.Client, cfg *config.Config) repository.Archive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
}

// ProvideKafkaProducer creates a Kafka producer. One producer serves both
// recommendation publishing and aggregated log shipping, so it is built
// whenever either needs it.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	needed := cfg.Backend.Type == usecase.BackendKafka || (cfg.Kafka.LogsTopic != "" && len(cfg.Kafka.Brokers) > 0)
	if !needed {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the Kafka recommendation publisher, nil when the
// kafka backend is not selected.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil || cfg.Backend.Type != usecase.BackendKafka {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideFeed selects the configured trade feed.
func ProvideFeed(cfg *config.Config, log *logger.Logger) repository.TradeFeed {
	if cfg.Feed.Type == "http" {
		return captrades.New(
			cfg.Feed.URL,
			cfg.Feed.Timeout,
			ratelimit.New(),
			cfg.Feed.RateCapacity,
			cfg.Feed.RateRefill,
			log,
		)
	}
	return captrades.NewStatic()
}

// ProvidePipeline creates the ingest validation pipeline.
func ProvidePipeline(m repository.Metrics, log *logger.Logger) *mid.IngestPipeline {
	return mid.NewIngestPipeline(m, log)
}

// ProvideAnalyzer creates the analyzer with restored preferences.
func ProvideAnalyzer(eng *engine.Engine, store repository.PreferenceStore, m repository.Metrics, log *logger.Logger) *usecase.Analyzer {
	return usecase.NewAnalyzer(eng, store, m, log)
}

// ProvideCollector creates the feed poller.
func ProvideCollector(feed repository.TradeFeed, pipe *mid.IngestPipeline, analyzer *usecase.Analyzer, m repository.Metrics, log *logger.Logger, cfg *config.Config) *usecase.TradeCollector {
	return usecase.NewTradeCollector(feed, pipe, analyzer, m, log, cfg.Feed.PollInterval)
}

// ProvideProcessor creates the recommendation processor.
func ProvideProcessor(cfg *config.Config, pub repository.Publisher, arch repository.Archive, m repository.Metrics, log *logger.Logger) *usecase.RecommendationProcessor {
	return usecase.NewRecommendationProcessor(cfg.Backend.Type, pub, arch, m, log)
}

// ProvideHub creates the WebSocket broadcast hub.
func ProvideHub(log *logger.Logger) *api.Hub {
	return api.NewHub(log)
}

// ProvideKafkaConsumer creates the batch-ingest consumer, nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config, m repository.Metrics, log *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}

	consumer.WithConsumerHook(pkgkafka.HookFuncs{
		Err: func(_ context.Context, topic string, _ segkafka.Message, _ []byte, _ error) {
			m.RecordError("consumer_" + topic)
		},
	})
	return consumer, nil
}

// ProvideKafkaTradesHandler creates the batch ingest handler.
func ProvideKafkaTradesHandler(cfg *config.Config, pipe *mid.IngestPipeline, analyzer *usecase.Analyzer, m repository.Metrics, log *logger.Logger) *usecase.KafkaTradesHandler {
	return usecase.NewKafkaTradesHandler(cfg.Kafka.Consumer.Topic, pipe, analyzer, m, log)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(log *logger.Logger, analyzer *usecase.Analyzer, collector *usecase.TradeCollector, pipe *mid.IngestPipeline, hub *api.Hub) *api.TradesEchoHandler {
	return api.NewTradesEchoHandler(log, analyzer, collector, pipe, hub)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
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
) *server.App {
	return server.New(cfg, log, analyzer, collector, processor, hub, handler, consumer, kh, producer, chClient, c)
}
