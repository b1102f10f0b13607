package usecase

import (
	"context"
	"time"

	"CapTrades/internal/domain/models"
	drepo "CapTrades/internal/domain/repository"
	"CapTrades/pkg/logger"
)

// Backend names accepted by the recommendation processor.
const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// RecommendationProcessor routes each recomputed batch to the configured
// backend: Kafka receives BUY recommendations as notification events,
// ClickHouse archives every analysis, none discards.
type RecommendationProcessor struct {
	backend   string
	publisher drepo.Publisher
	archive   drepo.Archive
	metrics   drepo.Metrics
	log       *logger.Logger
}

// NewRecommendationProcessor creates a processor. publisher and archive may
// be nil when the corresponding backend is not configured.
func NewRecommendationProcessor(backend string, publisher drepo.Publisher, archive drepo.Archive, metrics drepo.Metrics, log *logger.Logger) *RecommendationProcessor {
	if backend == "" {
		backend = BackendNone
	}
	return &RecommendationProcessor{
		backend:   backend,
		publisher: publisher,
		archive:   archive,
		metrics:   metrics,
		log:       log,
	}
}

// Process handles one analyzed batch. Errors are logged and counted, never
// propagated: a broken backend must not stall analysis.
func (p *RecommendationProcessor) Process(ctx context.Context, batch []models.AnalyzedTrade, prefs models.Preferences) {
	if len(batch) == 0 {
		return
	}

	switch p.backend {
	case BackendKafka:
		p.publishBuys(ctx, batch, prefs)
	case BackendClickHouse:
		p.archiveAll(ctx, batch)
	}
}

func (p *RecommendationProcessor) publishBuys(ctx context.Context, batch []models.AnalyzedTrade, prefs models.Preferences) {
	if p.publisher == nil || !prefs.NotificationEnabled {
		return
	}

	recs := make([]*models.AnalyzedTrade, 0, len(batch))
	for i := range batch {
		if batch[i].Analysis.Decision == models.DecisionBuy {
			recs = append(recs, &batch[i])
		}
	}
	if len(recs) == 0 {
		return
	}

	if err := p.publisher.PublishBatch(ctx, recs); err != nil {
		p.metrics.RecordError("recommendation_publish")
		p.log.Error("publishing recommendations", logger.Error(err))
		return
	}
	for _, rec := range recs {
		p.metrics.RecordRecommendation(p.backend, rec.Trade.Ticker)
	}
	p.log.Info("recommendations published", logger.Int("count", len(recs)))
}

func (p *RecommendationProcessor) archiveAll(ctx context.Context, batch []models.AnalyzedTrade) {
	if p.archive == nil {
		return
	}

	ats := make([]*models.AnalyzedTrade, len(batch))
	for i := range batch {
		ats[i] = &batch[i]
	}

	start := time.Now()
	if err := p.archive.StoreBatch(ctx, ats, start); err != nil {
		p.metrics.RecordError("recommendation_archive")
		p.log.Error("archiving analyses", logger.Error(err))
		return
	}
	p.metrics.RecordLatency("archive_insert", time.Since(start).Seconds())
	for _, at := range ats {
		p.metrics.RecordRecommendation(p.backend, at.Trade.Ticker)
	}
}

// Listener adapts Process to the analyzer's listener signature.
func (p *RecommendationProcessor) Listener() BatchListener {
	return func(ctx context.Context, batch []models.AnalyzedTrade, prefs models.Preferences) {
		p.Process(ctx, batch, prefs)
	}
}
