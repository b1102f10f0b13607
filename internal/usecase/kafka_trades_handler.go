package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"CapTrades/internal/domain/models"
	drepo "CapTrades/internal/domain/repository"
	mid "CapTrades/internal/middleware"
	pkgkafka "CapTrades/pkg/kafka"
	"CapTrades/pkg/logger"
)

// KafkaTradesHandler ingests trade batches from a Kafka topic as an
// alternative to HTTP polling. Each message carries a full JSON array of
// trades and replaces the analyzer batch wholesale, same as a feed fetch.
type KafkaTradesHandler struct {
	topic    string
	pipe     *mid.IngestPipeline
	analyzer *Analyzer
	metrics  drepo.Metrics
	log      *logger.Logger
}

func NewKafkaTradesHandler(topic string, pipe *mid.IngestPipeline, analyzer *Analyzer, metrics drepo.Metrics, log *logger.Logger) *KafkaTradesHandler {
	return &KafkaTradesHandler{topic: topic, pipe: pipe, analyzer: analyzer, metrics: metrics, log: log}
}

func (h *KafkaTradesHandler) Topic() string { return h.topic }

func (h *KafkaTradesHandler) Handle(ctx context.Context, b []byte) error {
	var trades []models.Trade
	if err := json.Unmarshal(b, &trades); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode trade batch: %w", err)
	}

	valid := h.pipe.Filter(trades)
	h.metrics.RecordBatch("kafka", len(valid))
	h.analyzer.SetBatch(ctx, valid)

	h.log.Info("batch ingested from kafka",
		logger.String("topic", h.topic),
		logger.Int("received", len(trades)),
		logger.Int("accepted", len(valid)),
	)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaTradesHandler)(nil)
