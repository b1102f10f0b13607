package repository

import (
	"context"

	"CapTrades/internal/domain/models"
	"CapTrades/internal/domain/repository"
	pkgkafka "CapTrades/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Messages are keyed by ticker
// so per-ticker ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka recommendation publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, rec *models.AnalyzedTrade) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Trade.Ticker), rec)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, recs []*models.AnalyzedTrade) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(recs))
	for i, rec := range recs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(rec.Trade.Ticker),
			Value: rec,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
