package repository

import (
	"context"
	"time"

	"CapTrades/internal/domain/models"
)

// TradeFeed yields one batch of normalized disclosure records per call. The
// engine layer places no constraints on scheduling; the collector decides
// when to fetch.
type TradeFeed interface {
	Fetch(ctx context.Context) ([]models.Trade, error)
	Name() string
}

// Publisher hands recommendation events off to a message broker.
type Publisher interface {
	Publish(ctx context.Context, rec *models.AnalyzedTrade) error
	PublishBatch(ctx context.Context, recs []*models.AnalyzedTrade) error
	Close() error
}

// Archive persists analyzed trades for later inspection.
type Archive interface {
	Store(ctx context.Context, at *models.AnalyzedTrade, analyzedAt time.Time) error
	StoreBatch(ctx context.Context, ats []*models.AnalyzedTrade, analyzedAt time.Time) error
	Health(ctx context.Context) error
	Close() error
}

// PreferenceStore persists the viewer preferences snapshot across restarts.
type PreferenceStore interface {
	Load(ctx context.Context) (models.Preferences, bool, error)
	Save(ctx context.Context, p models.Preferences) error
}

// Metrics records operational counters for the pipeline.
type Metrics interface {
	RecordBatch(source string, size int)
	RecordAnalysis(decision string)
	RecordRecommendation(backend, ticker string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
