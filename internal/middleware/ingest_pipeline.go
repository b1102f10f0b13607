package middleware

import (
	"fmt"

	"CapTrades/internal/domain/models"
	domrepo "CapTrades/internal/domain/repository"
	"CapTrades/pkg/logger"
)

// IngestPipeline sits between a trade source and the analyzer. It validates
// mandatory fields and drops records that cannot be scored, counting each
// drop by reason.
type IngestPipeline struct {
	metrics domrepo.Metrics
	log     *logger.Logger
}

// NewIngestPipeline creates a validation pipeline.
func NewIngestPipeline(metrics domrepo.Metrics, log *logger.Logger) *IngestPipeline {
	return &IngestPipeline{metrics: metrics, log: log}
}

// Filter returns the subset of trades that pass validation, preserving input
// order. Invalid records are logged and counted, never fatal.
func (p *IngestPipeline) Filter(trades []models.Trade) []models.Trade {
	valid := make([]models.Trade, 0, len(trades))
	for i := range trades {
		if err := validateTrade(&trades[i]); err != nil {
			p.metrics.RecordError("ingest_validate")
			p.log.Warn("dropping invalid trade",
				logger.String("id", trades[i].ID),
				logger.String("ticker", trades[i].Ticker),
				logger.Error(err),
			)
			continue
		}
		valid = append(valid, trades[i])
	}
	return valid
}

func validateTrade(t *models.Trade) error {
	if t.ID == "" {
		return fmt.Errorf("id empty")
	}
	if t.Ticker == "" {
		return fmt.Errorf("ticker empty")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("unknown trade type %q", t.Type)
	}
	if t.AmountMin < 0 || t.AmountMax < 0 {
		return fmt.Errorf("negative amount bounds")
	}
	return nil
}
