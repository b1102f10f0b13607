package middleware

import (
	"testing"

	"CapTrades/internal/domain/models"
	"CapTrades/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	errors map[string]int
}

func (m *countingMetrics) RecordBatch(source string, size int)       {}
func (m *countingMetrics) RecordAnalysis(decision string)            {}
func (m *countingMetrics) RecordRecommendation(backend, tkr string)  {}
func (m *countingMetrics) RecordLatency(op string, seconds float64)  {}
func (m *countingMetrics) RecordError(kind string)                   { m.errors[kind]++ }

func newPipeline(t *testing.T) (*IngestPipeline, *countingMetrics) {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	m := &countingMetrics{errors: make(map[string]int)}
	return NewIngestPipeline(m, l), m
}

func TestFilterDropsInvalid(t *testing.T) {
	pipe, m := newPipeline(t)

	in := []models.Trade{
		{ID: "ok-1", Ticker: "NVDA", Type: models.TradePurchase},
		{ID: "", Ticker: "TSLA", Type: models.TradeSale},               // missing id
		{ID: "no-ticker", Ticker: "", Type: models.TradeSale},          // missing ticker
		{ID: "bad-type", Ticker: "AAPL", Type: "short"},                // unknown type
		{ID: "neg", Ticker: "META", Type: models.TradeSale, AmountMin: -5}, // negative bound
		{ID: "ok-2", Ticker: "GOOGL", Type: models.TradeSaleFull},
	}

	out := pipe.Filter(in)

	require.Len(t, out, 2)
	assert.Equal(t, "ok-1", out[0].ID)
	assert.Equal(t, "ok-2", out[1].ID)
	assert.Equal(t, 4, m.errors["ingest_validate"])
}

func TestFilterKeepsAllValid(t *testing.T) {
	pipe, m := newPipeline(t)

	in := []models.Trade{
		{ID: "a", Ticker: "NVDA", Type: models.TradePurchase},
		{ID: "b", Ticker: "TSLA", Type: models.TradeExchange},
		{ID: "c", Ticker: "AAPL", Type: models.TradeSalePartial},
	}

	out := pipe.Filter(in)
	assert.Equal(t, in, out)
	assert.Empty(t, m.errors)
}

func TestFilterEmptyBatch(t *testing.T) {
	pipe, _ := newPipeline(t)
	assert.Empty(t, pipe.Filter(nil))
}
