package captrades

import (
	"context"
	"time"

	"CapTrades/internal/domain/models"
	drepo "CapTrades/internal/domain/repository"
)

// StaticFeed serves a built-in batch of sample disclosures. Useful for local
// development and demos when no disclosure endpoint is reachable.
type StaticFeed struct {
	now func() time.Time
}

// NewStatic creates a feed backed by sample data.
func NewStatic() drepo.TradeFeed {
	return &StaticFeed{now: time.Now}
}

func (f *StaticFeed) Name() string { return "static" }

// Fetch returns the sample batch. Timestamps are generated relative to the
// current time so recency-sensitive scoring stays meaningful.
func (f *StaticFeed) Fetch(ctx context.Context) ([]models.Trade, error) {
	now := f.now()
	ts := func(age time.Duration) string {
		return now.Add(-age).UTC().Format(time.RFC3339)
	}

	return []models.Trade{
		{
			ID:         "sample-1",
			Timestamp:  ts(36 * time.Hour),
			Member:     "Nancy Pelosi",
			Chamber:    models.ChamberHouse,
			Ticker:     "NVDA",
			Company:    "NVIDIA Corporation",
			Type:       models.TradePurchase,
			AmountMin:  50000,
			AmountMax:  100000,
			AmountText: "$50K-$100K",
			Committees: []string{"Science, Space, and Technology"},
			Source:     "sample",
		},
		{
			ID:         "sample-2",
			Timestamp:  ts(3 * 24 * time.Hour),
			Member:     "Josh Hawley",
			Chamber:    models.ChamberSenate,
			Ticker:     "TSLA",
			Company:    "Tesla, Inc.",
			Type:       models.TradeSale,
			AmountMin:  15000,
			AmountMax:  50000,
			AmountText: "$15K-$50K",
			Committees: []string{"Commerce, Science, and Transportation"},
			Source:     "sample",
		},
		{
			ID:         "sample-3",
			Timestamp:  ts(5 * 24 * time.Hour),
			Member:     "Alexandria Ocasio-Cortez",
			Chamber:    models.ChamberHouse,
			Ticker:     "AAPL",
			Company:    "Apple Inc.",
			Type:       models.TradePurchase,
			AmountMin:  1000,
			AmountMax:  15000,
			AmountText: "$1K-$15K",
			Committees: []string{"Financial Services"},
			Source:     "sample",
		},
		{
			ID:         "sample-4",
			Timestamp:  ts(8 * 24 * time.Hour),
			Member:     "Ted Cruz",
			Chamber:    models.ChamberSenate,
			Ticker:     "META",
			Company:    "Meta Platforms, Inc.",
			Type:       models.TradePurchase,
			AmountMin:  25000,
			AmountMax:  50000,
			AmountText: "$25K-$50K",
			Committees: []string{"Judiciary", "Commerce, Science, and Transportation"},
			Source:     "sample",
		},
		{
			ID:         "sample-5",
			Timestamp:  ts(12 * 24 * time.Hour),
			Member:     "Marco Rubio",
			Chamber:    models.ChamberSenate,
			Ticker:     "GOOGL",
			Company:    "Alphabet Inc.",
			Type:       models.TradeSaleFull,
			AmountMin:  100000,
			AmountMax:  250000,
			AmountText: "$100K-$250K",
			Committees: []string{"Foreign Relations", "Intelligence"},
			Source:     "sample",
		},
	}, nil
}
