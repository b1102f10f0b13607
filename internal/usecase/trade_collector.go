package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	drepo "CapTrades/internal/domain/repository"
	mid "CapTrades/internal/middleware"
	"CapTrades/internal/service/captrades"
	"CapTrades/pkg/logger"
)

// CollectorStatus is the feed health surfaced by the status endpoint.
type CollectorStatus struct {
	Feed      string    `json:"feed"`
	LastFetch time.Time `json:"lastFetch"`
	LastError string    `json:"lastError,omitempty"`
	BatchSize int       `json:"batchSize"`
}

// TradeCollector polls the disclosure feed on an interval and pushes each
// batch through the ingest pipeline into the analyzer. At most one fetch is
// outstanding at a time; a slow fetch skips ticks instead of stacking them.
type TradeCollector struct {
	feed     drepo.TradeFeed
	pipe     *mid.IngestPipeline
	analyzer *Analyzer
	metrics  drepo.Metrics
	log      *logger.Logger
	interval time.Duration

	mu        sync.Mutex
	lastFetch time.Time
	lastErr   error
	lastSize  int
	fetching  bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTradeCollector creates a collector. interval must be positive.
func NewTradeCollector(feed drepo.TradeFeed, pipe *mid.IngestPipeline, analyzer *Analyzer, metrics drepo.Metrics, log *logger.Logger, interval time.Duration) *TradeCollector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &TradeCollector{
		feed:     feed,
		pipe:     pipe,
		analyzer: analyzer,
		metrics:  metrics,
		log:      log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start fetches once immediately, then polls until Stop or ctx cancellation.
func (c *TradeCollector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.fetchOnce(ctx)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			case <-ticker.C:
				c.fetchOnce(ctx)
			}
		}
	}()
	c.log.Info("collector started",
		logger.String("feed", c.feed.Name()),
		logger.Duration("interval", c.interval),
	)
}

// Stop halts polling and waits for an in-flight fetch to finish.
func (c *TradeCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.wg.Wait()
}

// Status returns the latest feed health snapshot.
func (c *TradeCollector) Status() CollectorStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := CollectorStatus{
		Feed:      c.feed.Name(),
		LastFetch: c.lastFetch,
		BatchSize: c.lastSize,
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

func (c *TradeCollector) fetchOnce(ctx context.Context) {
	c.mu.Lock()
	if c.fetching {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.fetching = false
		c.mu.Unlock()
	}()

	start := time.Now()
	trades, err := c.feed.Fetch(ctx)
	c.metrics.RecordLatency("feed_fetch", time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, captrades.ErrRateLimited) {
			c.log.Debug("feed fetch skipped", logger.Error(err))
			return
		}
		c.metrics.RecordError("feed_fetch")
		c.log.Error("feed fetch failed", logger.String("feed", c.feed.Name()), logger.Error(err))
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return
	}

	valid := c.pipe.Filter(trades)
	c.metrics.RecordBatch(c.feed.Name(), len(valid))
	c.analyzer.SetBatch(ctx, valid)

	c.mu.Lock()
	c.lastFetch = time.Now()
	c.lastErr = nil
	c.lastSize = len(valid)
	c.mu.Unlock()

	c.log.Info("batch collected",
		logger.String("feed", c.feed.Name()),
		logger.Int("received", len(trades)),
		logger.Int("accepted", len(valid)),
	)
}
