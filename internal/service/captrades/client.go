package captrades

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"CapTrades/internal/domain/models"
	drepo "CapTrades/internal/domain/repository"
	"CapTrades/internal/service/ratelimit"
	xhttp "CapTrades/pkg/http"
	"CapTrades/pkg/logger"
)

// ErrRateLimited is returned when the politeness limit for the disclosure
// endpoint has no tokens left. Callers should skip the cycle, not fail.
var ErrRateLimited = errors.New("disclosure feed rate limited")

const limiterKey = "disclosure_feed"

// envelope is the wire format of the disclosure endpoint.
type envelope struct {
	Success bool           `json:"success"`
	Trades  []models.Trade `json:"trades"`
	Message string         `json:"message"`
}

// Client fetches congressional trade disclosures over HTTP.
type Client struct {
	url      string
	http     *xhttp.Client
	limiter  *ratelimit.Limiter
	capacity float64
	refill   float64
	log      *logger.Logger
}

// New creates an HTTP-backed TradeFeed.
func New(url string, timeout time.Duration, limiter *ratelimit.Limiter, capacity, refillPerSec float64, log *logger.Logger) drepo.TradeFeed {
	return &Client{
		url:      url,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:  limiter,
		capacity: capacity,
		refill:   refillPerSec,
		log:      log,
	}
}

func (c *Client) Name() string { return "http" }

// Fetch retrieves the latest disclosure batch. A response with success=false
// or a non-2xx status yields an error and no trades.
func (c *Client) Fetch(ctx context.Context) ([]models.Trade, error) {
	if c.limiter != nil && !c.limiter.Allow(limiterKey, c.capacity, c.refill) {
		return nil, ErrRateLimited
	}

	var env envelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodGet,
		URL:    c.url,
		Headers: map[string]string{
			"Accept": "application/json",
		},
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("fetch disclosures: %w", err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("disclosure endpoint rejected request: %s", msg)
	}

	c.log.Debug("fetched disclosure batch",
		logger.String("url", c.url),
		logger.Int("trades", len(env.Trades)),
	)
	return env.Trades, nil
}
