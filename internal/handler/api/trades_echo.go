package api

import (
	"time"

	models "CapTrades/internal/domain/models"
	"CapTrades/internal/engine"
	mid "CapTrades/internal/middleware"
	"CapTrades/internal/usecase"
	xhttp "CapTrades/pkg/http"
	xlogger "CapTrades/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TradesEchoHandler exposes the analysis state over HTTP.
type TradesEchoHandler struct {
	logger    *xlogger.Logger
	analyzer  *usecase.Analyzer
	collector *usecase.TradeCollector
	pipe      *mid.IngestPipeline
	hub       *Hub
}

func NewTradesEchoHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer, collector *usecase.TradeCollector, pipe *mid.IngestPipeline, hub *Hub) *TradesEchoHandler {
	return &TradesEchoHandler{logger: logger, analyzer: analyzer, collector: collector, pipe: pipe, hub: hub}
}

func (h *TradesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/trades", h.Trades)
	g.POST("/trades", h.PushTrades)
	g.GET("/preferences", h.Preferences)
	g.PUT("/preferences", h.UpdatePreferences)
	g.POST("/evaluate", h.Evaluate)
	g.GET("/status", h.Status)

	e.GET("/ws", h.hub.Serve)
}

// Trades returns the current analyzed batch, newest-first as delivered by
// the feed, truncated to the requested limit.
func (h *TradesEchoHandler) Trades(c echo.Context) error {
	req := &models.TradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	batch := h.analyzer.Snapshot()
	total := len(batch)
	if req.Limit > 0 && req.Limit < total {
		batch = batch[:req.Limit]
	}
	return xhttp.ListResponse(c, batch, int64(total))
}

// pushResult reports how a submitted batch fared against validation.
type pushResult struct {
	Received int `json:"received"`
	Accepted int `json:"accepted"`
}

// PushTrades replaces the analyzer batch with a caller-provided JSON array.
func (h *TradesEchoHandler) PushTrades(c echo.Context) error {
	var trades []models.Trade
	if err := c.Bind(&trades); err != nil {
		return xhttp.BadRequestResponse(c, []string{"body must be a JSON array of trades"})
	}

	valid := h.pipe.Filter(trades)
	h.analyzer.SetBatch(c.Request().Context(), valid)

	h.logger.Info("batch pushed via http",
		xlogger.Int("received", len(trades)),
		xlogger.Int("accepted", len(valid)),
	)
	return xhttp.SuccessResponse(c, pushResult{Received: len(trades), Accepted: len(valid)})
}

// Preferences returns the current preferences snapshot.
func (h *TradesEchoHandler) Preferences(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.analyzer.Preferences())
}

// UpdatePreferences applies a partial update and returns the full result
// after recompute.
func (h *TradesEchoHandler) UpdatePreferences(c echo.Context) error {
	req := &models.PreferencesUpdate{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	prefs, err := h.analyzer.UpdatePreferences(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("preferences update", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, prefs)
}

// Evaluate scores a single ad-hoc trade without touching the held batch.
func (h *TradesEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Trade.Ticker == "" || !req.Trade.Type.Valid() {
		return xhttp.BadRequestResponse(c, []string{"trade requires a ticker and a known type"})
	}

	var override *engine.Context
	if req.ContextOverride != nil {
		override = &engine.Context{CommitteeKeywords: req.ContextOverride}
	}

	analysis := h.analyzer.EvaluateOne(req.Trade, override, time.Now())
	return xhttp.SuccessResponse(c, models.AnalyzedTrade{Trade: req.Trade, Analysis: analysis})
}

// Status reports feed health and the size of the held batch.
func (h *TradesEchoHandler) Status(c echo.Context) error {
	status := h.collector.Status()
	status.BatchSize = h.analyzer.BatchSize()
	return xhttp.SuccessResponse(c, status)
}
