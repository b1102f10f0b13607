package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CapTrades/internal/domain/models"
	drepo "CapTrades/internal/domain/repository"
	"CapTrades/internal/engine"
	"CapTrades/pkg/logger"
)

// BatchListener receives the full recomputed snapshot after every change.
type BatchListener func(ctx context.Context, batch []models.AnalyzedTrade, prefs models.Preferences)

// Analyzer owns the current trade batch, the preferences snapshot, and the
// analyses derived from them. Any change to either input triggers a full
// recompute; trades and analyses always describe the same instant.
type Analyzer struct {
	engine  *engine.Engine
	store   drepo.PreferenceStore
	metrics drepo.Metrics
	log     *logger.Logger
	now     func() time.Time

	mu        sync.RWMutex
	prefs     models.Preferences
	trades    []models.Trade
	analyses  []models.Analysis
	listeners []BatchListener
}

// NewAnalyzer creates an analyzer seeded with defaults, then restores the
// persisted preferences snapshot if one exists.
func NewAnalyzer(eng *engine.Engine, store drepo.PreferenceStore, metrics drepo.Metrics, log *logger.Logger) *Analyzer {
	a := &Analyzer{
		engine:  eng,
		store:   store,
		metrics: metrics,
		log:     log,
		now:     time.Now,
		prefs:   models.DefaultPreferences(),
	}

	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if p, ok, err := store.Load(ctx); err != nil {
			log.Warn("restoring preferences failed, using defaults", logger.Error(err))
		} else if ok {
			a.prefs = p
			log.Info("restored persisted preferences")
		}
	}

	return a
}

// AddListener registers a listener invoked after every recompute. Not safe
// to call after the collector has started.
func (a *Analyzer) AddListener(l BatchListener) {
	a.listeners = append(a.listeners, l)
}

// SetBatch replaces the current trade batch and recomputes every analysis.
func (a *Analyzer) SetBatch(ctx context.Context, trades []models.Trade) {
	a.mu.Lock()
	a.trades = append([]models.Trade(nil), trades...)
	a.recomputeLocked()
	batch, prefs := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(ctx, batch, prefs)
}

// UpdatePreferences applies the update, persists the result, and recomputes
// every analysis against the new preferences.
func (a *Analyzer) UpdatePreferences(ctx context.Context, upd models.PreferencesUpdate) (models.Preferences, error) {
	a.mu.Lock()
	next := upd.Apply(a.prefs)
	a.prefs = next
	a.recomputeLocked()
	batch, prefs := a.snapshotLocked()
	a.mu.Unlock()

	if a.store != nil {
		if err := a.store.Save(ctx, next); err != nil {
			a.metrics.RecordError("preferences_save")
			a.log.Error("persisting preferences", logger.Error(err))
			return next, fmt.Errorf("persist preferences: %w", err)
		}
	}

	a.notify(ctx, batch, prefs)
	return next, nil
}

// Preferences returns the current preferences snapshot.
func (a *Analyzer) Preferences() models.Preferences {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.prefs
}

// Snapshot returns the current analyzed batch.
func (a *Analyzer) Snapshot() []models.AnalyzedTrade {
	a.mu.RLock()
	defer a.mu.RUnlock()
	batch, _ := a.snapshotLocked()
	return batch
}

// EvaluateOne scores a single trade against the current preferences without
// touching the held batch. override, when non-nil, shadows the default
// committee keyword table for this call only.
func (a *Analyzer) EvaluateOne(trade models.Trade, override *engine.Context, now time.Time) models.Analysis {
	a.mu.RLock()
	prefs := a.prefs
	a.mu.RUnlock()

	an := a.engine.Evaluate(trade, override, &prefs, now)
	a.metrics.RecordAnalysis(string(an.Decision))
	return an
}

// BatchSize returns the number of trades currently held.
func (a *Analyzer) BatchSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.trades)
}

func (a *Analyzer) recomputeLocked() {
	start := a.now()
	analyses := make([]models.Analysis, len(a.trades))
	for i := range a.trades {
		analyses[i] = a.engine.Evaluate(a.trades[i], nil, &a.prefs, start)
		a.metrics.RecordAnalysis(string(analyses[i].Decision))
	}
	a.analyses = analyses
	a.metrics.RecordLatency("recompute", time.Since(start).Seconds())
}

func (a *Analyzer) snapshotLocked() ([]models.AnalyzedTrade, models.Preferences) {
	batch := make([]models.AnalyzedTrade, len(a.trades))
	for i := range a.trades {
		batch[i] = models.AnalyzedTrade{Trade: a.trades[i], Analysis: a.analyses[i]}
	}
	return batch, a.prefs
}

func (a *Analyzer) notify(ctx context.Context, batch []models.AnalyzedTrade, prefs models.Preferences) {
	for _, l := range a.listeners {
		l(ctx, batch, prefs)
	}
}
