package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"CapTrades/internal/domain/models"
	"CapTrades/internal/engine"
	"CapTrades/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMetrics struct {
	mu       sync.Mutex
	batches  map[string]int
	analyses map[string]int
	errors   map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{
		batches:  make(map[string]int),
		analyses: make(map[string]int),
		errors:   make(map[string]int),
	}
}

func (m *stubMetrics) RecordBatch(source string, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[source] += size
}

func (m *stubMetrics) RecordAnalysis(decision string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[decision]++
}

func (m *stubMetrics) RecordRecommendation(backend, ticker string) {}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *stubMetrics) RecordLatency(op string, seconds float64) {}

type stubPrefStore struct {
	mu    sync.Mutex
	prefs *models.Preferences
	saves int
}

func (s *stubPrefStore) Load(ctx context.Context) (models.Preferences, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prefs == nil {
		return models.Preferences{}, false, nil
	}
	return *s.prefs, true, nil
}

func (s *stubPrefStore) Save(ctx context.Context, p models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = &p
	s.saves++
	return nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	return l
}

func alignedPurchase(id string) models.Trade {
	return models.Trade{
		ID:         id,
		Timestamp:  time.Now().Add(-2 * time.Hour).Format(time.RFC3339),
		Ticker:     "NVDA",
		Company:    "NVIDIA Corporation",
		Type:       models.TradePurchase,
		AmountMin:  50000,
		AmountMax:  100000,
		Committees: []string{"Science, Space, and Technology"},
	}
}

func TestAnalyzerSetBatch(t *testing.T) {
	a := NewAnalyzer(engine.New(engine.DefaultContext()), &stubPrefStore{}, newStubMetrics(), newTestLogger(t))

	a.SetBatch(context.Background(), []models.Trade{
		alignedPurchase("a"),
		{ID: "b", Ticker: "XYZ", Type: models.TradeSale},
	})

	snap := a.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].Trade.ID)
	assert.Equal(t, models.DecisionBuy, snap[0].Analysis.Decision)
	assert.Equal(t, "b", snap[1].Trade.ID)
	assert.Equal(t, models.DecisionSkip, snap[1].Analysis.Decision)
	assert.Equal(t, 2, a.BatchSize())
}

func TestAnalyzerBatchReplacedWholesale(t *testing.T) {
	a := NewAnalyzer(engine.New(engine.DefaultContext()), &stubPrefStore{}, newStubMetrics(), newTestLogger(t))

	a.SetBatch(context.Background(), []models.Trade{alignedPurchase("a"), alignedPurchase("b")})
	a.SetBatch(context.Background(), []models.Trade{alignedPurchase("c")})

	snap := a.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "c", snap[0].Trade.ID)
}

func TestAnalyzerUpdatePreferencesRecomputes(t *testing.T) {
	store := &stubPrefStore{}
	a := NewAnalyzer(engine.New(engine.DefaultContext()), store, newStubMetrics(), newTestLogger(t))

	a.SetBatch(context.Background(), []models.Trade{alignedPurchase("a")})
	require.Equal(t, models.DecisionBuy, a.Snapshot()[0].Analysis.Decision)

	threshold := 90
	prefs, err := a.UpdatePreferences(context.Background(), models.PreferencesUpdate{
		ConfidenceThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, 90, prefs.ConfidenceThreshold)

	// Same batch, stricter threshold: the held analysis flips to SKIP.
	assert.Equal(t, models.DecisionSkip, a.Snapshot()[0].Analysis.Decision)
	assert.Equal(t, 1, store.saves)

	// Untouched fields keep their defaults.
	assert.Equal(t, models.DefaultPreferences().Budget, prefs.Budget)
}

func TestAnalyzerRestoresPersistedPreferences(t *testing.T) {
	saved := models.DefaultPreferences()
	saved.Budget = 250000
	store := &stubPrefStore{prefs: &saved}

	a := NewAnalyzer(engine.New(engine.DefaultContext()), store, newStubMetrics(), newTestLogger(t))
	assert.Equal(t, 250000.0, a.Preferences().Budget)
}

func TestAnalyzerNotifiesListeners(t *testing.T) {
	a := NewAnalyzer(engine.New(engine.DefaultContext()), &stubPrefStore{}, newStubMetrics(), newTestLogger(t))

	var (
		mu      sync.Mutex
		batches [][]models.AnalyzedTrade
	)
	a.AddListener(func(ctx context.Context, batch []models.AnalyzedTrade, prefs models.Preferences) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, batch)
	})

	a.SetBatch(context.Background(), []models.Trade{alignedPurchase("a")})
	enabled := false
	_, err := a.UpdatePreferences(context.Background(), models.PreferencesUpdate{NotificationEnabled: &enabled})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 1)
	assert.Len(t, batches[1], 1)
}

func TestAnalyzerEvaluateOneLeavesBatchAlone(t *testing.T) {
	a := NewAnalyzer(engine.New(engine.DefaultContext()), &stubPrefStore{}, newStubMetrics(), newTestLogger(t))
	a.SetBatch(context.Background(), []models.Trade{alignedPurchase("a")})

	an := a.EvaluateOne(models.Trade{ID: "adhoc", Ticker: "XYZ", Type: models.TradeSale}, nil, time.Now())
	assert.Equal(t, models.DecisionSkip, an.Decision)

	snap := a.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].Trade.ID)
}
