package captrades

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CapTrades/internal/domain/models"
	"CapTrades/internal/service/ratelimit"
	"CapTrades/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	return l
}

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"trades": [
				{"id": "t1", "ticker": "NVDA", "type": "purchase", "member": "Nancy Pelosi",
				 "amountMin": 50000, "amountMax": 100000, "committees": ["Science, Space, and Technology"]}
			]
		}`))
	}))
	defer srv.Close()

	feed := New(srv.URL, 5*time.Second, nil, 0, 0, testLogger(t))

	trades, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)
	assert.Equal(t, "NVDA", trades[0].Ticker)
	assert.Equal(t, models.TradePurchase, trades[0].Type)
	assert.Equal(t, 50000.0, trades[0].AmountMin)
}

func TestClientFetchRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "upstream maintenance"}`))
	}))
	defer srv.Close()

	feed := New(srv.URL, 5*time.Second, nil, 0, 0, testLogger(t))

	trades, err := feed.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream maintenance")
	assert.Empty(t, trades)
}

func TestClientFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	feed := New(srv.URL, 5*time.Second, nil, 0, 0, testLogger(t))

	_, err := feed.Fetch(context.Background())
	require.Error(t, err)
}

func TestClientFetchRateLimited(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "trades": []}`))
	}))
	defer srv.Close()

	// Capacity of one and no refill: second fetch must be limited.
	feed := New(srv.URL, 5*time.Second, ratelimit.New(), 1, 0, testLogger(t))

	_, err := feed.Fetch(context.Background())
	require.NoError(t, err)

	_, err = feed.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Equal(t, 1, calls)
}

func TestStaticFeed(t *testing.T) {
	feed := NewStatic()

	trades, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, trades, 5)

	for _, tr := range trades {
		assert.NotEmpty(t, tr.ID)
		assert.NotEmpty(t, tr.Ticker)
		assert.True(t, tr.Type.Valid())
		parsed, ok := feedTimestamp(tr.Timestamp)
		require.True(t, ok, "timestamp should parse: %s", tr.Timestamp)
		assert.True(t, parsed.Before(time.Now()))
	}
	assert.Equal(t, "static", feed.Name())
}

func feedTimestamp(s string) (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, s)
	return ts, err == nil
}
