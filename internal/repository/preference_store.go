package repository

import (
	"context"
	"errors"
	"fmt"

	"CapTrades/internal/domain/models"
	"CapTrades/internal/domain/repository"
	"CapTrades/pkg/cache"
)

const preferencesKey = "preferences"

// CachePreferenceStore persists the preferences snapshot in a cache backend
// (Redis in production, in-memory for local runs). Preferences never expire.
type CachePreferenceStore struct {
	cache cache.Service
}

// NewCachePreferenceStore creates a cache-backed preference store.
func NewCachePreferenceStore(c cache.Service) repository.PreferenceStore {
	return &CachePreferenceStore{cache: c}
}

func (s *CachePreferenceStore) Load(ctx context.Context) (models.Preferences, bool, error) {
	var p models.Preferences
	err := s.cache.Get(ctx, preferencesKey, &p)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.Preferences{}, false, nil
		}
		return models.Preferences{}, false, fmt.Errorf("load preferences: %w", err)
	}
	return p, true, nil
}

func (s *CachePreferenceStore) Save(ctx context.Context, p models.Preferences) error {
	if err := s.cache.Set(ctx, preferencesKey, p, 0); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
