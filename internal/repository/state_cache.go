package repository

import (
	"context"
	"errors"
	"time"

	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/pkg/cache"
)

// CacheStateStore adapts a cache.Service (Redis in production, memory in
// tests) to the domain StateStore contract.
type CacheStateStore struct {
	c cache.Service
}

func NewCacheStateStore(c cache.Service) domrepo.StateStore {
	return &CacheStateStore{c: c}
}

func (s *CacheStateStore) Get(ctx context.Context, key string, dest interface{}) error {
	err := s.c.Get(ctx, key, dest)
	if errors.Is(err, cache.ErrCacheMiss) {
		return domrepo.ErrNotFound
	}
	return err
}

func (s *CacheStateStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return s.c.Set(ctx, key, value, ttl)
}

func (s *CacheStateStore) SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	return s.c.SetNX(ctx, key, value, ttl)
}

func (s *CacheStateStore) Delete(ctx context.Context, key string) error {
	return s.c.Delete(ctx, key)
}
