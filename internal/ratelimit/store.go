// Package ratelimit provides a Redis-backed store for Echo's rate limiter
// middleware. Counters live in Redis so the quotas hold across replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"pixflow/internal/cache"
)

// Store counts requests in fixed windows. It implements
// echo middleware.RateLimiterStore.
type Store struct {
	cache  *cache.Client
	name   string
	limit  int64
	window time.Duration
}

// NewStore builds a store for one route family. name keeps counters for
// different quotas apart.
func NewStore(cache *cache.Client, name string, limit int64, window time.Duration) *Store {
	return &Store{
		cache:  cache,
		name:   name,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the identifier may proceed. When Redis is unreachable
// the counter reads zero and the request is allowed: quotas degrade to
// best-effort rather than blocking all traffic.
func (s *Store) Allow(identifier string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", s.name, identifier)
	count, err := s.cache.Incr(context.Background(), key, s.window)
	if err != nil {
		return true, nil
	}
	if count == 0 {
		return true, nil
	}
	return count <= s.limit, nil
}
