// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
)

const (
	breakerName  = "redis-cache"
	keyPrefix    = "itemsim:similar:"
	redisTimeout = 500 * time.Millisecond
)

// SimilarStore is the authoritative source of similar items, implemented
// by database.DB.
type SimilarStore interface {
	SimilarItems(ctx context.Context, productID string, limit int) ([]models.SimilarItem, error)
}

// RedisSimilarCache is a read-through cache of similar-item lookups. Redis
// calls go through a circuit breaker; when Redis fails or the breaker is
// open, lookups are served from the store directly.
type RedisSimilarCache struct {
	client *redis.Client
	store  SimilarStore
	cb     *gobreaker.CircuitBreaker[[]byte]
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisSimilarCache connects lazily; an unreachable Redis is not an
// error here, it only trips the breaker later.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRedisSimilarCache(cfg *config.CacheConfig, store SimilarStore, logger zerolog.Logger) *RedisSimilarCache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  redisTimeout,
		ReadTimeout:  redisTimeout,
		WriteTimeout: redisTimeout,
		MaxRetries:   -1,
	})
	return newRedisSimilarCache(client, cfg.TTL, store, logger)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newRedisSimilarCache(client *redis.Client, ttl time.Duration, store SimilarStore, logger zerolog.Logger) *RedisSimilarCache {
	l := logger.With().Str("component", "redis_cache").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A miss is a healthy answer.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &RedisSimilarCache{
		client: client,
		store:  store,
		cb:     cb,
		ttl:    ttl,
		logger: l,
	}
}

// SimilarItems returns cached items when present and otherwise reads the
// store and fills the cache. Redis problems never fail the lookup.
func (c *RedisSimilarCache) SimilarItems(ctx context.Context, productID string, limit int) ([]models.SimilarItem, error) {
	key := similarKey(productID, limit)

	if items, ok := c.get(ctx, key); ok {
		metrics.RecordCacheLookup("redis", true)
		return items, nil
	}
	metrics.RecordCacheLookup("redis", false)

	items, err := c.store.SimilarItems(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, items)
	return items, nil
}

// Invalidate drops every cached lookup. Called after a batch run replaces
// the similarity table.
func (c *RedisSimilarCache) Invalidate(ctx context.Context) error {
	_, err := c.execute(func() ([]byte, error) {
		iter := c.client.Scan(ctx, 0, keyPrefix+"*", 500).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, nil
		}
		return nil, c.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("invalidate similar cache: %w", err)
	}
	return nil
}

// State returns the breaker state as text.
func (c *RedisSimilarCache) State() string {
	return stateToString(c.cb.State())
}

// Close releases the Redis connection pool.
func (c *RedisSimilarCache) Close() error {
	return c.client.Close()
}

func (c *RedisSimilarCache) get(ctx context.Context, key string) ([]models.SimilarItem, bool) {
	raw, err := c.execute(func() ([]byte, error) {
		return c.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug().Err(err).Str("key", key).Msg("cache read skipped")
		}
		return nil, false
	}

	var items []models.SimilarItem
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return items, true
}

func (c *RedisSimilarCache) set(ctx context.Context, key string, items []models.SimilarItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if _, err := c.execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, raw, c.ttl).Err()
	}); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache write skipped")
	}
}

// execute runs fn through the breaker and records the outcome.
func (c *RedisSimilarCache) execute(fn func() ([]byte, error)) ([]byte, error) {
	result, err := c.cb.Execute(fn)
	switch {
	case err == nil || errors.Is(err, redis.Nil):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
	return result, err
}

func similarKey(productID string, limit int) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, productID, limit)
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
