// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package cache provides the two caches in front of the store.
//
// Cache is an in-process TTL map used by the recommendation service to
// memoise the popular and top-rated rankings, which every cold-start
// request falls back to.
//
// RedisSimilarCache is a read-through cache of similar-item lookups shared
// between replicas. Every Redis call passes through a sony/gobreaker
// circuit breaker; read or write failures and an open breaker degrade to
// reading the store directly, so Redis is never required for correctness.
// Breaker state and hit ratios are exported through internal/metrics.
//
// Usage:
//
//	similar := cache.NewRedisSimilarCache(&cfg.Cache, db, logger)
//	defer similar.Close()
//	items, err := similar.SimilarItems(ctx, "p01", 5)
//
// After a similarity batch replaces the table, call Invalidate so stale
// lookups are not served until their TTL runs out.
package cache
