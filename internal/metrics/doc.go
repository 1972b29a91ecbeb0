// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Collectors are package-level promauto values registered with the default
// registry. Callers use the Record* helpers rather than touching the vectors
// directly, so label sets stay consistent.
//
// # Families
//
//   - duckdb_*: store query latency and errors
//   - api_*: HTTP request counts, latency and in-flight requests
//   - similarity_*: batch duration, outcome, pairs written, matrix density
//   - recommend_*: model fit duration, predictions by strategy, absorbed sub-model failures
//   - cache_*: Redis and local cache hit/miss
//   - circuit_breaker_*: Redis breaker state and transitions
package metrics
