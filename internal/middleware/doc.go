// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package middleware provides http.HandlerFunc middleware for the API.
//
//   - RequestID: X-Request-ID propagation into logging context
//   - AccessLog: one structured log line per request
//   - PrometheusMetrics: request count, latency and in-flight gauge, labelled
//     by chi route pattern
//
// The api package adapts these to chi's func(http.Handler) http.Handler
// signature.
package middleware
