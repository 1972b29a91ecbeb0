// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package models

import "time"

// APIResponse is the standard response envelope.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":3}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and cache information for a response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes used by the API:
//   - VALIDATION_ERROR: bad path or query parameter
//   - NOT_FOUND: unknown product
//   - DATABASE_ERROR: store query failed
//   - MODEL_NOT_READY: recommender has not been trained yet
//   - CONFLICT: a similarity batch is already running
//   - SERVICE_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	Status        string          `json:"status"`
	Database      bool            `json:"database"`
	ModelFitted   bool            `json:"model_fitted"`
	ModelVersion  int64           `json:"model_version"`
	LastBatch     *BatchRunReport `json:"last_batch,omitempty"`
	CacheEnabled  bool            `json:"cache_enabled"`
	CacheBreaker  string          `json:"cache_breaker,omitempty"`
	UptimeSeconds int64           `json:"uptime_seconds"`
}
