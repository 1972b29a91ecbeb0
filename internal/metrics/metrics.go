// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Similarity Batch Metrics
	SimilarityBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_batch_duration_seconds",
			Help:    "Wall time of one item similarity batch run",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	SimilarityBatchRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_batch_runs_total",
			Help: "Total number of similarity batch runs",
		},
		[]string{"result"}, // "success", "empty_selection", "error"
	)

	SimilarityPairsWritten = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_pairs_written",
			Help: "Number of pairs written to item_similarity by the last successful run",
		},
	)

	SimilaritySelectedProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_selected_products",
			Help: "Number of products that passed the popularity filter in the last run",
		},
	)

	SimilarityMatrixDensity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_matrix_density",
			Help: "Fraction of non-zero cells in the last interaction matrix",
		},
	)

	SimilarityLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_last_success_timestamp",
			Help: "Unix time of the last successful similarity batch",
		},
	)

	// Recommendation Model Metrics
	ModelFitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_model_fit_duration_seconds",
			Help:    "Duration of model fitting in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"model"}, // "collaborative", "content", "hybrid"
	)

	ModelFitErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_fit_errors_total",
			Help: "Total number of failed model fits",
		},
		[]string{"model"},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Number of successful hybrid fits since start",
		},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_predictions_total",
			Help: "Total number of hybrid predictions by selected strategy",
		},
		[]string{"strategy"},
	)

	SubModelFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_submodel_failures_total",
			Help: "Sub-model errors absorbed during hybrid blending",
		},
		[]string{"model"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "redis", "local"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric. Error labels are cut to 50
// characters to bound cardinality.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the active request gauge up or down.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSimilarityBatch records the outcome of a batch run. result is one of
// "success", "empty_selection" or "error".
func RecordSimilarityBatch(result string, duration time.Duration, selected, pairs int, density float64) {
	SimilarityBatchDuration.Observe(duration.Seconds())
	SimilarityBatchRuns.WithLabelValues(result).Inc()
	if result != "success" {
		return
	}
	SimilaritySelectedProducts.Set(float64(selected))
	SimilarityPairsWritten.Set(float64(pairs))
	SimilarityMatrixDensity.Set(density)
	SimilarityLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordModelFit records one model fit.
func RecordModelFit(model string, duration time.Duration, err error) {
	ModelFitDuration.WithLabelValues(model).Observe(duration.Seconds())
	if err != nil {
		ModelFitErrors.WithLabelValues(model).Inc()
	}
}

// RecordPrediction counts a hybrid prediction under its selected strategy.
func RecordPrediction(strategy string) {
	Predictions.WithLabelValues(strategy).Inc()
}

// RecordSubModelFailure counts a sub-model error absorbed by the blender.
func RecordSubModelFailure(model string) {
	SubModelFailures.WithLabelValues(model).Inc()
}

// RecordCacheLookup counts a hit or a miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}
