// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/itemsim/internal/models"
)

// Health handles GET /health. It always answers 200; status is "degraded"
// when the store does not answer SELECT 1.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	dbOK := h.db != nil && h.db.Ping(ctx) == nil

	status := "healthy"
	if !dbOK {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:        status,
		Database:      dbOK,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	if h.service != nil {
		health.ModelFitted = h.service.ModelFitted()
		health.ModelVersion = int64(h.service.Status().ModelVersion)
	}
	if h.batch != nil {
		health.LastBatch = h.batch.LastRun()
	}
	if br, ok := h.similar.(breakerReporter); ok {
		health.CacheEnabled = true
		health.CacheBreaker = br.State()
	}

	respondOK(w, health, start)
}

// HealthLive handles GET /health/live: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady handles GET /health/ready: the store answers and the model is
// fitted. Answers 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if h.db == nil || h.db.Ping(ctx) != nil {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Database not reachable", nil)
		return
	}
	if h.service == nil || !h.service.ModelFitted() {
		respondError(w, r, http.StatusServiceUnavailable, "MODEL_NOT_READY", "Recommendation model not trained yet", nil)
		return
	}
	respondOK(w, map[string]string{"status": "ready"}, time.Now())
}
