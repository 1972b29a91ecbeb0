// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// GetPlatformMetrics handles GET /analytics/metrics.
func (h *Handler) GetPlatformMetrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	m, err := h.service.PlatformMetrics(ctx)
	if err != nil {
		respondServiceError(w, r, err, "platform metrics")
		return
	}
	respondOK(w, m, start)
}

// GetPopularCategories handles GET /analytics/categories?limit=10.
func (h *Handler) GetPopularCategories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := categoriesRequest{Limit: defaultListLimit}
	if !queryInts(w, r, map[string]*int{"limit": &req.Limit}) || !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	categories, err := h.service.PopularCategories(ctx, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "popular categories")
		return
	}
	respondOK(w, CategoryListResponse{Categories: categories, Total: len(categories)}, start)
}

// GetUserBehavior handles GET /analytics/user-behavior/{user_id}. A
// customer without purchases gets zero totals, not 404.
func (h *Handler) GetUserBehavior(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := userRequest{UserID: chi.URLParam(r, "user_id")}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	behavior, err := h.service.UserBehavior(ctx, req.UserID)
	if err != nil {
		respondServiceError(w, r, err, "user behavior")
		return
	}
	respondOK(w, behavior, start)
}
