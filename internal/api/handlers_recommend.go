// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/itemsim/internal/recommend"
)

const defaultSimilarLimit = 5

// GetSimilar handles GET /recommend/similar/{product_id}?limit=5.
// An unknown product yields an empty list, not a 404.
func (h *Handler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := similarRequest{
		ProductID: chi.URLParam(r, "product_id"),
		Limit:     defaultSimilarLimit,
	}
	if !queryInts(w, r, map[string]*int{"limit": &req.Limit}) || !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	items, err := h.similar.SimilarItems(ctx, req.ProductID, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "similar products")
		return
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	respondOK(w, SimilarProductsResponse{
		ProductID:       req.ProductID,
		Recommendations: ids,
		Scores:          items,
	}, start)
}

// GetUserRecommendations handles
// GET /recommend/user/{user_id}?strategy=hybrid&limit=10.
func (h *Handler) GetUserRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := userRecommendationsRequest{
		UserID:   chi.URLParam(r, "user_id"),
		Strategy: r.URL.Query().Get("strategy"),
		Limit:    h.service.ClampLimit(0),
	}
	if !queryInts(w, r, map[string]*int{"limit": &req.Limit}) || !validateRequest(w, r, &req) {
		return
	}

	strategy, err := recommend.ParseRequestStrategy(req.Strategy)
	if err != nil {
		respondServiceError(w, r, err, "recommendations")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	resp, err := h.service.UserRecommendations(ctx, req.UserID, strategy, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "recommendations")
		return
	}
	respondOK(w, resp, start)
}

// GetExplanation handles GET /recommend/user/{user_id}/explanation.
func (h *Handler) GetExplanation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := userRequest{UserID: chi.URLParam(r, "user_id")}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	explanation, err := h.service.Explanation(ctx, req.UserID)
	if err != nil {
		respondServiceError(w, r, err, "explanation")
		return
	}
	respondOK(w, ExplanationResponse{UserID: req.UserID, StrategyExplanation: explanation}, start)
}
