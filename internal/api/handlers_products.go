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

const (
	defaultListLimit    = 10
	defaultRelatedLimit = 5
	defaultMinReviews   = 10
)

// GetPopularProducts handles GET /products/popular?limit=10&state=SP.
func (h *Handler) GetPopularProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := popularRequest{
		Limit: defaultListLimit,
		State: r.URL.Query().Get("state"),
	}
	if !queryInts(w, r, map[string]*int{"limit": &req.Limit}) || !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	products, err := h.service.PopularProducts(ctx, req.Limit, req.State)
	if err != nil {
		respondServiceError(w, r, err, "popular products")
		return
	}
	respondOK(w, ProductListResponse{Products: products, Count: len(products)}, start)
}

// GetTopRatedProducts handles GET /products/top-rated?min_reviews=10&limit=10.
func (h *Handler) GetTopRatedProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := topRatedRequest{MinReviews: defaultMinReviews, Limit: defaultListLimit}
	if !queryInts(w, r, map[string]*int{"min_reviews": &req.MinReviews, "limit": &req.Limit}) || !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	products, err := h.service.TopRatedProducts(ctx, req.MinReviews, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "top rated products")
		return
	}
	respondOK(w, ProductListResponse{Products: products, Count: len(products)}, start)
}

// GetProduct handles GET /products/{product_id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := productRequest{ProductID: chi.URLParam(r, "product_id")}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	details, err := h.service.ProductDetails(ctx, req.ProductID)
	if err != nil {
		respondServiceError(w, r, err, "product")
		return
	}
	respondOK(w, details, start)
}

// GetRelatedProducts handles GET /products/{product_id}/related?limit=5.
func (h *Handler) GetRelatedProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := relatedRequest{
		ProductID: chi.URLParam(r, "product_id"),
		Limit:     defaultRelatedLimit,
	}
	if !queryInts(w, r, map[string]*int{"limit": &req.Limit}) || !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	products, err := h.service.RelatedProducts(ctx, req.ProductID, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "product")
		return
	}
	respondOK(w, ProductListResponse{Products: products, Count: len(products)}, start)
}

// GetCategoryProducts handles GET /categories/{category}/products?limit=10.
func (h *Handler) GetCategoryProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := categoryRequest{
		Category: chi.URLParam(r, "category"),
		Limit:    defaultListLimit,
	}
	if !queryInts(w, r, map[string]*int{"limit": &req.Limit}) || !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	products, err := h.service.ProductsByCategory(ctx, req.Category, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "category products")
		return
	}
	respondOK(w, ProductListResponse{Products: products, Count: len(products)}, start)
}

// GetPurchaseHistory handles GET /users/{user_id}/history.
func (h *Handler) GetPurchaseHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := userRequest{UserID: chi.URLParam(r, "user_id")}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	purchases, err := h.service.PurchaseHistory(ctx, req.UserID)
	if err != nil {
		respondServiceError(w, r, err, "purchase history")
		return
	}
	respondOK(w, PurchaseHistoryResponse{
		UserID:    req.UserID,
		Purchases: purchases,
		Count:     len(purchases),
	}, start)
}
