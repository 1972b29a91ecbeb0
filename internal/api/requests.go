// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import "github.com/tomtom215/itemsim/internal/models"

// Request parameter structs. The query tag names the path or query
// parameter in validation messages.

type similarRequest struct {
	ProductID string `query:"product_id" validate:"required,entityid"`
	Limit     int    `query:"limit" validate:"min=1,max=100"`
}

type userRecommendationsRequest struct {
	UserID   string `query:"user_id" validate:"required,entityid"`
	Strategy string `query:"strategy" validate:"omitempty,oneof=collaborative content hybrid"`
	Limit    int    `query:"limit" validate:"min=1,max=100"`
}

type userRequest struct {
	UserID string `query:"user_id" validate:"required,entityid"`
}

type productRequest struct {
	ProductID string `query:"product_id" validate:"required,entityid"`
}

type popularRequest struct {
	Limit int    `query:"limit" validate:"min=1,max=100"`
	State string `query:"state" validate:"omitempty,statecode"`
}

type topRatedRequest struct {
	MinReviews int `query:"min_reviews" validate:"min=1"`
	Limit      int `query:"limit" validate:"min=1,max=100"`
}

type relatedRequest struct {
	ProductID string `query:"product_id" validate:"required,entityid"`
	Limit     int    `query:"limit" validate:"min=1,max=50"`
}

type categoryRequest struct {
	Category string `query:"category" validate:"required,max=100"`
	Limit    int    `query:"limit" validate:"min=1,max=100"`
}

type categoriesRequest struct {
	Limit int `query:"limit" validate:"min=1,max=50"`
}

// Response payloads that have no model of their own.

// SimilarProductsResponse answers GET /recommend/similar/{product_id}.
type SimilarProductsResponse struct {
	ProductID       string               `json:"product_id"`
	Recommendations []string             `json:"recommendations"`
	Scores          []models.SimilarItem `json:"scores"`
}

// ExplanationResponse answers GET /recommend/user/{user_id}/explanation.
type ExplanationResponse struct {
	UserID string `json:"user_id"`
	models.StrategyExplanation
}

// ProductListResponse wraps product lists.
type ProductListResponse struct {
	Products any `json:"products"`
	Count    int `json:"count"`
}

// CategoryListResponse answers GET /analytics/categories.
type CategoryListResponse struct {
	Categories []models.CategoryStats `json:"categories"`
	Total      int                    `json:"total"`
}

// PurchaseHistoryResponse answers GET /users/{user_id}/history.
type PurchaseHistoryResponse struct {
	UserID    string            `json:"user_id"`
	Purchases []models.Purchase `json:"purchases"`
	Count     int               `json:"count"`
}

// BatchTriggerResponse answers POST /admin/similarity/run.
type BatchTriggerResponse struct {
	Accepted bool                   `json:"accepted"`
	LastRun  *models.BatchRunReport `json:"last_run,omitempty"`
}
