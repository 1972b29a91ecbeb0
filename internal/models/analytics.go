// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package models

import "time"

// PlatformMetrics are store-wide totals.
type PlatformMetrics struct {
	TotalOrders    int       `json:"total_orders"`
	TotalProducts  int       `json:"total_products"`
	TotalCustomers int       `json:"total_customers"`
	TotalSellers   int       `json:"total_sellers"`
	TotalRevenue   float64   `json:"total_revenue"`
	AvgOrderValue  float64   `json:"avg_order_value"`
	AvgRating      float64   `json:"avg_rating"`
	LastUpdated    time.Time `json:"last_updated"`
}

// CategoryStats aggregates the order lines of one product category.
type CategoryStats struct {
	Category     string  `json:"category"`
	OrderCount   int     `json:"order_count"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgPrice     float64 `json:"avg_price"`
}

// CategoryCount is how many order lines of a customer fall in a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// UserBehavior summarises one customer's purchase history. TotalOrders
// counts distinct orders; TotalItems counts order lines.
type UserBehavior struct {
	UserID             string          `json:"user_id"`
	TotalOrders        int             `json:"total_orders"`
	TotalItems         int             `json:"total_items"`
	TotalSpent         float64         `json:"total_spent"`
	AvgOrderValue      float64         `json:"avg_order_value"`
	FavoriteCategories []CategoryCount `json:"favorite_categories"`
	LastPurchase       *time.Time      `json:"last_purchase,omitempty"`
}
