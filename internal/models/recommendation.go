// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package models

import "time"

// ProductSales is a product with sales aggregates.
type ProductSales struct {
	ProductID  string  `json:"product_id"`
	Category   string  `json:"category"`
	SalesCount int     `json:"sales_count"`
	AvgPrice   float64 `json:"avg_price"`
	AvgFreight float64 `json:"avg_freight"`
}

// RatedProduct is a product with review aggregates.
type RatedProduct struct {
	ProductID   string  `json:"product_id"`
	Category    string  `json:"category"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}

// ProductDetails is the catalog view of one product.
type ProductDetails struct {
	ProductID  string  `json:"product_id"`
	Category   string  `json:"category"`
	WeightG    float64 `json:"weight_g"`
	LengthCm   float64 `json:"length_cm"`
	HeightCm   float64 `json:"height_cm"`
	WidthCm    float64 `json:"width_cm"`
	PhotosQty  int     `json:"photos_qty"`
	SalesCount int     `json:"sales_count"`
	AvgPrice   float64 `json:"avg_price"`
	AvgRating  float64 `json:"avg_rating"`
}

// Purchase is one order line in a customer's history.
type Purchase struct {
	OrderID     string    `json:"order_id"`
	ProductID   string    `json:"product_id"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// ProductFeatures is the model input for one product: text and numeric
// attributes from the products table.
type ProductFeatures struct {
	ProductID         string
	Category          string
	NameLength        float64
	DescriptionLength float64
	PhotosQty         float64
	WeightG           float64
	LengthCm          float64
	HeightCm          float64
	WidthCm           float64
}

// ProductRecommendation is one entry of a recommendation list.
type ProductRecommendation struct {
	ProductID  string  `json:"product_id"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
	Category   string  `json:"category,omitempty"`
	AvgRating  float64 `json:"avg_rating,omitempty"`
	TotalSales int     `json:"total_sales,omitempty"`
	AvgPrice   float64 `json:"avg_price,omitempty"`
}

// RecommendationResponse is the result of a per-user recommendation call.
type RecommendationResponse struct {
	UserID          string                  `json:"user_id"`
	Strategy        string                  `json:"strategy"`
	Recommendations []ProductRecommendation `json:"recommendations"`
	TotalCount      int                     `json:"total_count"`
	Timestamp       time.Time               `json:"timestamp"`
}

// StrategyExplanation says which strategy serves a user and why.
type StrategyExplanation struct {
	Strategy    string `json:"strategy"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}
