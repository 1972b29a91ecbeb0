// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package models

import "time"

// Interaction is the number of order lines a customer has for a product.
// (CustomerID, ProductID) is unique within one build.
type Interaction struct {
	CustomerID    string `json:"customer_id"`
	ProductID     string `json:"product_id"`
	PurchaseCount int    `json:"purchase_count"`
}

// ProductPurchases is a product with its total order-line count.
type ProductPurchases struct {
	ProductID     string `json:"product_id"`
	PurchaseCount int    `json:"purchase_count"`
}

// SimilarityPair is one row of item_similarity. ProductID1 sorts before
// ProductID2, so a pair is never stored twice or against itself.
type SimilarityPair struct {
	ProductID1 string  `json:"product_id_1"`
	ProductID2 string  `json:"product_id_2"`
	Similarity float64 `json:"similarity"`
}

// SimilarItem is the other side of a stored pair, seen from one product.
type SimilarItem struct {
	ProductID  string  `json:"product_id"`
	Similarity float64 `json:"similarity"`
}

// DimensionCounts summarises the snapshot before a batch run.
type DimensionCounts struct {
	Customers  int64 `json:"customers"`
	Products   int64 `json:"products"`
	Orders     int64 `json:"orders"`
	OrderItems int64 `json:"order_items"`
}

// PotentialCells is the size a dense customer x product matrix would have.
func (d DimensionCounts) PotentialCells() int64 {
	return d.Customers * d.Products
}

// BatchRunReport describes one similarity batch run.
type BatchRunReport struct {
	RunID            string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	DurationMS       int64     `json:"duration_ms"`
	SelectedProducts int       `json:"selected_products"`
	Customers        int       `json:"customers"`
	NonZero          int       `json:"non_zero"`
	Density          float64   `json:"density"`
	PairsWritten     int       `json:"pairs_written"`
	Threshold        float64   `json:"threshold"`
	Error            string    `json:"error,omitempty"`
}
