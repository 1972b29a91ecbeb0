// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package models

import "time"

// Customer is one row of the customers table. Olist issues a customer_id
// per order; CustomerUniqueID identifies the person.
type Customer struct {
	CustomerID       string
	CustomerUniqueID string
	ZipCodePrefix    string
	City             string
	State            string
}

// Product is one row of the products table.
type Product struct {
	ProductID         string
	Category          string
	NameLength        int
	DescriptionLength int
	PhotosQty         int
	WeightG           float64
	LengthCm          float64
	HeightCm          float64
	WidthCm           float64
}

// Order is one row of the orders table.
type Order struct {
	OrderID     string
	CustomerID  string
	Status      string
	PurchasedAt time.Time
}

// OrderItem is one row of the order_items table.
type OrderItem struct {
	OrderID      string
	OrderItemID  int
	ProductID    string
	SellerID     string
	Price        float64
	FreightValue float64
}

// Review is one row of the reviews table.
type Review struct {
	ReviewID  string
	OrderID   string
	Score     int
	Comment   string
	CreatedAt time.Time
}

// Snapshot is a batch of rows for every transactional table.
type Snapshot struct {
	Customers  []Customer
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
	Reviews    []Review
}
