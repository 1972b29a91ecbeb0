// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package database

import (
	"context"
	"fmt"
)

// SimilarityTable is read by downstream lookup consumers. Its name and
// column names must not change.
const SimilarityTable = "item_similarity"

// RequiredTables must exist before a similarity batch can run.
var RequiredTables = []string{"orders", "order_items", "customers", "products"}

// Column names follow the Olist CSV headers, including the upstream
// "lenght" spelling.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id VARCHAR PRIMARY KEY,
		customer_unique_id VARCHAR,
		customer_zip_code_prefix VARCHAR,
		customer_city VARCHAR,
		customer_state VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id VARCHAR PRIMARY KEY,
		product_category_name VARCHAR,
		product_name_lenght INTEGER,
		product_description_lenght INTEGER,
		product_photos_qty INTEGER,
		product_weight_g DOUBLE,
		product_length_cm DOUBLE,
		product_height_cm DOUBLE,
		product_width_cm DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id VARCHAR PRIMARY KEY,
		customer_id VARCHAR NOT NULL,
		order_status VARCHAR,
		order_purchase_timestamp TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id VARCHAR NOT NULL,
		order_item_id INTEGER NOT NULL,
		product_id VARCHAR NOT NULL,
		seller_id VARCHAR,
		price DOUBLE,
		freight_value DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		review_id VARCHAR,
		order_id VARCHAR NOT NULL,
		review_score INTEGER,
		review_comment_message VARCHAR,
		review_creation_date TIMESTAMP
	)`,
	createSimilarityTable("CREATE TABLE IF NOT EXISTS"),
	`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id)`,
}

func createSimilarityTable(verb string) string {
	return verb + ` item_similarity (
		product_id_1 VARCHAR NOT NULL,
		product_id_2 VARCHAR NOT NULL,
		similarity DOUBLE NOT NULL
	)`
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
