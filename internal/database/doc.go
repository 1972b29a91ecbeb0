// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package database is the DuckDB store behind itemsim.

It holds the e-commerce order snapshot (customers, products, orders,
order_items, reviews) and the item_similarity table written by the
similarity batch.

# Tables

	customers        customer_id, customer_unique_id, zip prefix, city, state
	products         product_id, product_category_name, weight and dimensions
	orders           order_id, customer_id, order_status, purchase timestamp
	order_items      order_id, order_item_id, product_id, seller_id, price, freight_value
	reviews          review_id, order_id, review_score, comment, creation date
	item_similarity  product_id_1, product_id_2, similarity

# Similarity Batch

The batch reads through TopPurchasedProducts and ProductInteractions and
writes through ReplaceItemSimilarity, which swaps the whole table inside
one transaction. Readers see either the previous run or the new one.

# Catalog Queries

PopularProducts, TopRatedProducts, RelatedProducts, ProductsByCategory,
ProductDetails, ProductStats and PurchaseHistory back the HTTP API and the
recommender's enrichment step. Single-row lookups return ErrNotFound.

# Analytics

PlatformMetrics returns store-wide totals in a single query and
PopularCategories ranks categories by order lines.

# Training Data

AllInteractions streams (customer, product, purchase count) rows for the
collaborative model and ProductFeatures returns category text plus numeric
dimensions for the content model.

# Sample Data

SeedSampleData loads a small deterministic snapshot for development and
tests. It is enabled with SEED_SAMPLE_DATA=true.
*/
package database
