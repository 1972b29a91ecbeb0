// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package models defines the records shared between the store, the batch,
// the recommender and the HTTP API.
//
// # Snapshot records
//
// Customer, Product, Order, OrderItem and Review mirror the transactional
// snapshot tables. Their column names follow the Olist public dataset.
//
// # Batch records
//
// Interaction and SimilarityPair are what the similarity batch reads and
// writes. SimilarityPair maps onto the item_similarity table, whose column
// names (product_id_1, product_id_2, similarity) are read by downstream
// consumers and must not change.
//
// # API records
//
// APIResponse is the envelope for every JSON response.
package models
