// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package similarity implements the item-item similarity batch.

A run has two stages:

  - Builder selects the most purchased products (at least
    MinProductPurchases purchases, at most MaxProducts of them), aggregates
    purchase counts per (customer, product) for that selection and assembles
    a sparse customer x product matrix. Customer and product ids are sorted
    lexicographically to assign row and column indices, so the same input
    always yields the same matrix.

  - Engine transposes the matrix to item vectors, computes the cosine
    similarity of every unordered pair (upper triangle only), keeps pairs
    at or above the threshold and fully replaces the item_similarity table
    with them. A run that finds no qualifying pair still replaces the table,
    leaving it empty.

Items whose vectors have zero norm are similar to nothing: their pairs score
0 and never produce NaN.

Usage:

	engine := similarity.NewEngine(db, db, cfg.Similarity, logging.WithComponent("similarity"))
	result, err := engine.ComputeAndPersist(ctx)
	if errors.Is(err, similarity.ErrEmptySelection) {
		// nothing popular enough yet
	}

Store errors are wrapped with context and returned unchanged in kind. The
package does not retry; scheduling and retries belong to the supervisor
service that calls ComputeAndPersist.
*/
package similarity
