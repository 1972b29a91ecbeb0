// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package algorithms implements the two models behind the hybrid
// recommender.
//
// # Models
//
// Collaborative factorizes the user-item rating pivot with non-negative
// matrix factorization (multiplicative updates, seeded initialization) and
// scores unseen items by the reconstructed rating:
//
//	cf := algorithms.NewCollaborative(algorithms.DefaultCollaborativeConfig())
//	if err := cf.Fit(ctx, ratings); err != nil {
//	    return err
//	}
//	top, err := cf.Predict("customer-1", 10)
//
// Content builds an item-item similarity matrix from product attributes:
// the mean of the cosine similarity of the numeric columns and the cosine
// similarity of TF-IDF vectors over the text columns. A user is scored by
// averaging similarity to the items they already bought.
//
// # Thread Safety
//
// Both models embed BaseAlgorithm. Fit holds the write lock for its whole
// run, so predictions issued during a refit see the previous state until
// the new one is complete. Predictions share the read lock.
//
// # Ordering
//
// Every ranked result is sorted by score descending with ties broken by
// item id ascending, so equal inputs always produce equal outputs.
//
// # See Also
//
//   - internal/recommend: hybrid blending and the recommendation service
//   - internal/similarity: the offline item-item batch
package algorithms
