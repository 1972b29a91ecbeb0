// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package recommend serves per-user product recommendations.
//
// # Hybrid Model
//
// Hybrid owns one collaborative and one content model (see
// internal/recommend/algorithms) and picks a strategy per user:
//
//   - hybrid: the user is in the collaborative pivot with at least
//     MinInteractions rated products. Each sub-model contributes 2n
//     candidates and scores are summed with the configured weights.
//   - content_based: the user is known with fewer interactions, or is
//     unknown but a purchase history was supplied.
//   - popular: nothing is known. Predict returns an empty list and the
//     caller serves a popularity ranking.
//
// A failing sub-model contributes nothing to the blend and is logged; the
// only hard failure is predicting before the first Fit. Weights must sum
// to 1.0 and are checked by NewHybrid and UpdateWeights.
//
// # Service
//
// Service wraps a Hybrid with a Store: it loads purchase history, enriches
// results with catalog statistics and falls back to popular products when
// the model has nothing to offer. Train refits the model from the store
// and refuses to run twice at once:
//
//	h, err := recommend.NewHybrid(recommend.HybridConfigFrom(&cfg.Recommend), logger)
//	if err != nil {
//	    return err
//	}
//	svc := recommend.NewService(db, db, h, &cfg.Recommend, cache.New(cfg.Cache.LocalTTL), logger)
//	if err := svc.Train(ctx); err != nil {
//	    return err
//	}
//	resp, err := svc.UserRecommendations(ctx, "customer-1", recommend.RequestHybrid, 10)
//
// # See Also
//
//   - internal/recommend/algorithms: the collaborative and content models
//   - internal/supervisor: periodic retraining
//   - internal/api: HTTP handlers
package recommend
