// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package services provides suture.Service wrappers for itemsim components.

Each wrapper implements suture.Service and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService wraps *http.Server. Cancelling the Serve context runs a
graceful Shutdown bounded by the configured timeout.

ModelService refits the hybrid recommender on startup and on a fixed
interval. Failed or skipped fits are logged and retried at the next tick.

SimilarityService runs the item similarity batch on startup, on a fixed
interval and on demand through Trigger. One run is active at a time; a
trigger while a run is active or queued returns
similarity.ErrBatchInProgress. A successful run invalidates the similar
items cache.

# Shutdown

All services return ctx.Err() once their context is cancelled so the
supervisor does not count a clean stop as a failure.
*/
package services
