// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"context"
	"time"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend"
)

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SimilarLookup serves persisted item similarity. Both *database.DB and
// *cache.RedisSimilarCache satisfy it.
type SimilarLookup interface {
	SimilarItems(ctx context.Context, productID string, limit int) ([]models.SimilarItem, error)
}

// BatchTrigger requests similarity batch runs.
type BatchTrigger interface {
	// Trigger queues a run and returns similarity.ErrBatchInProgress when
	// one is running or already queued.
	Trigger() error

	// LastRun returns the last finished run, or nil before the first.
	LastRun() *models.BatchRunReport
}

// breakerReporter is implemented by lookups that sit behind a circuit breaker.
type breakerReporter interface {
	State() string
}

// Handler holds the dependencies of the HTTP handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health and readiness
//   - handlers_recommend.go: similar items, user recommendations, explanations
//   - handlers_products.go: catalog and purchase history
//   - handlers_analytics.go: platform metrics, categories, user behavior
//   - handlers_admin.go: manual similarity batch trigger
type Handler struct {
	db        Pinger
	service   *recommend.Service
	similar   SimilarLookup
	batch     BatchTrigger
	timeout   time.Duration
	startTime time.Time
}

// NewHandler wires the handlers. batch may be nil when the similarity
// batch is disabled; the admin route then answers 503.
//
//	handler := api.NewHandler(db, service, similarLookup, similaritySvc, &cfg.Server)
//	router := api.NewRouter(handler, &cfg.Server)
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(db Pinger, service *recommend.Service, similar SimilarLookup, batch BatchTrigger, cfg *config.ServerConfig) *Handler {
	return &Handler{
		db:        db,
		service:   service,
		similar:   similar,
		batch:     batch,
		timeout:   cfg.Timeout,
		startTime: time.Now(),
	}
}
