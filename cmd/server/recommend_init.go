// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/api"
	"github.com/tomtom215/itemsim/internal/cache"
	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/database"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/similarity"
	"github.com/tomtom215/itemsim/internal/supervisor"
	"github.com/tomtom215/itemsim/internal/supervisor/services"
)

// components holds everything the HTTP layer and the supervisor tree need.
type components struct {
	service    *recommend.Service
	similar    api.SimilarLookup
	batch      *services.SimilarityService
	redisCache *cache.RedisSimilarCache
	localCache *cache.Cache
}

// close releases caches. The database is closed by main.
func (c *components) close() {
	if c.localCache != nil {
		c.localCache.Close()
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			logging.Debug().Err(err).Msg("redis client close failed")
		}
	}
}

// batchTrigger returns the similarity service as an api.BatchTrigger, or a
// nil interface when the batch is disabled.
func (c *components) batchTrigger() api.BatchTrigger {
	if c.batch == nil {
		return nil
	}
	return c.batch
}

// newSimilarityEngine builds the batch engine reading and writing db.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newSimilarityEngine(db *database.DB, cfg *config.Config, logger zerolog.Logger) *similarity.Engine {
	return similarity.NewEngine(db, db, cfg.Similarity, logger)
}

// initComponents builds the recommender, the similar items lookup chain
// and the similarity batch service.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initComponents(db *database.DB, cfg *config.Config, logger zerolog.Logger) (*components, error) {
	logger.Info().
		Float64("collaborative_weight", cfg.Recommend.CollaborativeWeight).
		Float64("content_weight", cfg.Recommend.ContentWeight).
		Int("min_interactions", cfg.Recommend.MinInteractions).
		Int("n_factors", cfg.Recommend.NFactors).
		Dur("train_interval", cfg.Recommend.TrainInterval).
		Bool("train_on_startup", cfg.Recommend.TrainOnStartup).
		Msg("initializing hybrid recommender")

	hybrid, err := recommend.NewHybrid(recommend.HybridConfigFrom(&cfg.Recommend), logger)
	if err != nil {
		return nil, fmt.Errorf("hybrid recommender: %w", err)
	}

	c := &components{similar: db}
	if cfg.Cache.LocalTTL > 0 {
		c.localCache = cache.New(cfg.Cache.LocalTTL)
	}
	c.service = recommend.NewService(db, db, hybrid, &cfg.Recommend, c.localCache, logger)

	var invalidator services.CacheInvalidator
	if cfg.Cache.Enabled {
		c.redisCache = cache.NewRedisSimilarCache(&cfg.Cache, db, logger)
		c.similar = c.redisCache
		invalidator = c.redisCache
		logger.Info().Str("addr", cfg.Cache.RedisAddr).Dur("ttl", cfg.Cache.TTL).Msg("redis similar items cache enabled")
	}

	if cfg.Similarity.Enabled {
		c.batch = services.NewSimilarityService(
			newSimilarityEngine(db, cfg, logger),
			invalidator,
			services.SimilarityServiceConfig{
				RunOnStartup: cfg.Similarity.RunOnStartup,
				Interval:     cfg.Similarity.Interval,
			},
			logger,
		)
	} else {
		logger.Info().Msg("similarity batch disabled (SIMILARITY_ENABLED=false)")
	}

	return c, nil
}

// addDataServices registers the model trainer and the batch with the tree.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func addDataServices(tree *supervisor.SupervisorTree, c *components, cfg *config.Config, logger zerolog.Logger) {
	tree.AddDataService(services.NewModelService(c.service, services.ModelServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
	}, logger))
	logger.Info().Msg("model service added to supervisor tree")

	if c.batch != nil {
		tree.AddDataService(c.batch)
		logger.Info().Msg("similarity service added to supervisor tree")
	}
}
