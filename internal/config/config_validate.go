// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package config

import (
	"fmt"
	"math"

	"github.com/tomtom215/itemsim/internal/logging"
)

// WeightTolerance is how far collaborative+content weights may drift from 1.0.
const WeightTolerance = 1e-9

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSimilarity(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	s := c.Similarity
	if s.MinProductPurchases < 1 {
		return fmt.Errorf("SIMILARITY_MIN_PRODUCT_PURCHASES must be at least 1, got %d", s.MinProductPurchases)
	}
	if s.MaxProducts < 2 {
		return fmt.Errorf("SIMILARITY_MAX_PRODUCTS must be at least 2, got %d", s.MaxProducts)
	}
	if s.Threshold < -1 || s.Threshold > 1 || math.IsNaN(s.Threshold) {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be within [-1, 1], got %v", s.Threshold)
	}
	if s.Enabled && s.Interval <= 0 {
		return fmt.Errorf("SIMILARITY_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if math.Abs(r.CollaborativeWeight+r.ContentWeight-1.0) > WeightTolerance {
		return fmt.Errorf("RECOMMEND_COLLABORATIVE_WEIGHT + RECOMMEND_CONTENT_WEIGHT must equal 1.0, got %v",
			r.CollaborativeWeight+r.ContentWeight)
	}
	if r.MinInteractions < 1 {
		return fmt.Errorf("RECOMMEND_MIN_INTERACTIONS must be at least 1, got %d", r.MinInteractions)
	}
	if r.NFactors < 1 {
		return fmt.Errorf("RECOMMEND_N_FACTORS must be at least 1, got %d", r.NFactors)
	}
	if r.MaxIterations < 1 {
		return fmt.Errorf("RECOMMEND_MAX_ITERATIONS must be at least 1, got %d", r.MaxIterations)
	}
	if r.MaxFeatures < 1 {
		return fmt.Errorf("RECOMMEND_MAX_FEATURES must be at least 1, got %d", r.MaxFeatures)
	}
	if r.MaxItems < 2 {
		return fmt.Errorf("RECOMMEND_MAX_ITEMS must be at least 2, got %d", r.MaxItems)
	}
	if r.TrainInterval <= 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_INTERVAL must be positive")
	}
	if r.DefaultLimit < 1 || r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be in [1, RECOMMEND_MAX_LIMIT]")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_ENABLED=true")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
