// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package config

import "time"

// Config is the full application configuration.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Cache      CacheConfig      `koanf:"cache"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DatabaseConfig configures the DuckDB store holding the order snapshot.
type DatabaseConfig struct {
	Path           string `koanf:"path"`
	MaxMemory      string `koanf:"max_memory"`
	Threads        int    `koanf:"threads"`          // 0 = runtime.NumCPU()
	SeedSampleData bool   `koanf:"seed_sample_data"` // load the bundled demo snapshot on startup
}

// SimilarityConfig configures the item similarity batch.
type SimilarityConfig struct {
	Enabled bool `koanf:"enabled"`

	// MinProductPurchases drops products bought fewer times than this.
	MinProductPurchases int `koanf:"min_product_purchases"`

	// MaxProducts caps the item dimension. The pairwise pass is quadratic in it.
	MaxProducts int `koanf:"max_products"`

	// Threshold is the minimum cosine similarity a pair needs to be persisted.
	Threshold float64 `koanf:"threshold"`

	Interval     time.Duration `koanf:"interval"`
	RunOnStartup bool          `koanf:"run_on_startup"`
}

// RecommendConfig configures the hybrid recommender.
type RecommendConfig struct {
	CollaborativeWeight float64 `koanf:"collaborative_weight"`
	ContentWeight       float64 `koanf:"content_weight"`

	// MinInteractions is the distinct-item count at which a known user is
	// served the blended strategy instead of content only.
	MinInteractions int `koanf:"min_interactions"`

	NFactors      int   `koanf:"n_factors"`
	MaxIterations int   `koanf:"max_iterations"`
	Seed          int64 `koanf:"seed"`
	MaxFeatures   int   `koanf:"max_features"`

	// MaxItems caps the products in the training pivot to the most
	// purchased ones; the pivot is dense.
	MaxItems int `koanf:"max_items"`

	TrainInterval  time.Duration `koanf:"train_interval"`
	TrainOnStartup bool          `koanf:"train_on_startup"`

	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// CacheConfig configures the Redis read-through cache for similarity lookups.
type CacheConfig struct {
	Enabled       bool          `koanf:"enabled"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	TTL           time.Duration `koanf:"ttl"`
	LocalTTL      time.Duration `koanf:"local_ttl"` // in-process cache for popular lists
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
