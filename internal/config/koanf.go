// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/itemsim/config.yaml",
	"/etc/itemsim/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:           "/data/itemsim.duckdb",
			MaxMemory:      "2GB",
			Threads:        0,
			SeedSampleData: false,
		},
		Similarity: SimilarityConfig{
			Enabled:             true,
			MinProductPurchases: 5,
			MaxProducts:         1000,
			Threshold:           0.1,
			Interval:            24 * time.Hour,
			RunOnStartup:        true,
		},
		Recommend: RecommendConfig{
			CollaborativeWeight: 0.6,
			ContentWeight:       0.4,
			MinInteractions:     5,
			NFactors:            10,
			MaxIterations:       200,
			Seed:                42,
			MaxFeatures:         1000,
			MaxItems:            1000,
			TrainInterval:       6 * time.Hour,
			TrainOnStartup:      true,
			DefaultLimit:        10,
			MaxLimit:            100,
		},
		Cache: CacheConfig{
			Enabled:   false,
			RedisAddr: "localhost:6379",
			RedisDB:   0,
			TTL:       10 * time.Minute,
			LocalTTL:  time.Minute,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// sliceConfigPaths are koanf paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_sample_data":  "database.seed_sample_data",

	// Similarity batch
	"similarity_enabled":               "similarity.enabled",
	"similarity_min_product_purchases": "similarity.min_product_purchases",
	"similarity_max_products":          "similarity.max_products",
	"similarity_threshold":             "similarity.threshold",
	"similarity_interval":              "similarity.interval",
	"similarity_run_on_startup":        "similarity.run_on_startup",

	// Hybrid recommender
	"recommend_collaborative_weight": "recommend.collaborative_weight",
	"recommend_content_weight":       "recommend.content_weight",
	"recommend_min_interactions":     "recommend.min_interactions",
	"recommend_n_factors":            "recommend.n_factors",
	"recommend_max_iterations":       "recommend.max_iterations",
	"recommend_seed":                 "recommend.seed",
	"recommend_max_features":         "recommend.max_features",
	"recommend_max_items":            "recommend.max_items",
	"recommend_train_interval":       "recommend.train_interval",
	"recommend_train_on_startup":     "recommend.train_on_startup",
	"recommend_default_limit":        "recommend.default_limit",
	"recommend_max_limit":            "recommend.max_limit",

	// Cache
	"cache_enabled":   "cache.enabled",
	"redis_addr":      "cache.redis_addr",
	"redis_password":  "cache.redis_password",
	"redis_db":        "cache.redis_db",
	"cache_ttl":       "cache.ttl",
	"cache_local_ttl": "cache.local_ttl",

	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// LoadWithKoanf layers defaults, the config file and environment variables
// (highest priority) and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// SIMILARITY_THRESHOLD -> similarity.threshold
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
