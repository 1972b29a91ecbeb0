// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package main is the entry point for the itemsim server.

itemsim computes item-to-item cosine similarity from an e-commerce order
snapshot held in DuckDB and serves similar items, hybrid user
recommendations and catalog queries over HTTP.

# Application Architecture

	RootSupervisor ("itemsim")
	├── DataSupervisor ("data-layer")
	│   ├── ModelService       hybrid recommender fit (startup + ticker)
	│   └── SimilarityService  item similarity batch (startup + ticker + POST /admin/similarity/run)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService  chi router

Initialization order:

 1. Configuration: koanf v2 (defaults, YAML file, environment)
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB, optionally seeded with the bundled sample snapshot
 4. Recommender: NMF collaborative model plus TF-IDF content model
 5. Caches: in-process TTL cache, optional Redis cache for similar items
 6. Supervisor tree and HTTP server

# Flags

	-batch-once   run one similarity batch against the configured database and exit.
	              Exit code 0 on success or when no product qualifies, 1 on failure.

# Configuration

Settings come from config.yaml (or CONFIG_PATH) and environment variables.
Common ones:

	DUCKDB_PATH=/data/itemsim.duckdb
	SEED_SAMPLE_DATA=true
	SIMILARITY_THRESHOLD=0.1
	SIMILARITY_MIN_PRODUCT_PURCHASES=5
	RECOMMEND_COLLABORATIVE_WEIGHT=0.6
	CACHE_ENABLED=true
	REDIS_ADDR=localhost:6379
	HTTP_PORT=8000
	LOG_LEVEL=debug

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, the data services stop at their next select, and the database is
closed last.
*/
package main
