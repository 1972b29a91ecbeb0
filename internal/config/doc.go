// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package config loads Itemsim configuration with Koanf v2.
//
// # Sources
//
// Values are layered, later sources winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. YAML file from CONFIG_PATH or DefaultConfigPaths
//  3. Environment variables listed in envMappings
//
// # Example
//
//	similarity:
//	  min_product_purchases: 5
//	  max_products: 1000
//	  threshold: 0.1
//	recommend:
//	  collaborative_weight: 0.6
//	  content_weight: 0.4
//
// The same values as environment variables:
//
//	SIMILARITY_MIN_PRODUCT_PURCHASES=5
//	SIMILARITY_THRESHOLD=0.1
//	RECOMMEND_COLLABORATIVE_WEIGHT=0.6
//
// # Validation
//
// Load fails fast on invalid values. Hybrid weights must sum to 1.0 within
// WeightTolerance and are never renormalized.
package config
