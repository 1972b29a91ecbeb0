// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package logging provides the zerolog-based structured logger used across Itemsim.
//
// # Overview
//
// A single global logger is configured once from main and shared by every
// package. Long-lived components take a zerolog.Logger by value and derive a
// child tagged with their component name.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Int("pairs", n).Msg("item similarity persisted")
//
// # Configuration
//
// Environment variables (through internal/config):
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  true, false (default: false)
//
// # Context
//
// HTTP middleware stores a request id and the similarity batch stores a run
// id in the context; Ctx(ctx) returns a logger carrying whichever is set.
//
// # slog Adapter
//
// NewSlogLogger bridges slog to zerolog for sutureslog.
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
package logging
