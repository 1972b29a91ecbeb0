// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package supervisor runs itemsim's long-lived services under a suture v4
supervisor tree.

# Overview

	RootSupervisor ("itemsim")
	├── DataSupervisor ("data-layer")
	│   ├── ModelService       periodic hybrid recommender fit
	│   └── SimilarityService  periodic and on-demand similarity batch
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A batch or training failure restarts inside the data layer. The HTTP
server keeps answering from the last persisted similarity table and the
last fitted model.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewModelService(svc, modelCfg, logger))
	tree.AddDataService(simService)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	errCh := tree.ServeBackground(ctx)

Supervisor events (start, stop, failure, backoff) go through sutureslog
to the slog adapter in internal/logging and end up in the zerolog stream.

# Configuration

	FailureThreshold: 5     failures before backoff
	FailureDecay:     30    seconds for the failure count to decay
	FailureBackoff:   15s   delay once the threshold is exceeded
	ShutdownTimeout:  10s   per-service stop timeout

Zero values in TreeConfig take these defaults.

# Service Contract

  - Return nil: stopped cleanly, not restarted
  - Return error: crashed, restarted subject to backoff
  - Context cancelled: return ctx.Err() promptly

DuckDB is not supervised. It is an embedded library owned by the database
package and closed by main after the tree stops.

If services outlive the shutdown timeout, UnstoppedServiceReport lists
them.
*/
package supervisor
