// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/itemsim/internal/api"
	"github.com/tomtom215/itemsim/internal/cache"
	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/database"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/similarity"
	"github.com/tomtom215/itemsim/internal/supervisor"
	"github.com/tomtom215/itemsim/internal/supervisor/services"
)

// batchOnceTimeout bounds a -batch-once run.
const batchOnceTimeout = time.Hour

//nolint:gocyclo // sequential setup steps
func main() {
	batchOnce := flag.Bool("batch-once", false, "run one similarity batch and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("similarity_enabled", cfg.Similarity.Enabled).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Bool("batch_once", *batchOnce).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedSampleData {
		logging.Info().Msg("Sample data seeding enabled (SEED_SAMPLE_DATA=true)")
		if err := db.SeedSampleData(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed sample data")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if *batchOnce {
		code := runBatchOnce(ctx, db, cfg)
		cancel()
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
		os.Exit(code) //nolint:gocritic // exitAfterDefer: db closed above
	}

	comps, err := initComponents(db, cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommender")
	}
	defer comps.close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	addDataServices(tree, comps, cfg, logger)

	handler := api.NewHandler(db, comps.service, comps.similar, comps.batchTrigger(), &cfg.Server)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// runBatchOnce runs one similarity batch and returns the process exit code.
// An empty selection is not a failure; there is simply nothing to pair.
func runBatchOnce(ctx context.Context, db *database.DB, cfg *config.Config) int {
	runCtx, cancel := context.WithTimeout(ctx, batchOnceTimeout)
	defer cancel()

	logger := logging.Logger()
	res, err := newSimilarityEngine(db, cfg, logger).ComputeAndPersist(runCtx)
	switch {
	case err == nil:
		logging.Info().
			Str("run_id", res.RunID).
			Int("pairs_written", res.PairsWritten).
			Dur("duration", res.Duration).
			Msg("Similarity batch finished")
		if cfg.Cache.Enabled {
			rc := cache.NewRedisSimilarCache(&cfg.Cache, db, logger)
			if err := rc.Invalidate(runCtx); err != nil {
				logging.Warn().Err(err).Msg("Similar items cache invalidation failed")
			}
			_ = rc.Close()
		}
		return 0
	case errors.Is(err, similarity.ErrEmptySelection):
		logging.Warn().Msg("Similarity batch found no eligible products")
		return 0
	default:
		logging.Error().Err(err).Msg("Similarity batch failed")
		return 1
	}
}
