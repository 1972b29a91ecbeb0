// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/similarity"
)

// batchTimeout bounds one similarity run.
const batchTimeout = time.Hour

// BatchRunner computes and persists item similarity.
type BatchRunner interface {
	ComputeAndPersist(ctx context.Context) (*similarity.RunResult, error)
}

// CacheInvalidator drops cached lookups after the table is replaced.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// SimilarityServiceConfig configures the batch schedule.
type SimilarityServiceConfig struct {
	RunOnStartup bool

	// Interval between scheduled runs. Zero disables the ticker; runs then
	// happen only on startup or through Trigger.
	Interval time.Duration
}

// SimilarityService runs the item similarity batch on startup, on a ticker
// and on demand. At most one run is active at a time.
type SimilarityService struct {
	runner BatchRunner
	cache  CacheInvalidator
	config SimilarityServiceConfig
	logger zerolog.Logger
	name   string

	runMu   sync.Mutex
	running atomic.Bool
	trigger chan struct{}

	lastMu  sync.RWMutex
	lastRun *models.BatchRunReport
}

// NewSimilarityService creates the service. cache may be nil.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewSimilarityService(runner BatchRunner, cache CacheInvalidator, cfg SimilarityServiceConfig, logger zerolog.Logger) *SimilarityService {
	return &SimilarityService{
		runner:  runner,
		cache:   cache,
		config:  cfg,
		logger:  logger.With().Str("service", "similarity").Logger(),
		name:    "similarity-service",
		trigger: make(chan struct{}, 1),
	}
}

// Serve implements suture.Service.
func (s *SimilarityService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("similarity service starting")

	if s.config.RunOnStartup {
		s.runLogged(ctx)
	}

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("similarity service shutting down")
			return ctx.Err()
		case <-tick:
			s.runLogged(ctx)
		case <-s.trigger:
			s.runLogged(ctx)
		}
	}
}

// Trigger queues a run for the Serve loop. It fails with
// similarity.ErrBatchInProgress while a run is active or already queued.
func (s *SimilarityService) Trigger() error {
	if s.running.Load() {
		return similarity.ErrBatchInProgress
	}
	select {
	case s.trigger <- struct{}{}:
		return nil
	default:
		return similarity.ErrBatchInProgress
	}
}

// RunOnce runs the batch in the caller's goroutine, invalidates the cache
// on success and records the report. It fails with
// similarity.ErrBatchInProgress if another run holds the lock.
func (s *SimilarityService) RunOnce(ctx context.Context) (*models.BatchRunReport, error) {
	if !s.runMu.TryLock() {
		return nil, similarity.ErrBatchInProgress
	}
	defer s.runMu.Unlock()
	s.running.Store(true)
	defer s.running.Store(false)

	runCtx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	res, err := s.runner.ComputeAndPersist(runCtx)
	if res == nil {
		res = &similarity.RunResult{StartedAt: time.Now()}
	}
	report := res.Report(err)

	if err == nil && s.cache != nil {
		if cerr := s.cache.Invalidate(ctx); cerr != nil {
			s.logger.Warn().Err(cerr).Str("run_id", report.RunID).Msg("similarity cache invalidation failed")
		}
	}

	s.lastMu.Lock()
	s.lastRun = &report
	s.lastMu.Unlock()

	return &report, err
}

// LastRun returns a copy of the last finished run's report, or nil.
func (s *SimilarityService) LastRun() *models.BatchRunReport {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.lastRun == nil {
		return nil
	}
	rep := *s.lastRun
	return &rep
}

// runLogged runs the batch from the Serve loop. Failures are already
// logged by the engine; an empty selection is an expected outcome.
func (s *SimilarityService) runLogged(ctx context.Context) {
	_, err := s.RunOnce(ctx)
	switch {
	case err == nil, errors.Is(err, similarity.ErrEmptySelection):
	case errors.Is(err, similarity.ErrBatchInProgress):
		s.logger.Debug().Msg("similarity run skipped, previous run still active")
	case ctx.Err() != nil:
	default:
		s.logger.Debug().Err(err).Msg("similarity run failed, will retry on schedule")
	}
}

func (s *SimilarityService) String() string {
	return s.name
}
