// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/recommend"
)

// trainTimeout bounds one fit.
const trainTimeout = 30 * time.Minute

// defaultTrainInterval applies when the configured interval is not positive.
const defaultTrainInterval = 6 * time.Hour

// Trainer fits the recommendation model from the store.
type Trainer interface {
	Train(ctx context.Context) error
}

// ModelServiceConfig configures the training schedule.
type ModelServiceConfig struct {
	TrainOnStartup bool
	TrainInterval  time.Duration
}

// ModelService refits the hybrid recommender on startup and on a ticker.
// Training failures are logged and retried at the next tick; they never
// stop the service.
type ModelService struct {
	trainer Trainer
	config  ModelServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewModelService creates the service.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewModelService(trainer Trainer, cfg ModelServiceConfig, logger zerolog.Logger) *ModelService {
	if cfg.TrainInterval <= 0 {
		cfg.TrainInterval = defaultTrainInterval
	}
	return &ModelService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "model").Logger(),
		name:    "model-service",
	}
}

// Serve implements suture.Service.
func (s *ModelService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("model service starting")

	if s.config.TrainOnStartup {
		s.train(ctx)
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("model service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.train(ctx)
		}
	}
}

func (s *ModelService) train(ctx context.Context) {
	trainCtx, cancel := context.WithTimeout(ctx, trainTimeout)
	defer cancel()

	start := time.Now()
	err := s.trainer.Train(trainCtx)
	switch {
	case err == nil:
		s.logger.Info().Dur("duration", time.Since(start)).Msg("model training complete")
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Msg("model training skipped, previous run still active")
	case errors.Is(err, recommend.ErrNoTrainingData):
		s.logger.Warn().Msg("model training skipped, store has no interactions")
	case ctx.Err() != nil:
		// Shutdown interrupted the fit.
	default:
		s.logger.Warn().Err(err).Msg("model training failed, will retry on schedule")
	}
}

func (s *ModelService) String() string {
	return s.name
}
