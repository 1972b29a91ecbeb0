// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package similarity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
)

// Writer replaces the persisted similarity table.
type Writer interface {
	ReplaceItemSimilarity(ctx context.Context, pairs []models.SimilarityPair) error
}

// RunResult summarizes one ComputeAndPersist call.
type RunResult struct {
	RunID            string
	StartedAt        time.Time
	Duration         time.Duration
	SelectedProducts int
	Customers        int
	NonZero          int
	Density          float64
	PairsWritten     int
	Threshold        float64
}

// Report converts the result for the health endpoint. runErr, if any, is
// recorded in the report's Error field.
func (r *RunResult) Report(runErr error) models.BatchRunReport {
	rep := models.BatchRunReport{
		RunID:            r.RunID,
		StartedAt:        r.StartedAt,
		DurationMS:       r.Duration.Milliseconds(),
		SelectedProducts: r.SelectedProducts,
		Customers:        r.Customers,
		NonZero:          r.NonZero,
		Density:          r.Density,
		PairsWritten:     r.PairsWritten,
		Threshold:        r.Threshold,
	}
	if runErr != nil {
		rep.Error = runErr.Error()
	}
	return rep
}

// Engine runs the build, score and persist stages of a batch.
type Engine struct {
	builder   *Builder
	writer    Writer
	threshold float64
	logger    zerolog.Logger
}

// NewEngine wires a Builder over src and persists through w.
func NewEngine(src Source, w Writer, cfg config.SimilarityConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		builder:   NewBuilder(src, cfg.MinProductPurchases, cfg.MaxProducts, logger),
		writer:    w,
		threshold: cfg.Threshold,
		logger:    logger,
	}
}

// ComputeAndPersist builds the interaction matrix, scores every product pair
// and replaces item_similarity with the pairs at or above the threshold.
// Running it twice over unchanged data writes identical tables.
//
// The returned RunResult is non-nil even on error and carries whatever
// stages completed.
//
// Parameters:
//   - ctx: carries cancellation; a run id is attached for log correlation
//
// Returns:
//   - RunResult with run id, timings, matrix shape and pairs written
//   - ErrMissingTables or ErrEmptySelection from Build, or a wrapped
//     persistence error; the previous table is left in place on any error
//
// Thread Safety:
//   - The engine itself holds no mutable state
//   - Concurrent runs are not coordinated and the last swap wins; callers
//     serialise runs (see supervisor/services.SimilarityService)
//
// Metrics:
//   - similarity_batch_* records outcome, duration, products, pairs and
//     density for every call
func (e *Engine) ComputeAndPersist(ctx context.Context) (*RunResult, error) {
	res := &RunResult{
		RunID:     logging.GenerateRunID(),
		StartedAt: time.Now(),
		Threshold: e.threshold,
	}
	ctx = logging.ContextWithRunID(ctx, res.RunID)
	log := e.logger.With().Str("run_id", res.RunID).Logger()

	err := e.run(ctx, res, log)
	res.Duration = time.Since(res.StartedAt)

	switch {
	case err == nil:
		metrics.RecordSimilarityBatch("success", res.Duration, res.SelectedProducts, res.PairsWritten, res.Density)
		log.Info().
			Int("pairs", res.PairsWritten).
			Dur("duration", res.Duration).
			Msg("Item similarity batch completed")
	case errors.Is(err, ErrEmptySelection):
		metrics.RecordSimilarityBatch("empty_selection", res.Duration, 0, 0, 0)
		log.Warn().Err(err).Msg("Item similarity batch skipped")
	default:
		metrics.RecordSimilarityBatch("error", res.Duration, 0, 0, 0)
		log.Error().Err(err).Msg("Item similarity batch failed")
	}
	return res, err
}

func (e *Engine) run(ctx context.Context, res *RunResult, log zerolog.Logger) error {
	m, err := e.builder.withLogger(log).Build(ctx)
	if err != nil {
		return err
	}
	res.SelectedProducts = m.Cols()
	res.Customers = m.Rows()
	res.NonZero = m.NonZero()
	res.Density = m.Density()

	pairs := ComputePairs(m, e.threshold)
	log.Info().
		Int("candidates", m.Cols()*(m.Cols()-1)/2).
		Int("retained", len(pairs)).
		Float64("threshold", e.threshold).
		Msg("Pairwise similarity computed")

	if err := e.writer.ReplaceItemSimilarity(ctx, pairs); err != nil {
		return fmt.Errorf("persist similarity: %w", err)
	}
	res.PairsWritten = len(pairs)
	return nil
}
