// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend/algorithms"
)

var (
	// ErrInvalidWeights is returned when the blend weights do not sum to 1.
	ErrInvalidWeights = errors.New("collaborative and content weights must sum to 1.0")

	// ErrNotFitted is returned by Predict before the first successful Fit.
	ErrNotFitted = fmt.Errorf("hybrid: %w", algorithms.ErrNotFitted)

	// ErrUnknownStrategy is returned for an unsupported request strategy.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Weights are the blend coefficients of the two sub-models.
type Weights struct {
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`
}

// validate only checks the sum. A negative weight is allowed and turns
// that model's scores into a penalty.
func (w Weights) validate() error {
	if math.IsNaN(w.Collaborative) || math.IsNaN(w.Content) {
		return fmt.Errorf("%w: got %v and %v", ErrInvalidWeights, w.Collaborative, w.Content)
	}
	if math.Abs(w.Collaborative+w.Content-1.0) > config.WeightTolerance {
		return fmt.Errorf("%w: got %v", ErrInvalidWeights, w.Collaborative+w.Content)
	}
	return nil
}

// HybridConfig configures a Hybrid and its sub-models.
type HybridConfig struct {
	Weights         Weights
	MinInteractions int
	Collaborative   algorithms.CollaborativeConfig
	Content         algorithms.ContentConfig
}

// HybridConfigFrom builds a HybridConfig from the recommend section.
func HybridConfigFrom(cfg *config.RecommendConfig) HybridConfig {
	return HybridConfig{
		Weights:         Weights{Collaborative: cfg.CollaborativeWeight, Content: cfg.ContentWeight},
		MinInteractions: cfg.MinInteractions,
		Collaborative: algorithms.CollaborativeConfig{
			NFactors:      cfg.NFactors,
			MaxIterations: cfg.MaxIterations,
			Seed:          cfg.Seed,
		},
		Content: algorithms.ContentConfig{MaxFeatures: cfg.MaxFeatures},
	}
}

// Hybrid owns a collaborative and a content model and picks, per user,
// which of them to trust.
//
// Fit trains fresh sub-models and swaps both in together, so predictions
// never mix data from two fits.
type Hybrid struct {
	logger zerolog.Logger

	collabConfig    algorithms.CollaborativeConfig
	contentConfig   algorithms.ContentConfig
	minInteractions int

	fitMu sync.Mutex // serialises Fit

	mu            sync.RWMutex
	collaborative *algorithms.Collaborative
	content       *algorithms.Content
	weights       Weights
	fitted        bool
}

// NewHybrid validates the weights and creates an unfitted model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHybrid(cfg HybridConfig, logger zerolog.Logger) (*Hybrid, error) {
	if err := cfg.Weights.validate(); err != nil {
		return nil, err
	}
	if cfg.MinInteractions <= 0 {
		cfg.MinInteractions = 5
	}
	return &Hybrid{
		logger:          logger.With().Str("component", "hybrid").Logger(),
		collabConfig:    cfg.Collaborative,
		contentConfig:   cfg.Content,
		collaborative:   algorithms.NewCollaborative(cfg.Collaborative),
		content:         algorithms.NewContent(cfg.Content),
		minInteractions: cfg.MinInteractions,
		weights:         cfg.Weights,
	}, nil
}

// Fit trains both sub-models concurrently on new instances. They replace
// the serving pair only when both succeed; on error the previous pair
// keeps serving and IsFitted is unchanged. Predictions keep running
// against the previous pair for the duration of the fit.
func (h *Hybrid) Fit(ctx context.Context, ratings []algorithms.Rating, items []algorithms.ItemFeatures) error {
	h.fitMu.Lock()
	defer h.fitMu.Unlock()

	collaborative := algorithms.NewCollaborative(h.collabConfig)
	content := algorithms.NewContent(h.contentConfig)

	h.logger.Info().
		Int("ratings", len(ratings)).
		Int("items", len(items)).
		Msg("fitting hybrid model")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		err := collaborative.Fit(gctx, ratings)
		metrics.RecordModelFit(collaborative.Name(), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("fit collaborative model: %w", err)
		}
		users, products := collaborative.Dims()
		h.logger.Info().
			Int("users", users).
			Int("products", products).
			Dur("duration", time.Since(start)).
			Msg("collaborative model fitted")
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		err := content.Fit(gctx, items)
		metrics.RecordModelFit(content.Name(), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("fit content model: %w", err)
		}
		h.logger.Info().
			Int("products", content.Len()).
			Dur("duration", time.Since(start)).
			Msg("content model fitted")
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.Error().Err(err).Msg("hybrid model fit failed")
		return err
	}

	h.mu.Lock()
	h.collaborative = collaborative
	h.content = content
	h.fitted = true
	h.mu.Unlock()

	h.logger.Info().Msg("hybrid model fitted")
	return nil
}

// IsFitted reports whether Fit has succeeded at least once.
func (h *Hybrid) IsFitted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.fitted
}

// subModels returns the serving pair.
func (h *Hybrid) subModels() (*algorithms.Collaborative, *algorithms.Content) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.collaborative, h.content
}

// Weights returns the current blend weights.
func (h *Hybrid) Weights() Weights {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.weights
}

// UpdateWeights replaces the blend weights. Invalid weights leave the
// current ones untouched.
func (h *Hybrid) UpdateWeights(collaborative, content float64) error {
	w := Weights{Collaborative: collaborative, Content: content}
	if err := w.validate(); err != nil {
		return err
	}

	h.mu.Lock()
	h.weights = w
	h.mu.Unlock()

	h.logger.Info().
		Float64("collaborative_weight", collaborative).
		Float64("content_weight", content).
		Msg("blend weights updated")
	return nil
}

// SelectStrategy picks the path for a user:
//   - known to the collaborative model with at least MinInteractions rated
//     products: hybrid
//   - known with fewer: content based
//   - unknown but with a supplied history: content based
//   - otherwise: popular
func (h *Hybrid) SelectStrategy(userID string, userItems []string) Strategy {
	collaborative, _ := h.subModels()
	return selectStrategy(collaborative, h.minInteractions, userID, userItems)
}

func selectStrategy(collaborative *algorithms.Collaborative, minInteractions int, userID string, userItems []string) Strategy {
	if count, known := collaborative.InteractionCount(userID); known {
		if count >= minInteractions {
			return StrategyHybrid
		}
		return StrategyContent
	}
	if len(userItems) > 0 {
		return StrategyContent
	}
	return StrategyPopular
}

// Predict returns up to n recommendations for the user along with the
// strategy that produced them. StrategyPopular always comes with an empty
// list; the fallback ranking is the caller's job.
func (h *Hybrid) Predict(ctx context.Context, userID string, userItems []string, n int) ([]algorithms.ScoredItem, Strategy, error) {
	if !h.IsFitted() {
		return nil, "", ErrNotFitted
	}

	collaborative, content := h.subModels()
	strategy := selectStrategy(collaborative, h.minInteractions, userID, userItems)
	metrics.RecordPrediction(strategy.String())

	var items []algorithms.ScoredItem
	switch strategy {
	case StrategyHybrid:
		items = h.blend(ctx, collaborative, content, userID, userItems, n)
	case StrategyContent:
		items = h.contentPredictions(ctx, content, userItems, n)
	default:
		items = []algorithms.ScoredItem{}
	}
	return items, strategy, nil
}

// PredictCollaborative runs the collaborative model alone.
func (h *Hybrid) PredictCollaborative(ctx context.Context, userID string, n int) ([]algorithms.ScoredItem, error) {
	if !h.IsFitted() {
		return nil, ErrNotFitted
	}
	metrics.RecordPrediction(StrategyCollaborative.String())
	collaborative, _ := h.subModels()
	return h.collaborativePredictions(ctx, collaborative, userID, n), nil
}

// PredictContent runs the content model alone over the given history.
func (h *Hybrid) PredictContent(ctx context.Context, userItems []string, n int) ([]algorithms.ScoredItem, error) {
	if !h.IsFitted() {
		return nil, ErrNotFitted
	}
	metrics.RecordPrediction(StrategyContent.String())
	_, content := h.subModels()
	return h.contentPredictions(ctx, content, userItems, n), nil
}

// SimilarProducts returns the products most similar to productID by
// attributes.
func (h *Hybrid) SimilarProducts(productID string, n int) []algorithms.ScoredItem {
	_, content := h.subModels()
	return content.SimilarItems(productID, n)
}

// Explanation describes the strategy that would serve the user.
func (h *Hybrid) Explanation(userID string, userItems []string) models.StrategyExplanation {
	return explain(h.SelectStrategy(userID, userItems), h.Weights(), h.minInteractions)
}

// blend fetches 2n candidates from each sub-model and sums their weighted
// scores.
func (h *Hybrid) blend(ctx context.Context, collaborative *algorithms.Collaborative, content *algorithms.Content,
	userID string, userItems []string, n int,
) []algorithms.ScoredItem {
	w := h.Weights()

	collab := h.collaborativePredictions(ctx, collaborative, userID, 2*n)
	var attrs []algorithms.ScoredItem
	if len(userItems) > 0 {
		attrs = h.contentPredictions(ctx, content, userItems, 2*n)
	}

	combined := make(map[string]float64, len(collab)+len(attrs))
	for _, it := range collab {
		combined[it.ItemID] += it.Score * w.Collaborative
	}
	for _, it := range attrs {
		combined[it.ItemID] += it.Score * w.Content
	}

	out := make([]algorithms.ScoredItem, 0, len(combined))
	for id, score := range combined {
		out = append(out, algorithms.ScoredItem{ItemID: id, Score: score})
	}
	return algorithms.RankTop(out, n)
}

func (h *Hybrid) collaborativePredictions(ctx context.Context, model *algorithms.Collaborative, userID string, n int) []algorithms.ScoredItem {
	items, err := model.Predict(userID, n)
	if err != nil {
		h.subModelFailed(ctx, model.Name(), err)
		return []algorithms.ScoredItem{}
	}
	return items
}

func (h *Hybrid) contentPredictions(ctx context.Context, model *algorithms.Content, userItems []string, n int) []algorithms.ScoredItem {
	if len(userItems) == 0 {
		return []algorithms.ScoredItem{}
	}
	items, err := model.Predict(userItems, n)
	if err != nil {
		h.subModelFailed(ctx, model.Name(), err)
		return []algorithms.ScoredItem{}
	}
	return items
}

func (h *Hybrid) subModelFailed(ctx context.Context, model string, err error) {
	metrics.RecordSubModelFailure(model)
	l := h.logger.With().Str("model", model).Logger()
	if id := logging.RequestIDFromContext(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	l.Warn().Err(err).Msg("sub-model prediction failed, treating as empty")
}
