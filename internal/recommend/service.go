// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/itemsim/internal/cache"
	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend/algorithms"
)

const (
	// fallbackScore is attached to popular products served in place of
	// model output.
	fallbackScore  = 0.5
	fallbackReason = "Popular product (fallback)"
)

// Service serves per-user recommendations and catalog rankings. It is
// safe for concurrent use; Train may run while requests are served.
type Service struct {
	store    Store
	training TrainingSource
	hybrid   *Hybrid
	cfg      config.RecommendConfig
	local    *cache.Cache
	logger   zerolog.Logger

	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus
}

// NewService wires a service. local may be nil to disable in-process
// caching of the popular and top-rated lists.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(store Store, training TrainingSource, hybrid *Hybrid, cfg *config.RecommendConfig, local *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		training: training,
		hybrid:   hybrid,
		cfg:      *cfg,
		local:    local,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Hybrid returns the underlying model.
func (s *Service) Hybrid() *Hybrid {
	return s.hybrid
}

// ModelFitted reports whether recommendations come from a trained model.
func (s *Service) ModelFitted() bool {
	return s.hybrid.IsFitted()
}

// ClampLimit applies the configured default to a non-positive limit and
// caps it at the configured maximum.
func (s *Service) ClampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

// UserRecommendations runs the requested strategy for the user and
// enriches the result with catalog data. When the model is not trained or
// has nothing for the user, popular products are returned instead and the
// response strategy is "popular".
func (s *Service) UserRecommendations(ctx context.Context, userID string, strategy RequestStrategy, limit int) (*models.RecommendationResponse, error) {
	limit = s.ClampLimit(limit)

	var (
		history []models.Purchase
		popular []models.ProductSales
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = s.store.PurchaseHistory(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		popular, err = s.PopularProducts(gctx, limit, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load user context: %w", err)
	}

	items, applied, err := s.predict(ctx, userID, historyProductIDs(history), strategy, limit)
	if err != nil {
		return nil, err
	}

	resp := &models.RecommendationResponse{
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
	if len(items) == 0 {
		resp.Strategy = StrategyPopular.String()
		resp.Recommendations = fallbackRecommendations(popular)
	} else {
		recs, err := s.enrich(ctx, items, applied)
		if err != nil {
			return nil, err
		}
		resp.Strategy = applied.String()
		resp.Recommendations = recs
	}
	resp.TotalCount = len(resp.Recommendations)

	s.logger.Debug().
		Str("user_id", userID).
		Str("requested", string(strategy)).
		Str("strategy", resp.Strategy).
		Int("count", resp.TotalCount).
		Msg("user recommendations served")
	return resp, nil
}

func (s *Service) predict(ctx context.Context, userID string, history []string, strategy RequestStrategy, limit int) ([]algorithms.ScoredItem, Strategy, error) {
	var (
		items   []algorithms.ScoredItem
		applied Strategy
		err     error
	)
	switch strategy {
	case RequestCollaborative:
		applied = StrategyCollaborative
		items, err = s.hybrid.PredictCollaborative(ctx, userID, limit)
	case RequestContent:
		applied = StrategyContent
		items, err = s.hybrid.PredictContent(ctx, history, limit)
	case RequestHybrid:
		items, applied, err = s.hybrid.Predict(ctx, userID, history, limit)
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if errors.Is(err, ErrNotFitted) {
		s.logger.Debug().Str("user_id", userID).Msg("model not trained yet, serving popular products")
		return nil, StrategyPopular, nil
	}
	return items, applied, err
}

func (s *Service) enrich(ctx context.Context, items []algorithms.ScoredItem, applied Strategy) ([]models.ProductRecommendation, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ItemID
	}
	stats, err := s.store.ProductStats(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load product stats: %w", err)
	}

	reason := fmt.Sprintf("Recommended via %s", applied)
	out := make([]models.ProductRecommendation, len(items))
	for i, it := range items {
		st := stats[it.ItemID]
		out[i] = models.ProductRecommendation{
			ProductID:  it.ItemID,
			Score:      it.Score,
			Reason:     reason,
			Category:   st.Category,
			AvgRating:  st.AvgRating,
			TotalSales: st.SalesCount,
			AvgPrice:   st.AvgPrice,
		}
	}
	return out, nil
}

func fallbackRecommendations(popular []models.ProductSales) []models.ProductRecommendation {
	out := make([]models.ProductRecommendation, len(popular))
	for i, p := range popular {
		out[i] = models.ProductRecommendation{
			ProductID:  p.ProductID,
			Score:      fallbackScore,
			Reason:     fallbackReason,
			Category:   p.Category,
			TotalSales: p.SalesCount,
			AvgPrice:   p.AvgPrice,
		}
	}
	return out
}

// historyProductIDs returns the distinct products in order of first
// appearance.
func historyProductIDs(history []models.Purchase) []string {
	seen := make(map[string]struct{}, len(history))
	ids := make([]string, 0, len(history))
	for _, p := range history {
		if _, ok := seen[p.ProductID]; ok {
			continue
		}
		seen[p.ProductID] = struct{}{}
		ids = append(ids, p.ProductID)
	}
	return ids
}

// Explanation says which strategy serves the user and why.
func (s *Service) Explanation(ctx context.Context, userID string) (models.StrategyExplanation, error) {
	history, err := s.store.PurchaseHistory(ctx, userID)
	if err != nil {
		return models.StrategyExplanation{}, fmt.Errorf("load purchase history: %w", err)
	}
	return s.hybrid.Explanation(userID, historyProductIDs(history)), nil
}

// PopularProducts ranks products by order lines, optionally for customers
// of one state. Results are memoised in the local cache.
func (s *Service) PopularProducts(ctx context.Context, limit int, state string) ([]models.ProductSales, error) {
	limit = s.ClampLimit(limit)
	key := cache.GenerateKey("popular", struct {
		Limit int
		State string
	}{limit, state})

	if v, ok := s.cached(key); ok {
		return v.([]models.ProductSales), nil
	}
	products, err := s.store.PopularProducts(ctx, limit, state)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	s.remember(key, products)
	return products, nil
}

// TopRatedProducts ranks products with at least minReviews reviews by
// average score. Results are memoised in the local cache.
func (s *Service) TopRatedProducts(ctx context.Context, minReviews, limit int) ([]models.RatedProduct, error) {
	limit = s.ClampLimit(limit)
	key := cache.GenerateKey("top_rated", struct {
		MinReviews int
		Limit      int
	}{minReviews, limit})

	if v, ok := s.cached(key); ok {
		return v.([]models.RatedProduct), nil
	}
	products, err := s.store.TopRatedProducts(ctx, minReviews, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated products: %w", err)
	}
	s.remember(key, products)
	return products, nil
}

// RelatedProducts returns other products of the same category.
func (s *Service) RelatedProducts(ctx context.Context, productID string, limit int) ([]models.ProductSales, error) {
	products, err := s.store.RelatedProducts(ctx, productID, s.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	return products, nil
}

// ProductsByCategory lists products whose category contains category.
func (s *Service) ProductsByCategory(ctx context.Context, category string, limit int) ([]models.ProductSales, error) {
	products, err := s.store.ProductsByCategory(ctx, category, s.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}
	return products, nil
}

// ProductDetails returns the catalog view of one product.
func (s *Service) ProductDetails(ctx context.Context, productID string) (*models.ProductDetails, error) {
	details, err := s.store.ProductDetails(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product details: %w", err)
	}
	return details, nil
}

// PurchaseHistory returns the customer's order lines.
func (s *Service) PurchaseHistory(ctx context.Context, userID string) ([]models.Purchase, error) {
	history, err := s.store.PurchaseHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("purchase history: %w", err)
	}
	return history, nil
}

func (s *Service) cached(key string) (any, bool) {
	if s.local == nil {
		return nil, false
	}
	v, ok := s.local.Get(key)
	metrics.RecordCacheLookup("local", ok)
	return v, ok
}

func (s *Service) remember(key string, v any) {
	if s.local != nil {
		s.local.Set(key, v)
	}
}
