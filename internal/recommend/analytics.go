// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/itemsim/internal/cache"
	"github.com/tomtom215/itemsim/internal/models"
)

const (
	favoriteCategoryCount = 3
	unknownCategory       = "unknown"
)

// PlatformMetrics returns store-wide totals. Results are memoised in the
// local cache.
func (s *Service) PlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error) {
	const key = "platform_metrics"
	if v, ok := s.cached(key); ok {
		return v.(*models.PlatformMetrics), nil
	}
	m, err := s.store.PlatformMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform metrics: %w", err)
	}
	s.remember(key, m)
	return m, nil
}

// PopularCategories ranks categories by order lines. Results are memoised
// in the local cache.
func (s *Service) PopularCategories(ctx context.Context, limit int) ([]models.CategoryStats, error) {
	limit = s.ClampLimit(limit)
	key := cache.GenerateKey("popular_categories", limit)

	if v, ok := s.cached(key); ok {
		return v.([]models.CategoryStats), nil
	}
	categories, err := s.store.PopularCategories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular categories: %w", err)
	}
	s.remember(key, categories)
	return categories, nil
}

// UserBehavior summarises the customer's purchase history. A customer with
// no purchases gets zero totals and an empty category list.
func (s *Service) UserBehavior(ctx context.Context, userID string) (*models.UserBehavior, error) {
	history, err := s.store.PurchaseHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user behavior: %w", err)
	}
	return summarizeBehavior(userID, history), nil
}

// summarizeBehavior expects history oldest first.
func summarizeBehavior(userID string, history []models.Purchase) *models.UserBehavior {
	b := &models.UserBehavior{
		UserID:             userID,
		TotalItems:         len(history),
		FavoriteCategories: []models.CategoryCount{},
	}
	if len(history) == 0 {
		return b
	}

	orders := make(map[string]struct{}, len(history))
	counts := make(map[string]int)
	for _, p := range history {
		orders[p.OrderID] = struct{}{}
		b.TotalSpent += p.Price
		category := p.Category
		if category == "" {
			category = unknownCategory
		}
		counts[category]++
	}
	b.TotalOrders = len(orders)
	b.AvgOrderValue = b.TotalSpent / float64(b.TotalOrders)

	for category, n := range counts {
		b.FavoriteCategories = append(b.FavoriteCategories, models.CategoryCount{Category: category, Count: n})
	}
	sort.Slice(b.FavoriteCategories, func(i, j int) bool {
		a, c := b.FavoriteCategories[i], b.FavoriteCategories[j]
		if a.Count != c.Count {
			return a.Count > c.Count
		}
		return a.Category < c.Category
	})
	if len(b.FavoriteCategories) > favoriteCategoryCount {
		b.FavoriteCategories = b.FavoriteCategories[:favoriteCategoryCount]
	}

	if last := history[len(history)-1].PurchasedAt; !last.IsZero() {
		b.LastPurchase = &last
	}
	return b
}
