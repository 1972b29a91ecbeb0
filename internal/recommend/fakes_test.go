// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend/algorithms"
)

func testLogger() zerolog.Logger {
	return logging.NewTestLogger(io.Discard)
}

func testRecommendConfig() *config.RecommendConfig {
	return &config.RecommendConfig{
		CollaborativeWeight: 0.6,
		ContentWeight:       0.4,
		MinInteractions:     5,
		NFactors:            2,
		MaxIterations:       100,
		Seed:                42,
		MaxFeatures:         1000,
		MaxItems:            1000,
		DefaultLimit:        10,
		MaxLimit:            100,
	}
}

// catalog: p1..p8 in two categories. heavy rates p1..p6, light rates
// p1..p3, and a few filler users make the matrix less trivial.
func testRatings() []algorithms.Rating {
	var ratings []algorithms.Rating
	add := func(user string, items ...int) {
		for _, i := range items {
			ratings = append(ratings, algorithms.Rating{UserID: user, ItemID: fmt.Sprintf("p%d", i), Value: 1})
		}
	}
	add("heavy", 1, 2, 3, 4, 5, 6)
	add("light", 1, 2, 3)
	add("u1", 1, 7)
	add("u2", 2, 7, 8)
	add("u3", 4, 5, 8)
	return ratings
}

func testItems() []algorithms.ItemFeatures {
	items := make([]algorithms.ItemFeatures, 0, 8)
	for i := 1; i <= 8; i++ {
		category := "garden tools"
		if i%2 == 0 {
			category = "baby toys"
		}
		items = append(items, algorithms.ItemFeatures{
			ItemID:  fmt.Sprintf("p%d", i),
			Numeric: []float64{float64(i), float64(9 - i)},
			Text:    []string{category},
		})
	}
	return items
}

func fittedHybrid(t *testing.T) *Hybrid {
	t.Helper()
	h, err := NewHybrid(HybridConfigFrom(testRecommendConfig()), testLogger())
	if err != nil {
		t.Fatalf("NewHybrid() error = %v", err)
	}
	if err := h.Fit(context.Background(), testRatings(), testItems()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return h
}

// fakeStore implements Store and TrainingSource over fixed data.
type fakeStore struct {
	history  map[string][]models.Purchase
	popular  []models.ProductSales
	topRated []models.RatedProduct
	stats    map[string]models.ProductDetails

	platform   models.PlatformMetrics
	categories []models.CategoryStats

	ratings  []algorithms.Rating
	features []models.ProductFeatures

	historyErr error
	popularErr error

	popularCalls  atomic.Int32
	topRatedCalls atomic.Int32
	metricsCalls  atomic.Int32
}

func newFakeStore() *fakeStore {
	f := &fakeStore{
		history: map[string][]models.Purchase{
			"heavy": purchases("p1", "p2", "p3", "p4", "p5", "p6"),
			"light": purchases("p1", "p2", "p3"),
			"fresh": purchases("p1", "p1", "p2"),
		},
		popular: []models.ProductSales{
			{ProductID: "p1", Category: "garden tools", SalesCount: 5, AvgPrice: 10},
			{ProductID: "p2", Category: "baby toys", SalesCount: 4, AvgPrice: 20},
		},
		topRated: []models.RatedProduct{{ProductID: "p3", AvgRating: 4.5, ReviewCount: 12}},
		stats:    make(map[string]models.ProductDetails),
		ratings:  testRatings(),
	}
	f.platform = models.PlatformMetrics{TotalOrders: 9, TotalProducts: 8, TotalRevenue: 120}
	f.categories = []models.CategoryStats{
		{Category: "garden tools", OrderCount: 5, TotalRevenue: 50, AvgPrice: 10},
		{Category: "baby toys", OrderCount: 4, TotalRevenue: 80, AvgPrice: 20},
	}
	for _, it := range testItems() {
		f.stats[it.ItemID] = models.ProductDetails{ProductID: it.ItemID, Category: it.Text[0], SalesCount: 3, AvgPrice: 9.5, AvgRating: 4}
		f.features = append(f.features, models.ProductFeatures{
			ProductID:  it.ItemID,
			Category:   it.Text[0],
			NameLength: it.Numeric[0],
			WeightG:    it.Numeric[1],
		})
	}
	return f
}

func purchases(ids ...string) []models.Purchase {
	out := make([]models.Purchase, len(ids))
	for i, id := range ids {
		out[i] = models.Purchase{OrderID: fmt.Sprintf("o%d", i), ProductID: id}
	}
	return out
}

func (f *fakeStore) PurchaseHistory(_ context.Context, customerID string) ([]models.Purchase, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if h, ok := f.history[customerID]; ok {
		return h, nil
	}
	return []models.Purchase{}, nil
}

func (f *fakeStore) PopularProducts(_ context.Context, limit int, _ string) ([]models.ProductSales, error) {
	f.popularCalls.Add(1)
	if f.popularErr != nil {
		return nil, f.popularErr
	}
	if len(f.popular) > limit {
		return f.popular[:limit], nil
	}
	return f.popular, nil
}

func (f *fakeStore) RelatedProducts(context.Context, string, int) ([]models.ProductSales, error) {
	return f.popular[1:], nil
}

func (f *fakeStore) ProductsByCategory(context.Context, string, int) ([]models.ProductSales, error) {
	return f.popular[:1], nil
}

func (f *fakeStore) TopRatedProducts(context.Context, int, int) ([]models.RatedProduct, error) {
	f.topRatedCalls.Add(1)
	return f.topRated, nil
}

func (f *fakeStore) ProductDetails(_ context.Context, productID string) (*models.ProductDetails, error) {
	d, ok := f.stats[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: not found", productID)
	}
	return &d, nil
}

func (f *fakeStore) ProductStats(_ context.Context, ids []string) (map[string]models.ProductDetails, error) {
	out := make(map[string]models.ProductDetails, len(ids))
	for _, id := range ids {
		if d, ok := f.stats[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (f *fakeStore) PlatformMetrics(context.Context) (*models.PlatformMetrics, error) {
	f.metricsCalls.Add(1)
	m := f.platform
	return &m, nil
}

func (f *fakeStore) PopularCategories(_ context.Context, limit int) ([]models.CategoryStats, error) {
	if len(f.categories) > limit {
		return f.categories[:limit], nil
	}
	return f.categories, nil
}

func (f *fakeStore) TopPurchasedProducts(_ context.Context, _ int, maxProducts int) ([]models.ProductPurchases, error) {
	counts := make(map[string]int)
	for _, r := range f.ratings {
		counts[r.ItemID]++
	}
	var out []models.ProductPurchases
	for i := 1; i <= 8 && len(out) < maxProducts; i++ {
		id := fmt.Sprintf("p%d", i)
		if counts[id] > 0 {
			out = append(out, models.ProductPurchases{ProductID: id, PurchaseCount: counts[id]})
		}
	}
	return out, nil
}

func (f *fakeStore) ProductInteractions(_ context.Context, ids []string, fn func(models.Interaction) error) error {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	for _, r := range f.ratings {
		if !selected[r.ItemID] {
			continue
		}
		if err := fn(models.Interaction{CustomerID: r.UserID, ProductID: r.ItemID, PurchaseCount: int(r.Value)}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) ProductFeatures(context.Context) ([]models.ProductFeatures, error) {
	return f.features, nil
}
