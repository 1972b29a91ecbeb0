// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package similarity

import (
	"context"
	"sync"

	"github.com/tomtom215/itemsim/internal/models"
)

// fakeSource serves fixed interactions. Products are ranked by summed
// purchase count the way the store does it.
type fakeSource struct {
	missing      []string
	interactions []models.Interaction

	tablesErr      error
	dimsErr        error
	topErr         error
	interactionErr error

	mu           sync.Mutex
	requestedIDs []string
	requestedMin int
	requestedMax int
}

func (f *fakeSource) MissingTables(context.Context) ([]string, error) {
	return f.missing, f.tablesErr
}

func (f *fakeSource) CountDimensions(context.Context) (models.DimensionCounts, error) {
	customers := map[string]bool{}
	products := map[string]bool{}
	for _, in := range f.interactions {
		customers[in.CustomerID] = true
		products[in.ProductID] = true
	}
	return models.DimensionCounts{
		Customers: int64(len(customers)),
		Products:  int64(len(products)),
	}, f.dimsErr
}

func (f *fakeSource) TopPurchasedProducts(_ context.Context, minPurchases, maxProducts int) ([]models.ProductPurchases, error) {
	f.mu.Lock()
	f.requestedMin, f.requestedMax = minPurchases, maxProducts
	f.mu.Unlock()
	if f.topErr != nil {
		return nil, f.topErr
	}

	totals := map[string]int{}
	var order []string
	for _, in := range f.interactions {
		if _, ok := totals[in.ProductID]; !ok {
			order = append(order, in.ProductID)
		}
		totals[in.ProductID] += in.PurchaseCount
	}

	var out []models.ProductPurchases
	for _, id := range order {
		if totals[id] >= minPurchases {
			out = append(out, models.ProductPurchases{ProductID: id, PurchaseCount: totals[id]})
		}
	}
	if len(out) > maxProducts {
		out = out[:maxProducts]
	}
	return out, nil
}

func (f *fakeSource) ProductInteractions(_ context.Context, productIDs []string, fn func(models.Interaction) error) error {
	f.mu.Lock()
	f.requestedIDs = append([]string(nil), productIDs...)
	f.mu.Unlock()
	if f.interactionErr != nil {
		return f.interactionErr
	}

	want := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}
	for _, in := range f.interactions {
		if !want[in.ProductID] {
			continue
		}
		if err := fn(in); err != nil {
			return err
		}
	}
	return nil
}

type fakeWriter struct {
	mu    sync.Mutex
	calls int
	pairs []models.SimilarityPair
	err   error
}

func (w *fakeWriter) ReplaceItemSimilarity(_ context.Context, pairs []models.SimilarityPair) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.pairs = append([]models.SimilarityPair(nil), pairs...)
	return nil
}

// toyInteractions mirrors toyMatrix: P1 and P2 bought by all four customers.
func toyInteractions() []models.Interaction {
	var in []models.Interaction
	for _, c := range []string{"c1", "c2", "c3", "c4"} {
		in = append(in,
			models.Interaction{CustomerID: c, ProductID: "P1", PurchaseCount: 1},
			models.Interaction{CustomerID: c, ProductID: "P2", PurchaseCount: 1},
		)
	}
	return append(in,
		models.Interaction{CustomerID: "c1", ProductID: "P3", PurchaseCount: 1},
		models.Interaction{CustomerID: "c2", ProductID: "P4", PurchaseCount: 1},
		models.Interaction{CustomerID: "c3", ProductID: "P4", PurchaseCount: 1},
		models.Interaction{CustomerID: "c4", ProductID: "P5", PurchaseCount: 1},
	)
}
